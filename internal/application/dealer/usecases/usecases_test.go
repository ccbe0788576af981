package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appupload "github.com/ntwoods/dealerdocs/internal/application/upload"
	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

type mockRepository struct{ mock.Mock }

func (m *mockRepository) FetchAll(ctx context.Context, accessToken string) ([]*dealer.Record, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dealer.Record), args.Error(1)
}

func (m *mockRepository) Upsert(ctx context.Context, accessToken string, cmd dealer.UpsertCommand) (*dealer.UpsertResult, error) {
	args := m.Called(ctx, accessToken, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.UpsertResult), args.Error(1)
}

// nameUploader assigns "id-<name>" to every file, failing names in fail.
type nameUploader struct {
	fail map[string]error
}

func (u nameUploader) Upload(_ context.Context, _, folderID string, file upload.FileHandle) (*upload.UploadedFile, error) {
	if err := u.fail[file.Name()]; err != nil {
		return nil, err
	}
	return &upload.UploadedFile{ID: "id-" + file.Name(), Name: file.Name()}, nil
}

func newSubmit(repo dealer.Repository, uploader appupload.Uploader) *SubmitDocumentsUseCase {
	scheduler := appupload.NewScheduler(uploader, logger.NewNop())
	return NewSubmitDocumentsUseCase(scheduler, repo, "folder-1", 2, logger.NewNop())
}

var modTime = time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)

func TestSubmitDocuments_Success(t *testing.T) {
	repo := &mockRepository{}
	files := []upload.FileHandle{
		upload.NewMemoryFile("rate.pdf", "application/pdf", modTime, []byte("a")),
		upload.NewMemoryFile("rate.pdf", "application/pdf", modTime, []byte("a")),
		upload.NewMemoryFile("kyc.jpg", "image/jpeg", modTime, []byte("bb")),
	}
	attachments := dealer.Attachments{FileIDs: []string{"id-rate.pdf", "id-kyc.jpg"}, FileNames: []string{"rate.pdf", "kyc.jpg"}}
	repo.On("Upsert", mock.Anything, "tok", dealer.UpsertCommand{
		DealerName:      "Acme Motors",
		Station:         "DEL-01",
		MarketingPerson: "Rahul",
		NewFiles:        []upload.UploadedFile{{ID: "id-rate.pdf", Name: "rate.pdf"}, {ID: "id-kyc.jpg", Name: "kyc.jpg"}},
		Actor:           "mis01@ntwoods.com",
	}).Return(&dealer.UpsertResult{Updated: false, RowPosition: 2, Attachments: attachments}, nil).Once()
	records := []*dealer.Record{{RowPosition: 2, DealerName: "Acme Motors"}}
	repo.On("FetchAll", mock.Anything, "tok").Return(records, nil).Once()

	result, err := newSubmit(repo, nameUploader{}).Execute(context.Background(), SubmitDocumentsCommand{
		DealerName:      "Acme Motors",
		Station:         "DEL-01",
		MarketingPerson: "Rahul",
		Files:           files,
		AccessToken:     "tok",
		Actor:           "mis01@ntwoods.com",
	})

	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, 2, result.RowPosition)
	assert.Equal(t, attachments, result.Attachments)
	assert.Equal(t, records, result.Records)
	require.Len(t, result.Items, 2, "duplicate file is dropped")
	for _, item := range result.Items {
		assert.Equal(t, upload.StatusDone, item.Status)
		assert.Equal(t, 100, item.Progress)
	}
	repo.AssertExpectations(t)
}

func TestSubmitDocuments_Validation(t *testing.T) {
	file := upload.NewMemoryFile("rate.pdf", "", modTime, []byte("a"))
	tests := []struct {
		name string
		cmd  SubmitDocumentsCommand
		want string
	}{
		{
			name: "missing marketing person",
			cmd:  SubmitDocumentsCommand{DealerName: "Acme", Station: "DEL-01", MarketingPerson: " ", Files: []upload.FileHandle{file}},
			want: "Dealer name, station, and marketing person are required.",
		},
		{
			name: "missing dealer",
			cmd:  SubmitDocumentsCommand{Station: "DEL-01", MarketingPerson: "Rahul", Files: []upload.FileHandle{file}},
			want: "Dealer name, station, and marketing person are required.",
		},
		{
			name: "no files",
			cmd:  SubmitDocumentsCommand{DealerName: "Acme", Station: "DEL-01", MarketingPerson: "Rahul"},
			want: "Please upload at least one document.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}

			result, err := newSubmit(repo, nameUploader{}).Execute(context.Background(), tt.cmd)

			assert.Nil(t, result)
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, tt.want, errors.Message(err))
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitDocuments_UploadFailureSkipsUpsert(t *testing.T) {
	repo := &mockRepository{}
	uploader := nameUploader{fail: map[string]error{"kyc.jpg": errors.NewUploadError("Quota exceeded")}}

	result, err := newSubmit(repo, uploader).Execute(context.Background(), SubmitDocumentsCommand{
		DealerName:      "Acme",
		Station:         "DEL-01",
		MarketingPerson: "Rahul",
		Files:           []upload.FileHandle{upload.NewMemoryFile("kyc.jpg", "", modTime, []byte("x"))},
		AccessToken:     "tok",
	})

	assert.True(t, errors.IsUploadError(err))
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, upload.StatusError, result.Items[0].Status)
	assert.Equal(t, "Quota exceeded", result.Items[0].Error)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitDocuments_RereadFailureKeepsResult(t *testing.T) {
	repo := &mockRepository{}
	repo.On("Upsert", mock.Anything, "tok", mock.Anything).
		Return(&dealer.UpsertResult{Updated: true, RowPosition: 4}, nil)
	repo.On("FetchAll", mock.Anything, "tok").Return(nil, errors.NewStoreError("Request failed (503)"))

	result, err := newSubmit(repo, nameUploader{}).Execute(context.Background(), SubmitDocumentsCommand{
		DealerName:      "Acme",
		Station:         "DEL-01",
		MarketingPerson: "Rahul",
		Files:           []upload.FileHandle{upload.NewMemoryFile("a.pdf", "", modTime, []byte("x"))},
		AccessToken:     "tok",
	})

	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Nil(t, result.Records)
}

func TestSubmitDocuments_CallerCancellationDoesNotAbort(t *testing.T) {
	repo := &mockRepository{}
	repo.On("Upsert", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), "tok", mock.Anything).
		Return(&dealer.UpsertResult{RowPosition: 2}, nil)
	repo.On("FetchAll", mock.Anything, "tok").Return([]*dealer.Record{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSubmit(repo, nameUploader{}).Execute(ctx, SubmitDocumentsCommand{
		DealerName:      "Acme",
		Station:         "DEL-01",
		MarketingPerson: "Rahul",
		Files:           []upload.FileHandle{upload.NewMemoryFile("a.pdf", "", modTime, []byte("x"))},
		AccessToken:     "tok",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListRecords(t *testing.T) {
	repo := &mockRepository{}
	records := []*dealer.Record{
		{RowPosition: 2, DealerName: "Acme Motors", Station: "DEL-01", MarketingPerson: "Rahul", FileIDs: []string{"f1", "f2"}},
		{RowPosition: 3, DealerName: "Bharat Auto", Station: "MUM-02", MarketingPerson: "Sneha", FileIDs: []string{"f3"}},
		{RowPosition: 4, DealerName: "Acme Tyres", Station: "MUM-02", MarketingPerson: "Rahul"},
	}
	repo.On("FetchAll", mock.Anything, "tok").Return(records, nil)

	result, err := NewListRecordsUseCase(repo, logger.NewNop()).Execute(context.Background(), ListRecordsQuery{
		AccessToken: "tok",
		Filter:      dealer.ListFilter{Query: "acme", Station: "mum-02"},
	})

	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Acme Tyres", result.Records[0].DealerName)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.TotalDocuments)
	assert.Equal(t, []string{"DEL-01", "MUM-02"}, result.Stations)
	assert.Equal(t, []string{"Rahul", "Sneha"}, result.MarketingPeople)
}

func TestListRecords_Error(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FetchAll", mock.Anything, "").Return(nil, errors.NewUnauthorizedError("Unauthorized: access token missing."))

	_, err := NewListRecordsUseCase(repo, logger.NewNop()).Execute(context.Background(), ListRecordsQuery{})

	assert.True(t, errors.IsUnauthorizedFailure(err))
}
