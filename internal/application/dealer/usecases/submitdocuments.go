package usecases

import (
	"context"
	"strings"

	appupload "github.com/ntwoods/dealerdocs/internal/application/upload"
	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const (
	missingFieldsMessage = "Dealer name, station, and marketing person are required."
	missingFilesMessage  = "Please upload at least one document."
)

// BatchUploader uploads a batch and returns results aligned with the input.
type BatchUploader interface {
	UploadAll(ctx context.Context, cmd appupload.UploadAllCommand) ([]upload.UploadedFile, error)
}

type SubmitDocumentsCommand struct {
	DealerName      string
	Station         string
	MarketingPerson string
	Files           []upload.FileHandle
	AccessToken     string
	Actor           string
}

// SubmitDocumentsResult is returned even when the submission fails, so
// callers can show per-file status.
type SubmitDocumentsResult struct {
	Updated     bool
	RowPosition int
	Attachments dealer.Attachments
	Items       []upload.Item
	// Records is the sheet re-read after the write; nil if that read failed.
	Records []*dealer.Record
}

type SubmitDocumentsUseCase struct {
	uploader    BatchUploader
	repo        dealer.Repository
	folderID    string
	concurrency int
	logger      logger.Interface
}

func NewSubmitDocumentsUseCase(
	uploader BatchUploader,
	repo dealer.Repository,
	folderID string,
	concurrency int,
	logger logger.Interface,
) *SubmitDocumentsUseCase {
	return &SubmitDocumentsUseCase{
		uploader:    uploader,
		repo:        repo,
		folderID:    folderID,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute uploads the batch, merges the results into the dealer's record
// and re-reads the sheet. Uploads and the write are not cancelled when the
// caller goes away.
func (uc *SubmitDocumentsUseCase) Execute(ctx context.Context, cmd SubmitDocumentsCommand) (*SubmitDocumentsResult, error) {
	if strings.TrimSpace(cmd.DealerName) == "" || strings.TrimSpace(cmd.Station) == "" ||
		strings.TrimSpace(cmd.MarketingPerson) == "" {
		return nil, errors.NewValidationError(missingFieldsMessage)
	}

	batch := upload.NewBatch(cmd.Files...)
	if batch.Len() == 0 {
		return nil, errors.NewValidationError(missingFilesMessage)
	}
	if skipped := len(cmd.Files) - batch.Len(); skipped > 0 {
		uc.logger.Debugw("duplicate files dropped from batch", "skipped", skipped)
	}

	ctx = context.WithoutCancel(ctx)
	result := &SubmitDocumentsResult{}

	uploaded, err := uc.uploader.UploadAll(ctx, appupload.UploadAllCommand{
		Files:       batch.Files(),
		AccessToken: cmd.AccessToken,
		FolderID:    uc.folderID,
		Concurrency: uc.concurrency,
		OnProgress:  batch.Apply,
	})
	result.Items = batch.Items()
	if err != nil {
		return result, err
	}

	upserted, err := uc.repo.Upsert(ctx, cmd.AccessToken, dealer.UpsertCommand{
		DealerName:      cmd.DealerName,
		Station:         cmd.Station,
		MarketingPerson: cmd.MarketingPerson,
		NewFiles:        uploaded,
		Actor:           cmd.Actor,
	})
	if err != nil {
		uc.logger.Errorw("failed to save dealer record", "error", err, "uploaded", len(uploaded))
		return result, err
	}
	result.Updated = upserted.Updated
	result.RowPosition = upserted.RowPosition
	result.Attachments = upserted.Attachments

	records, err := uc.repo.FetchAll(ctx, cmd.AccessToken)
	if err != nil {
		uc.logger.Warnw("failed to re-read dealer records", "error", err)
	} else {
		result.Records = records
	}

	uc.logger.Infow("dealer documents saved",
		"updated", result.Updated,
		"row", result.RowPosition,
		"files", len(uploaded),
	)
	return result, nil
}
