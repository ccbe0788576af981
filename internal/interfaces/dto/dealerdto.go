package dto

import (
	"github.com/ntwoods/dealerdocs/internal/application/dealer/usecases"
	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/domain/upload"
)

// SubmitDocumentsRequest holds the text fields of the submission form.
// Presence is checked by the use case so the user sees one combined
// message; the binding only caps lengths.
type SubmitDocumentsRequest struct {
	DealerName      string `form:"dealer_name" binding:"max=200"`
	Station         string `form:"station" binding:"max=100"`
	MarketingPerson string `form:"marketing_person" binding:"max=100"`
}

type RecordResponse struct {
	RowPosition     int               `json:"row_position"`
	DealerName      string            `json:"dealer_name"`
	Station         string            `json:"station"`
	MarketingPerson string            `json:"marketing_person"`
	Documents       []dealer.Document `json:"documents"`
	UpdatedAt       string            `json:"updated_at"`
	UpdatedBy       string            `json:"updated_by"`
}

type ListRecordsResponse struct {
	Records         []RecordResponse `json:"records"`
	Filtered        int              `json:"filtered"`
	Total           int              `json:"total"`
	TotalDocuments  int              `json:"total_documents"`
	Stations        []string         `json:"stations"`
	MarketingPeople []string         `json:"marketing_people"`
}

type UploadItemResponse struct {
	Name     string               `json:"name"`
	Size     int64                `json:"size"`
	Status   upload.Status        `json:"status"`
	Progress int                  `json:"progress"`
	Error    string               `json:"error,omitempty"`
	Result   *upload.UploadedFile `json:"result,omitempty"`
}

type SubmitDocumentsResponse struct {
	Updated     bool                 `json:"updated"`
	RowPosition int                  `json:"row_position,omitempty"`
	Attachments dealer.Attachments   `json:"attachments"`
	Items       []UploadItemResponse `json:"items"`
	// Records is omitted when the sheet could not be re-read.
	Records []RecordResponse `json:"records,omitempty"`
}

// ToRecordResponses links every document under viewBaseURL.
func ToRecordResponses(records []*dealer.Record, viewBaseURL string) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, RecordResponse{
			RowPosition:     r.RowPosition,
			DealerName:      r.DealerName,
			Station:         r.Station,
			MarketingPerson: r.MarketingPerson,
			Documents:       r.Documents(viewBaseURL),
			UpdatedAt:       r.UpdatedAt,
			UpdatedBy:       r.UpdatedBy,
		})
	}
	return out
}

func ToListRecordsResponse(result *usecases.ListRecordsResult, viewBaseURL string) *ListRecordsResponse {
	return &ListRecordsResponse{
		Records:         ToRecordResponses(result.Records, viewBaseURL),
		Filtered:        len(result.Records),
		Total:           result.Total,
		TotalDocuments:  result.TotalDocuments,
		Stations:        result.Stations,
		MarketingPeople: result.MarketingPeople,
	}
}

func ToUploadItemResponses(items []upload.Item) []UploadItemResponse {
	out := make([]UploadItemResponse, 0, len(items))
	for _, it := range items {
		resp := UploadItemResponse{
			Status:   it.Status,
			Progress: it.Progress,
			Error:    it.Error,
			Result:   it.Result,
		}
		if it.File != nil {
			resp.Name = it.File.Name()
			resp.Size = it.File.Size()
		}
		out = append(out, resp)
	}
	return out
}

func ToSubmitDocumentsResponse(result *usecases.SubmitDocumentsResult, viewBaseURL string) *SubmitDocumentsResponse {
	resp := &SubmitDocumentsResponse{
		Updated:     result.Updated,
		RowPosition: result.RowPosition,
		Attachments: result.Attachments,
		Items:       ToUploadItemResponses(result.Items),
	}
	if result.Records != nil {
		resp.Records = ToRecordResponses(result.Records, viewBaseURL)
	}
	return resp
}
