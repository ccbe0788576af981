// Package dealer holds the dealer/station record kept in the spreadsheet and
// the rules for merging newly uploaded documents into it.
package dealer

import (
	"fmt"
	"strings"
)

// Record is one spreadsheet row. RowPosition is 1-based (row 1 is the
// header) and only stable until the sheet is structurally edited.
// FileNames[i] names FileIDs[i].
type Record struct {
	RowPosition     int      `json:"row_position"`
	DealerName      string   `json:"dealer_name"`
	Station         string   `json:"station"`
	MarketingPerson string   `json:"marketing_person"`
	FileIDs         []string `json:"file_ids"`
	FileNames       []string `json:"file_names"`
	UpdatedAt       string   `json:"updated_at"`
	UpdatedBy       string   `json:"updated_by"`
}

// Document is a stored file as shown to users.
type Document struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Key returns the record's natural key.
func (r *Record) Key() string {
	return NaturalKey(r.DealerName, r.Station)
}

// IsBlank reports whether the row carries no data at all.
func (r *Record) IsBlank() bool {
	return r.DealerName == "" && r.Station == "" && r.MarketingPerson == "" &&
		len(r.FileIDs) == 0 && len(r.FileNames) == 0
}

// Documents pairs every file id with its name, falling back to
// "Document N", and links it under viewBaseURL.
func (r *Record) Documents(viewBaseURL string) []Document {
	base := strings.TrimRight(viewBaseURL, "/")
	docs := make([]Document, 0, len(r.FileIDs))
	for i, id := range r.FileIDs {
		name := ""
		if i < len(r.FileNames) {
			name = r.FileNames[i]
		}
		if name == "" {
			name = placeholderName(i)
		}
		docs = append(docs, Document{
			ID:   id,
			Name: name,
			URL:  fmt.Sprintf("%s/%s/view", base, id),
		})
	}
	return docs
}

func placeholderName(index int) string {
	return fmt.Sprintf("Document %d", index+1)
}
