package dealer

import (
	"context"
	"strings"

	"github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
)

// Repository reads and writes records in the spreadsheet. Every call takes
// the caller's access token; an empty token fails with an unauthorized error.
type Repository interface {
	// FetchAll returns every non-blank row.
	FetchAll(ctx context.Context, accessToken string) ([]*Record, error)

	// Upsert merges NewFiles into the record matching the natural key, or
	// appends a new row when none matches. Two concurrent upserts for the
	// same key may still race with writers outside this process.
	Upsert(ctx context.Context, accessToken string, cmd UpsertCommand) (*UpsertResult, error)
}

type UpsertCommand struct {
	DealerName      string
	Station         string
	MarketingPerson string
	NewFiles        []upload.UploadedFile
	Actor           string
}

// Validate requires a dealer name and station.
func (c UpsertCommand) Validate() error {
	if strings.TrimSpace(c.DealerName) == "" || strings.TrimSpace(c.Station) == "" {
		return errors.NewValidationError("Dealer name and station are required.")
	}
	return nil
}

// Key returns the natural key the command targets.
func (c UpsertCommand) Key() string {
	return NaturalKey(c.DealerName, c.Station)
}

type UpsertResult struct {
	Updated     bool        `json:"updated"`
	RowPosition int         `json:"row_position,omitempty"`
	Attachments Attachments `json:"attachments"`
}
