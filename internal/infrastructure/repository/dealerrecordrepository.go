package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/persistence/mappers"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/persistence/models"
	"github.com/ntwoods/dealerdocs/internal/shared/biztime"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// SheetsAPI is the subset of the spreadsheet client the repository needs.
type SheetsAPI interface {
	SheetTitles(ctx context.Context, accessToken string) ([]string, error)
	AddSheet(ctx context.Context, accessToken, title string) error
	GetValues(ctx context.Context, accessToken, a1 string) ([][]string, error)
	UpdateValues(ctx context.Context, accessToken, a1 string, rows [][]string) error
	AppendValues(ctx context.Context, accessToken, a1 string, rows [][]string) (int, error)
}

// KeyLocker serializes upserts of the same natural key.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// DealerRecordRepository implements dealer.Repository on one spreadsheet tab.
type DealerRecordRepository struct {
	sheets    SheetsAPI
	sheetName string
	locker    KeyLocker
	mapper    mappers.DealerRowMapper
	clock     biztime.Clock
	logger    logger.Interface
}

// NewDealerRecordRepository creates a repository over the tab sheetName.
func NewDealerRecordRepository(sheets SheetsAPI, sheetName string, locker KeyLocker, logger logger.Interface) *DealerRecordRepository {
	return &DealerRecordRepository{
		sheets:    sheets,
		sheetName: sheetName,
		locker:    locker,
		mapper:    mappers.NewDealerRowMapper(),
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

// FetchAll ensures the tab exists and returns every non-blank data row.
func (r *DealerRecordRepository) FetchAll(ctx context.Context, accessToken string) ([]*dealer.Record, error) {
	if accessToken == "" {
		return nil, errors.NewUnauthorizedError("Unauthorized: access token missing.")
	}
	if err := r.ensureSheet(ctx, accessToken); err != nil {
		return nil, err
	}
	return r.readRecords(ctx, accessToken)
}

// Upsert writes the merged row for cmd's natural key. The read, merge and
// write run under a per-key lock.
func (r *DealerRecordRepository) Upsert(ctx context.Context, accessToken string, cmd dealer.UpsertCommand) (*dealer.UpsertResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, errors.NewUnauthorizedError("Unauthorized: access token missing.")
	}

	unlock, err := r.locker.Lock(ctx, cmd.Key())
	if err != nil {
		return nil, errors.NewStoreError("could not acquire record lock", err.Error())
	}
	defer unlock()

	result, err := r.upsert(ctx, accessToken, cmd)
	switch {
	case err != nil:
		metrics.ObserveUpsert("error")
	case result.Updated:
		metrics.ObserveUpsert("updated")
	default:
		metrics.ObserveUpsert("appended")
	}
	return result, err
}

func (r *DealerRecordRepository) upsert(ctx context.Context, accessToken string, cmd dealer.UpsertCommand) (*dealer.UpsertResult, error) {
	if err := r.ensureSheet(ctx, accessToken); err != nil {
		return nil, err
	}

	records, err := r.readRecords(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	key := cmd.Key()
	var target *dealer.Record
	for _, rec := range records {
		if rec.Key() == key {
			target = rec
			break
		}
	}

	var existingIDs, existingNames []string
	if target != nil {
		existingIDs, existingNames = target.FileIDs, target.FileNames
	}
	merged := dealer.Merge(existingIDs, existingNames, cmd.NewFiles)

	row := r.mapper.ToModel(&dealer.Record{
		DealerName:      strings.TrimSpace(cmd.DealerName),
		Station:         strings.TrimSpace(cmd.Station),
		MarketingPerson: strings.TrimSpace(cmd.MarketingPerson),
		FileIDs:         merged.FileIDs,
		FileNames:       merged.FileNames,
		UpdatedAt:       biztime.FormatTimestamp(r.clock()),
		UpdatedBy:       strings.ToLower(strings.TrimSpace(cmd.Actor)),
	})

	if target != nil {
		a1 := r.rowRange(target.RowPosition)
		if err := r.sheets.UpdateValues(ctx, accessToken, a1, [][]string{row.Cells()}); err != nil {
			return nil, err
		}
		r.logger.Infow("dealer record updated",
			"row", target.RowPosition,
			"files", len(merged.FileIDs),
			"added", len(cmd.NewFiles),
		)
		return &dealer.UpsertResult{Updated: true, RowPosition: target.RowPosition, Attachments: merged}, nil
	}

	position, err := r.sheets.AppendValues(ctx, accessToken, r.tableRange(), [][]string{row.Cells()})
	if err != nil {
		return nil, err
	}
	r.logger.Infow("dealer record appended", "row", position, "files", len(merged.FileIDs))
	return &dealer.UpsertResult{Updated: false, RowPosition: position, Attachments: merged}, nil
}

// ensureSheet creates the tab when missing and rewrites the header row.
func (r *DealerRecordRepository) ensureSheet(ctx context.Context, accessToken string) error {
	titles, err := r.sheets.SheetTitles(ctx, accessToken)
	if err != nil {
		return err
	}

	exists := false
	for _, title := range titles {
		if title == r.sheetName {
			exists = true
			break
		}
	}
	if !exists {
		r.logger.Infow("creating dealer sheet", "sheet", r.sheetName)
		if err := r.sheets.AddSheet(ctx, accessToken, r.sheetName); err != nil {
			return err
		}
	}

	header := make([]string, len(models.DealerRowColumns))
	copy(header, models.DealerRowColumns)
	return r.sheets.UpdateValues(ctx, accessToken, r.headerRange(), [][]string{header})
}

// readRecords skips the header row; data row i sits at position i+2.
func (r *DealerRecordRepository) readRecords(ctx context.Context, accessToken string) ([]*dealer.Record, error) {
	start := time.Now()
	values, err := r.sheets.GetValues(ctx, accessToken, r.tableRange())
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []*dealer.Record{}, nil
	}

	records := make([]*dealer.Record, 0, len(values)-1)
	for i, cells := range values[1:] {
		rec := r.mapper.ToEntity(models.DealerRowFromCells(cells), i+2)
		if rec.IsBlank() {
			continue
		}
		records = append(records, rec)
	}
	r.logger.Debugw("dealer records read", "rows", len(values)-1, "records", len(records), "elapsed", time.Since(start))
	return records, nil
}

func (r *DealerRecordRepository) tableRange() string {
	return quoteSheetName(r.sheetName) + "!A:G"
}

func (r *DealerRecordRepository) headerRange() string {
	return quoteSheetName(r.sheetName) + "!A1:G1"
}

func (r *DealerRecordRepository) rowRange(row int) string {
	return fmt.Sprintf("%s!A%d:G%d", quoteSheetName(r.sheetName), row, row)
}

// quoteSheetName wraps names that are not plain identifiers in single
// quotes, doubling embedded quotes, as A1 notation requires.
func quoteSheetName(name string) string {
	plain := name != ""
	for _, c := range name {
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
