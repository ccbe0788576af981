package mappers

import (
	"strings"

	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/persistence/models"
	"github.com/ntwoods/dealerdocs/internal/shared/utils/jsonutil"
)

type DealerRowMapper interface {
	// ToEntity converts a row read at rowPosition. Cells are trimmed and
	// unparseable file arrays become empty.
	ToEntity(model *models.DealerRowModel, rowPosition int) *dealer.Record
	ToModel(record *dealer.Record) *models.DealerRowModel
}

type DealerRowMapperImpl struct{}

func NewDealerRowMapper() DealerRowMapper {
	return &DealerRowMapperImpl{}
}

func (m *DealerRowMapperImpl) ToEntity(model *models.DealerRowModel, rowPosition int) *dealer.Record {
	if model == nil {
		return nil
	}
	return &dealer.Record{
		RowPosition:     rowPosition,
		DealerName:      strings.TrimSpace(model.DealerName),
		Station:         strings.TrimSpace(model.Station),
		MarketingPerson: strings.TrimSpace(model.MarketingPerson),
		FileIDs:         jsonutil.ParseStringArray(model.FileIDs),
		FileNames:       jsonutil.ParseStringArray(model.FileNames),
		UpdatedAt:       strings.TrimSpace(model.UpdatedAt),
		UpdatedBy:       strings.TrimSpace(model.UpdatedBy),
	}
}

func (m *DealerRowMapperImpl) ToModel(record *dealer.Record) *models.DealerRowModel {
	if record == nil {
		return nil
	}
	return &models.DealerRowModel{
		DealerName:      record.DealerName,
		Station:         record.Station,
		MarketingPerson: record.MarketingPerson,
		FileIDs:         jsonutil.StringSliceToJSONArray(record.FileIDs),
		FileNames:       jsonutil.StringSliceToJSONArray(record.FileNames),
		UpdatedAt:       record.UpdatedAt,
		UpdatedBy:       record.UpdatedBy,
	}
}
