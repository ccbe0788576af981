package models

// DealerRowColumns is the header row of the dealer sheet, in column order
// A through G.
var DealerRowColumns = []string{
	"DealerName",
	"Station",
	"MarketingPerson",
	"FileIds",
	"FileNames",
	"UpdatedAt",
	"UpdatedBy",
}

// DealerRowModel is one row of the dealer sheet as raw cell text.
// FileIDs and FileNames hold JSON arrays.
type DealerRowModel struct {
	DealerName      string
	Station         string
	MarketingPerson string
	FileIDs         string
	FileNames       string
	UpdatedAt       string
	UpdatedBy       string
}

// DealerRowFromCells builds a model from a row read from the sheet. Missing
// trailing cells read as empty.
func DealerRowFromCells(cells []string) *DealerRowModel {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return &DealerRowModel{
		DealerName:      cell(0),
		Station:         cell(1),
		MarketingPerson: cell(2),
		FileIDs:         cell(3),
		FileNames:       cell(4),
		UpdatedAt:       cell(5),
		UpdatedBy:       cell(6),
	}
}

// Cells returns the row in column order.
func (m *DealerRowModel) Cells() []string {
	return []string{
		m.DealerName,
		m.Station,
		m.MarketingPerson,
		m.FileIDs,
		m.FileNames,
		m.UpdatedAt,
		m.UpdatedBy,
	}
}
