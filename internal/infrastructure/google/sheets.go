package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const DefaultSheetsBaseURL = "https://sheets.googleapis.com/v4"

// SheetsClient reads and writes cell values of one spreadsheet. Values are
// exchanged as row-major string arrays.
type SheetsClient struct {
	api           *apiClient
	baseURL       string
	spreadsheetID string
}

func NewSheetsClient(baseURL, spreadsheetID string, opts ClientOptions, log logger.Interface) *SheetsClient {
	if baseURL == "" {
		baseURL = DefaultSheetsBaseURL
	}
	return &SheetsClient{
		api:           newAPIClient("sheets", opts, log),
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
	}
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			SheetID int64  `json:"sheetId"`
			Title   string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
	} `json:"updates"`
}

func (s *SheetsClient) spreadsheetURL(suffix string) string {
	return s.baseURL + "/spreadsheets/" + url.PathEscape(s.spreadsheetID) + suffix
}

func (s *SheetsClient) valuesURL(a1 string, suffix string, query url.Values) string {
	u := s.spreadsheetURL("/values/" + url.PathEscape(a1) + suffix)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *SheetsClient) newRequest(ctx context.Context, method, u string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewStoreError("failed to encode spreadsheet request", err.Error())
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, errors.NewStoreError("failed to build spreadsheet request", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// SheetTitles lists the titles of every tab.
func (s *SheetsClient) SheetTitles(ctx context.Context, accessToken string) ([]string, error) {
	q := url.Values{"fields": {"sheets.properties(title,sheetId)"}}
	req, err := s.newRequest(ctx, http.MethodGet, s.spreadsheetURL("?"+q.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var meta spreadsheetMeta
	if err := s.api.doJSON(ctx, "metadata", accessToken, req, &meta, errors.NewStoreError); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		titles = append(titles, sh.Properties.Title)
	}
	return titles, nil
}

// AddSheet creates a tab named title.
func (s *SheetsClient) AddSheet(ctx context.Context, accessToken, title string) error {
	body := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{"title": title},
				},
			},
		},
	}
	req, err := s.newRequest(ctx, http.MethodPost, s.spreadsheetURL(":batchUpdate"), body)
	if err != nil {
		return err
	}
	return s.api.doJSON(ctx, "add_sheet", accessToken, req, nil, errors.NewStoreError)
}

// GetValues reads a range. Missing trailing cells are simply absent.
func (s *SheetsClient) GetValues(ctx context.Context, accessToken, a1 string) ([][]string, error) {
	req, err := s.newRequest(ctx, http.MethodGet, s.valuesURL(a1, "", nil), nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := s.api.doJSON(ctx, "get_values", accessToken, req, &vr, errors.NewStoreError); err != nil {
		return nil, err
	}

	rows := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellString(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// UpdateValues overwrites a range with rows, storing values as typed.
func (s *SheetsClient) UpdateValues(ctx context.Context, accessToken, a1 string, rows [][]string) error {
	q := url.Values{"valueInputOption": {"RAW"}}
	body := valueRange{Range: a1, MajorDimension: "ROWS", Values: toAny(rows)}
	req, err := s.newRequest(ctx, http.MethodPut, s.valuesURL(a1, "", q), body)
	if err != nil {
		return err
	}
	return s.api.doJSON(ctx, "update_values", accessToken, req, nil, errors.NewStoreError)
}

// AppendValues inserts rows after the last row of the table in a1 and
// returns the 1-based row number of the first written row, or 0 when the
// response does not say.
func (s *SheetsClient) AppendValues(ctx context.Context, accessToken, a1 string, rows [][]string) (int, error) {
	q := url.Values{
		"valueInputOption": {"RAW"},
		"insertDataOption": {"INSERT_ROWS"},
	}
	body := valueRange{Values: toAny(rows)}
	req, err := s.newRequest(ctx, http.MethodPost, s.valuesURL(a1, ":append", q), body)
	if err != nil {
		return 0, err
	}

	var out appendResponse
	if err := s.api.doJSON(ctx, "append_values", accessToken, req, &out, errors.NewStoreError); err != nil {
		return 0, err
	}
	return firstRowOf(out.Updates.UpdatedRange), nil
}

var rangeRowPattern = regexp.MustCompile(`![A-Z]+(\d+)`)

// firstRowOf extracts 5 from "Sheet!A5:G5".
func firstRowOf(a1 string) int {
	m := rangeRowPattern.FindStringSubmatch(a1)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

func toAny(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		out[i] = cells
	}
	return out
}
