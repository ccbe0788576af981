package dealer

import (
	"sort"
	"strings"
)

// ListFilter narrows a record list. Query matches dealer name, station or
// marketing person by substring; Station and MarketingPerson match exactly,
// ignoring case.
type ListFilter struct {
	Query           string `form:"q"`
	Station         string `form:"station"`
	MarketingPerson string `form:"marketing_person"`
}

func (f ListFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.Station) == "" &&
		strings.TrimSpace(f.MarketingPerson) == ""
}

func (f ListFilter) Match(r *Record) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{r.DealerName, r.Station, r.MarketingPerson}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if s := strings.TrimSpace(f.Station); s != "" && NormalizeKey(s) != NormalizeKey(r.Station) {
		return false
	}
	if m := strings.TrimSpace(f.MarketingPerson); m != "" && NormalizeKey(m) != NormalizeKey(r.MarketingPerson) {
		return false
	}
	return true
}

// Filter returns the records matching f, in their original order.
func Filter(records []*Record, f ListFilter) []*Record {
	if f.IsEmpty() {
		return records
	}
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Stations returns the distinct non-empty stations, sorted.
func Stations(records []*Record) []string {
	return distinct(records, func(r *Record) string { return r.Station })
}

// MarketingPeople returns the distinct non-empty marketing persons, sorted.
func MarketingPeople(records []*Record) []string {
	return distinct(records, func(r *Record) string { return r.MarketingPerson })
}

// TotalDocuments counts attached file ids across records.
func TotalDocuments(records []*Record) int {
	total := 0
	for _, r := range records {
		total += len(r.FileIDs)
	}
	return total
}

func distinct(records []*Record, field func(*Record) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
