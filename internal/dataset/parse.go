package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ignite/influencer-roi/internal/domain"
)

// header maps column names to their index in each CSV record.
type header map[string]int

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

// get returns the trimmed cell value for col, or "" when the column is
// absent or the row is short.
func (h header) get(row []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (h header) getInt(row []string, col string) int64 {
	s := h.get(row, col)
	if s == "" {
		return 0
	}
	// Tolerate float-formatted integers ("3.0") from spreadsheet exports.
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func (h header) getFloat(row []string, col string) float64 {
	s := h.get(row, col)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}

// readTable reads a CSV stream into a header map plus data rows.
// Short rows are tolerated (missing cells read as empty); a completely
// empty stream yields an empty header and no rows.
func readTable(r io.Reader) (header, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return header{}, nil, nil
	}

	h := make(header, len(records[0]))
	for i, col := range records[0] {
		h[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return h, records[1:], nil
}

// checkRequired returns an error when a join-key column is missing
// from a table that actually has data rows. An empty table with a
// wrong header is degradable; a populated one is structurally invalid
// because every downstream join would silently misbehave.
func checkRequired(t Table, h header, rowCount int) error {
	if rowCount == 0 {
		return nil
	}
	for _, col := range requiredColumns[t] {
		if !h.has(col) {
			return fmt.Errorf("%s: required column %q missing from non-empty table", t, col)
		}
	}
	return nil
}

// ValidateColumns compares a parsed header against the expected schema
// and reports human-readable issues. Missing optional columns and
// extra columns are reported but not fatal, mirroring the original
// upload flow which stored partial data anyway.
func ValidateColumns(t Table, h header) []string {
	var issues []string

	var missing []string
	for _, col := range expectedColumns[t] {
		if !h.has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")))
	}

	expected := make(map[string]struct{}, len(expectedColumns[t]))
	for _, col := range expectedColumns[t] {
		expected[col] = struct{}{}
	}
	var extra []string
	for col := range h {
		if _, ok := expected[col]; !ok {
			extra = append(extra, col)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		issues = append(issues, fmt.Sprintf("extra columns (ignored): %s", strings.Join(extra, ", ")))
	}

	return issues
}

// ParseInfluencers parses the influencer reference table.
func ParseInfluencers(r io.Reader) ([]domain.Influencer, []string, error) {
	h, rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	if err := checkRequired(TableInfluencers, h, len(rows)); err != nil {
		return nil, nil, err
	}

	out := make([]domain.Influencer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Influencer{
			InfluencerID:  h.get(row, "influencer_id"),
			Name:          h.get(row, "name"),
			Category:      h.get(row, "category"),
			Gender:        h.get(row, "gender"),
			FollowerCount: h.getInt(row, "follower_count"),
			Platform:      h.get(row, "platform"),
		})
	}
	return out, ValidateColumns(TableInfluencers, h), nil
}

// ParsePosts parses the posts table and reports whether the optional
// platform column was present.
func ParsePosts(r io.Reader) ([]domain.Post, bool, []string, error) {
	h, rows, err := readTable(r)
	if err != nil {
		return nil, false, nil, err
	}
	if err := checkRequired(TablePosts, h, len(rows)); err != nil {
		return nil, false, nil, err
	}

	out := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Post{
			PostID:       h.get(row, "post_id"),
			InfluencerID: h.get(row, "influencer_id"),
			Platform:     h.get(row, "platform"),
			Date:         h.get(row, "date"),
			URL:          h.get(row, "url"),
			Caption:      h.get(row, "caption"),
			Reach:        h.getInt(row, "reach"),
			Likes:        h.getInt(row, "likes"),
			Comments:     h.getInt(row, "comments"),
		})
	}
	return out, h.has("platform"), ValidateColumns(TablePosts, h), nil
}

// TrackingSchema records which optional tracking columns were present.
type TrackingSchema struct {
	HasBrand   bool
	HasProduct bool
	HasUserID  bool
}

// ParseTracking parses the tracking/attribution table.
func ParseTracking(r io.Reader) ([]domain.TrackingRecord, TrackingSchema, []string, error) {
	h, rows, err := readTable(r)
	if err != nil {
		return nil, TrackingSchema{}, nil, err
	}
	if err := checkRequired(TableTracking, h, len(rows)); err != nil {
		return nil, TrackingSchema{}, nil, err
	}

	schema := TrackingSchema{
		HasBrand:   h.has("brand"),
		HasProduct: h.has("product"),
		HasUserID:  h.has("user_id"),
	}

	out := make([]domain.TrackingRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TrackingRecord{
			TrackingID:   h.get(row, "tracking_id"),
			Source:       h.get(row, "source"),
			Campaign:     h.get(row, "campaign"),
			InfluencerID: h.get(row, "influencer_id"),
			UserID:       h.get(row, "user_id"),
			Brand:        h.get(row, "brand"),
			Product:      h.get(row, "product"),
			Date:         h.get(row, "date"),
			Orders:       h.getInt(row, "orders"),
			Revenue:      h.getFloat(row, "revenue"),
		})
	}
	return out, schema, ValidateColumns(TableTracking, h), nil
}

// ParsePayouts parses the payout table and reports whether the
// pre-computed total_payout column was present. When absent, totals
// read as zero and every affected influencer is treated as zero cost.
func ParsePayouts(r io.Reader) ([]domain.PayoutRecord, bool, []string, error) {
	h, rows, err := readTable(r)
	if err != nil {
		return nil, false, nil, err
	}
	if err := checkRequired(TablePayouts, h, len(rows)); err != nil {
		return nil, false, nil, err
	}

	out := make([]domain.PayoutRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PayoutRecord{
			InfluencerID: h.get(row, "influencer_id"),
			Basis:        domain.PayoutBasis(h.get(row, "basis")),
			Rate:         h.getFloat(row, "rate"),
			Orders:       h.getInt(row, "orders"),
			TotalPayout:  h.getFloat(row, "total_payout"),
		})
	}
	return out, h.has("total_payout"), ValidateColumns(TablePayouts, h), nil
}
