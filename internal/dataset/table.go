// Package dataset handles ingestion of the four campaign CSV tables:
// parsing with tolerance for column order and missing optional
// columns, schema validation, referential quality checks, and CSV
// round-tripping. The analytics core never touches files; it receives
// the domain.Dataset assembled here.
package dataset

import "strings"

// Table identifies one of the four campaign tables.
type Table string

const (
	TableInfluencers Table = "influencers"
	TablePosts       Table = "posts"
	TableTracking    Table = "tracking_data"
	TablePayouts     Table = "payouts"
)

// expectedColumns is the authoritative persisted CSV schema per table.
var expectedColumns = map[Table][]string{
	TableInfluencers: {"influencer_id", "name", "category", "gender", "follower_count", "platform"},
	TablePosts:       {"post_id", "influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"},
	TableTracking:    {"tracking_id", "source", "campaign", "influencer_id", "user_id", "brand", "product", "date", "orders", "revenue"},
	TablePayouts:     {"influencer_id", "basis", "rate", "orders", "total_payout"},
}

// requiredColumns are the join keys whose absence from a non-empty
// table is a structural error rather than a degradable condition.
var requiredColumns = map[Table][]string{
	TableInfluencers: {"influencer_id"},
	TablePosts:       {"post_id", "influencer_id"},
	TableTracking:    {"tracking_id", "influencer_id"},
	TablePayouts:     {"influencer_id"},
}

// FileName returns the canonical CSV file name for a table.
func (t Table) FileName() string {
	return string(t) + ".csv"
}

// DetectTable infers the table type from an uploaded file name, the
// way the original upload flow did: any name containing "influencer",
// "post", "tracking", or "payout" maps to the corresponding table.
func DetectTable(filename string) (Table, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "influencer"):
		return TableInfluencers, true
	case strings.Contains(name, "post"):
		return TablePosts, true
	case strings.Contains(name, "tracking"):
		return TableTracking, true
	case strings.Contains(name, "payout"):
		return TablePayouts, true
	default:
		return "", false
	}
}
