package domain

// DataQualityIssue describes one detected inconsistency in an ingested
// dataset. Issues are reported, never auto-corrected: rows referencing
// unknown influencers still flow into the metrics.
type DataQualityIssue struct {
	Table    string `json:"table"`
	Severity string `json:"severity"` // "warning" or "error"
	Message  string `json:"message"`
	Count    int    `json:"count,omitempty"`
}

// DataQualityReport is the result of referential and shape checks over
// a full dataset.
type DataQualityReport struct {
	Issues           []DataQualityIssue `json:"issues"`
	OrphanedPosts    int                `json:"orphaned_posts"`
	OrphanedTracking int                `json:"orphaned_tracking"`
	OrphanedPayouts  int                `json:"orphaned_payouts"`
}

// Clean reports whether no issues were found.
func (r DataQualityReport) Clean() bool {
	return len(r.Issues) == 0
}
