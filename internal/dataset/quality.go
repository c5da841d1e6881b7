package dataset

import (
	"fmt"
	"time"

	"github.com/ignite/influencer-roi/internal/domain"
)

// ValidateQuality runs referential and shape checks over a full
// dataset. Findings are reported, never auto-corrected: rows
// referencing unknown influencers stay in the dataset and still flow
// into the metrics.
func ValidateQuality(ds domain.Dataset) domain.DataQualityReport {
	var report domain.DataQualityReport

	add := func(table, severity, msg string, count int) {
		report.Issues = append(report.Issues, domain.DataQualityIssue{
			Table:    table,
			Severity: severity,
			Message:  msg,
			Count:    count,
		})
	}

	known := make(map[string]struct{}, len(ds.Influencers))
	var blankInfluencerIDs int
	for _, inf := range ds.Influencers {
		if inf.InfluencerID == "" {
			blankInfluencerIDs++
			continue
		}
		known[inf.InfluencerID] = struct{}{}
	}
	if blankInfluencerIDs > 0 {
		add("influencers", "error", "missing influencer IDs in influencers data", blankInfluencerIDs)
	}

	orphanSet := func(ids map[string]struct{}) int {
		var n int
		for id := range ids {
			if _, ok := known[id]; !ok {
				n++
			}
		}
		return n
	}

	postIDs := make(map[string]struct{})
	var blankPostRefs, badPostDates int
	for _, p := range ds.Posts {
		if p.InfluencerID == "" {
			blankPostRefs++
			continue
		}
		postIDs[p.InfluencerID] = struct{}{}
		if p.Date != "" && !validDate(p.Date) {
			badPostDates++
		}
	}
	if blankPostRefs > 0 {
		add("posts", "error", "missing influencer IDs in posts data", blankPostRefs)
	}
	if badPostDates > 0 {
		add("posts", "warning", "invalid date format in posts data", badPostDates)
	}
	report.OrphanedPosts = orphanSet(postIDs)
	if report.OrphanedPosts > 0 {
		add("posts", "warning",
			fmt.Sprintf("posts exist for %d non-existent influencers", report.OrphanedPosts),
			report.OrphanedPosts)
	}

	trackingIDs := make(map[string]struct{})
	var blankTrackingRefs, badTrackingDates int
	for _, t := range ds.Tracking {
		if t.InfluencerID == "" {
			blankTrackingRefs++
			continue
		}
		trackingIDs[t.InfluencerID] = struct{}{}
		if t.Date != "" && !validDate(t.Date) {
			badTrackingDates++
		}
	}
	if blankTrackingRefs > 0 {
		add("tracking_data", "error", "missing influencer IDs in tracking data", blankTrackingRefs)
	}
	if badTrackingDates > 0 {
		add("tracking_data", "warning", "invalid date format in tracking data", badTrackingDates)
	}
	report.OrphanedTracking = orphanSet(trackingIDs)
	if report.OrphanedTracking > 0 {
		add("tracking_data", "warning",
			fmt.Sprintf("tracking data exists for %d non-existent influencers", report.OrphanedTracking),
			report.OrphanedTracking)
	}

	payoutIDs := make(map[string]struct{})
	for _, p := range ds.Payouts {
		if p.InfluencerID != "" {
			payoutIDs[p.InfluencerID] = struct{}{}
		}
	}
	report.OrphanedPayouts = orphanSet(payoutIDs)
	if report.OrphanedPayouts > 0 {
		add("payouts", "warning",
			fmt.Sprintf("payouts exist for %d non-existent influencers", report.OrphanedPayouts),
			report.OrphanedPayouts)
	}

	return report
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
