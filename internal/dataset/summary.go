package dataset

import "github.com/ignite/influencer-roi/internal/domain"

// Summary is the upload digest shown after ingesting a dataset: row
// counts, tracked totals, the covered date range, and value
// distributions over the reference table.
type Summary struct {
	TotalInfluencers     int            `json:"total_influencers"`
	TotalPosts           int            `json:"total_posts"`
	TotalTrackingRecords int            `json:"total_tracking_records"`
	TotalPayoutRecords   int            `json:"total_payout_records"`
	DateStart            string         `json:"date_start,omitempty"`
	DateEnd              string         `json:"date_end,omitempty"`
	TotalRevenue         float64        `json:"total_revenue"`
	TotalOrders          int64          `json:"total_orders"`
	TotalPayouts         float64        `json:"total_payouts"`
	PlatformCounts       map[string]int `json:"platform_distribution"`
	CategoryCounts       map[string]int `json:"category_distribution"`
	BrandCounts          map[string]int `json:"brand_distribution"`
}

// Summarize builds the upload digest for a dataset. The brand
// distribution is empty when the tracking table carried no brand
// column.
func Summarize(ds domain.Dataset) Summary {
	s := Summary{
		TotalInfluencers:     len(ds.Influencers),
		TotalPosts:           len(ds.Posts),
		TotalTrackingRecords: len(ds.Tracking),
		TotalPayoutRecords:   len(ds.Payouts),
		PlatformCounts:       make(map[string]int),
		CategoryCounts:       make(map[string]int),
		BrandCounts:          make(map[string]int),
	}

	for _, inf := range ds.Influencers {
		if inf.Platform != "" {
			s.PlatformCounts[inf.Platform]++
		}
		if inf.Category != "" {
			s.CategoryCounts[inf.Category]++
		}
	}

	for _, t := range ds.Tracking {
		s.TotalRevenue += t.Revenue
		s.TotalOrders += t.Orders
		// ISO dates compare correctly as strings.
		if t.Date != "" {
			if s.DateStart == "" || t.Date < s.DateStart {
				s.DateStart = t.Date
			}
			if s.DateEnd == "" || t.Date > s.DateEnd {
				s.DateEnd = t.Date
			}
		}
		if ds.Capabilities.TrackingHasBrand && t.Brand != "" {
			s.BrandCounts[t.Brand]++
		}
	}

	for _, p := range ds.Payouts {
		s.TotalPayouts += p.TotalPayout
	}

	return s
}
