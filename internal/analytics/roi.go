package analytics

import (
	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

// ComputeROIMetrics produces one ROIRow per influencer_id appearing in
// the tracking data. Tracking revenue and orders are summed per
// influencer; payout and influencer attributes are left-joined, with a
// missing payout treated as zero cost. Every ratio is guarded: a
// zero-cost or zero-order influencer yields 0 for the corresponding
// metric rather than an error or Inf.
//
// Output order is the first-appearance order of each influencer in the
// tracking table, so repeated runs over the same input produce
// identical output.
func ComputeROIMetrics(
	tracking []domain.TrackingRecord,
	payouts []domain.PayoutRecord,
	influencers []domain.Influencer,
	policy config.AnalyticsConfig,
) []domain.ROIRow {
	type sums struct {
		revenue float64
		orders  int64
	}

	order := make([]string, 0, len(tracking))
	grouped := make(map[string]*sums, len(tracking))
	for _, t := range tracking {
		g, ok := grouped[t.InfluencerID]
		if !ok {
			g = &sums{}
			grouped[t.InfluencerID] = g
			order = append(order, t.InfluencerID)
		}
		g.revenue += t.Revenue
		g.orders += t.Orders
	}

	payoutByID := make(map[string]domain.PayoutRecord, len(payouts))
	for _, p := range payouts {
		// Keep the first row when duplicates exist; one row per
		// influencer is expected but not enforced upstream.
		if _, ok := payoutByID[p.InfluencerID]; !ok {
			payoutByID[p.InfluencerID] = p
		}
	}

	inflByID := make(map[string]domain.Influencer, len(influencers))
	for _, inf := range influencers {
		if _, ok := inflByID[inf.InfluencerID]; !ok {
			inflByID[inf.InfluencerID] = inf
		}
	}

	rows := make([]domain.ROIRow, 0, len(order))
	for _, id := range order {
		g := grouped[id]

		row := domain.ROIRow{
			InfluencerID: id,
			Revenue:      g.revenue,
			Orders:       g.orders,
		}
		if p, ok := payoutByID[id]; ok {
			row.TotalPayout = p.TotalPayout
		}
		if inf, ok := inflByID[id]; ok {
			row.Name = inf.Name
			row.Category = inf.Category
			row.Platform = inf.Platform
		}

		row.BaselineRevenue = row.Revenue * policy.BaselineRatio
		if row.TotalPayout > 0 {
			row.ROAS = row.Revenue / row.TotalPayout
			row.IncrementalROAS = (row.Revenue - row.BaselineRevenue) / row.TotalPayout
		}
		if row.Orders > 0 {
			row.RevenuePerOrder = row.Revenue / float64(row.Orders)
			row.CostPerOrder = row.TotalPayout / float64(row.Orders)
		}

		rows = append(rows, row)
	}

	return rows
}
