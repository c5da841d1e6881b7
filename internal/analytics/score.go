package analytics

import (
	"math"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

// ComputePerformanceScores combines ROI rows with per-influencer
// engagement aggregates and produces normalized component scores plus
// the weighted composite. Influencers with no posts keep zero
// engagement aggregates and still receive scores.
//
// Each component is min-max normalized to 0-100 independently. When a
// metric is constant across all rows (including the single-row case)
// every row scores exactly 50; cost per order is reversed so that
// cheaper orders score higher.
func ComputePerformanceScores(
	roiRows []domain.ROIRow,
	posts []domain.Post,
	policy config.AnalyticsConfig,
) []domain.PerformanceRow {
	type engAgg struct {
		rateSum float64
		reach   int64
		count   int64
	}

	withRates := ComputeEngagementRates(posts)
	engByID := make(map[string]*engAgg)
	for _, p := range withRates {
		a, ok := engByID[p.InfluencerID]
		if !ok {
			a = &engAgg{}
			engByID[p.InfluencerID] = a
		}
		a.rateSum += p.EngagementRate
		a.reach += p.Reach
		a.count++
	}

	rows := make([]domain.PerformanceRow, 0, len(roiRows))
	for _, roi := range roiRows {
		row := domain.PerformanceRow{ROIRow: roi}
		if a, ok := engByID[roi.InfluencerID]; ok && a.count > 0 {
			row.AvgEngagementRate = a.rateSum / float64(a.count)
			row.TotalReach = a.reach
			row.PostsCount = a.count
		}
		rows = append(rows, row)
	}

	roas := make([]float64, len(rows))
	engagement := make([]float64, len(rows))
	volume := make([]float64, len(rows))
	efficiency := make([]float64, len(rows))
	for i, r := range rows {
		roas[i] = r.ROAS
		engagement[i] = r.AvgEngagementRate
		volume[i] = float64(r.Orders)
		efficiency[i] = r.CostPerOrder
	}

	roasScores := normalizeScores(roas, false)
	engagementScores := normalizeScores(engagement, false)
	volumeScores := normalizeScores(volume, false)
	efficiencyScores := normalizeScores(efficiency, true)

	for i := range rows {
		rows[i].ROASScore = roasScores[i]
		rows[i].EngagementScore = engagementScores[i]
		rows[i].VolumeScore = volumeScores[i]
		rows[i].EfficiencyScore = efficiencyScores[i]

		composite := rows[i].ROASScore*policy.ROASWeight +
			rows[i].EngagementScore*policy.EngagementWeight +
			rows[i].VolumeScore*policy.VolumeWeight +
			rows[i].EfficiencyScore*policy.EfficiencyWeight
		rows[i].PerformanceScore = math.Round(composite*10) / 10
	}

	return rows
}

// normalizeScores min-max scales values to 0-100. A constant series
// (including a single value) maps every entry to 50: dividing by a
// zero range is meaningless and an arbitrary extreme would skew the
// composite. When reverse is set, lower values score higher.
func normalizeScores(values []float64, reverse bool) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		for i := range out {
			out[i] = 50
		}
		return out
	}

	for i, v := range values {
		score := (v - min) / (max - min) * 100
		if reverse {
			score = 100 - score
		}
		out[i] = score
	}
	return out
}
