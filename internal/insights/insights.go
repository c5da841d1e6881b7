// Package insights derives the campaign digest: headline summary
// numbers, top and bottom performer groupings, and the rule-based
// recommendation battery. Everything here is computed from tables
// passed in explicitly; results degrade to zeros and empty slices on
// thin data instead of failing.
package insights

import (
	"fmt"
	"log"
	"sort"

	"github.com/ignite/influencer-roi/internal/analytics"
	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

// Summary holds the headline campaign numbers.
type Summary struct {
	TotalRevenue             float64 `json:"total_revenue"`
	TotalCost                float64 `json:"total_cost"`
	OverallROAS              float64 `json:"overall_roas"`
	AvgPerformanceScore      float64 `json:"avg_performance_score"`
	ProfitableInfluencersPct float64 `json:"profitable_influencers_pct"`
	BestPlatform             string  `json:"best_platform"`
}

// TopPerformerGroups holds the three fixed top-5 rankings shown in the
// digest.
type TopPerformerGroups struct {
	ByROAS             []analytics.PerformerSummary `json:"by_roas"`
	ByRevenue          []analytics.PerformerSummary `json:"by_revenue"`
	ByPerformanceScore []analytics.PerformerSummary `json:"by_performance_score"`
}

// Insights is the full digest returned to callers.
type Insights struct {
	Summary          Summary                      `json:"summary"`
	TopPerformers    TopPerformerGroups           `json:"top_performers"`
	Underperformers  []analytics.PerformerSummary `json:"underperformers"`
	PlatformInsights []domain.PlatformMetrics     `json:"platform_insights"`
	Recommendations  []domain.Recommendation      `json:"recommendations"`
}

// Generate computes the full digest from the four raw tables. It never
// returns an error: empty or partial inputs produce a zero-filled but
// well-formed digest so the caller can always render something.
func Generate(ds domain.Dataset, policy config.AnalyticsConfig) Insights {
	roiRows := analytics.ComputeROIMetrics(ds.Tracking, ds.Payouts, ds.Influencers, policy)
	perfRows := analytics.ComputePerformanceScores(roiRows, ds.Posts, policy)
	platformMetrics := analytics.ComputePlatformMetrics(ds.Posts, ds.Tracking, ds.Influencers)

	out := Insights{
		Summary:         buildSummary(ds, perfRows, platformMetrics, policy),
		Underperformers: analytics.Underperformers(perfRows, policy.UnderperformerPercentile),
	}

	for _, g := range []struct {
		metric string
		dst    *[]analytics.PerformerSummary
	}{
		{"roas", &out.TopPerformers.ByROAS},
		{"revenue", &out.TopPerformers.ByRevenue},
		{"performance_score", &out.TopPerformers.ByPerformanceScore},
	} {
		top, err := analytics.TopPerformers(perfRows, g.metric, 5)
		if err != nil {
			top = []analytics.PerformerSummary{}
		}
		*g.dst = top
	}

	// Platform insights sorted by revenue, highest first.
	out.PlatformInsights = make([]domain.PlatformMetrics, len(platformMetrics))
	copy(out.PlatformInsights, platformMetrics)
	sort.SliceStable(out.PlatformInsights, func(a, b int) bool {
		return out.PlatformInsights[a].Revenue > out.PlatformInsights[b].Revenue
	})

	out.Recommendations = Recommendations(perfRows, platformMetrics, ds.Tracking, ds.Capabilities, policy)
	return out
}

func buildSummary(
	ds domain.Dataset,
	perfRows []domain.PerformanceRow,
	platformMetrics []domain.PlatformMetrics,
	policy config.AnalyticsConfig,
) Summary {
	var s Summary

	for _, t := range ds.Tracking {
		s.TotalRevenue += t.Revenue
	}
	for _, p := range ds.Payouts {
		s.TotalCost += p.TotalPayout
	}
	if s.TotalCost > 0 {
		s.OverallROAS = s.TotalRevenue / s.TotalCost
	}

	if len(perfRows) > 0 {
		var scoreSum float64
		var profitable int
		for _, r := range perfRows {
			scoreSum += r.PerformanceScore
			if r.ROAS > policy.LowROASThreshold {
				profitable++
			}
		}
		s.AvgPerformanceScore = scoreSum / float64(len(perfRows))
		s.ProfitableInfluencersPct = float64(profitable) / float64(len(perfRows)) * 100
	}

	var bestRevenue float64
	for _, m := range platformMetrics {
		if s.BestPlatform == "" || m.Revenue > bestRevenue {
			s.BestPlatform = m.Platform
			bestRevenue = m.Revenue
		}
	}
	if s.BestPlatform == "" {
		s.BestPlatform = "N/A"
	}

	return s
}

// ruleInput bundles everything a recommendation rule may inspect.
type ruleInput struct {
	perf     []domain.PerformanceRow
	platform []domain.PlatformMetrics
	tracking []domain.TrackingRecord
	caps     domain.Capabilities
	policy   config.AnalyticsConfig
}

type rule struct {
	name string
	eval func(ruleInput) (domain.Recommendation, bool)
}

// Recommendations runs the fixed rule battery in order. Each rule is
// isolated: a panic inside one rule is logged, replaced with a notice
// record, and the remaining rules still run. The returned slice keeps
// rule evaluation order and is never re-sorted by priority.
func Recommendations(
	perfRows []domain.PerformanceRow,
	platformMetrics []domain.PlatformMetrics,
	tracking []domain.TrackingRecord,
	caps domain.Capabilities,
	policy config.AnalyticsConfig,
) []domain.Recommendation {
	in := ruleInput{
		perf:     perfRows,
		platform: platformMetrics,
		tracking: tracking,
		caps:     caps,
		policy:   policy,
	}

	rules := []rule{
		{"Budget Allocation", budgetAllocationRule},
		{"Performance Optimization", performanceOptimizationRule},
		{"Content Strategy", contentStrategyRule},
		{"Conversion Optimization", conversionOptimizationRule},
		{"Scaling", scalingRule},
	}

	recs := make([]domain.Recommendation, 0, len(rules))
	for _, r := range rules {
		rec, ok := evalRule(r, in)
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// evalRule runs a single rule, converting a panic into a skip notice
// so one misbehaving rule cannot take down the whole battery.
func evalRule(r rule, in ruleInput) (rec domain.Recommendation, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[insights] rule %q failed: %v", r.name, p)
			rec = domain.Recommendation{
				Type:           r.name,
				Priority:       domain.PriorityLow,
				Recommendation: fmt.Sprintf("%s analysis was skipped", r.name),
				Reason:         "The rule could not be evaluated against the current dataset",
				Action:         "Re-run after reviewing data quality for this dataset",
			}
			ok = true
		}
	}()
	return r.eval(in)
}

// budgetAllocationRule points budget at the platform with the best
// average ROAS among scored influencers.
func budgetAllocationRule(in ruleInput) (domain.Recommendation, bool) {
	type agg struct {
		sum   float64
		count int
	}
	byPlatform := make(map[string]*agg)
	for _, r := range in.perf {
		if r.Platform == "" {
			continue
		}
		a, ok := byPlatform[r.Platform]
		if !ok {
			a = &agg{}
			byPlatform[r.Platform] = a
		}
		a.sum += r.ROAS
		a.count++
	}
	if len(byPlatform) == 0 {
		return domain.Recommendation{}, false
	}

	names := make([]string, 0, len(byPlatform))
	for name := range byPlatform {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestAvg := 0.0
	for _, name := range names {
		a := byPlatform[name]
		avg := a.sum / float64(a.count)
		if best == "" || avg > bestAvg {
			best = name
			bestAvg = avg
		}
	}

	return domain.Recommendation{
		Type:           "Budget Allocation",
		Priority:       domain.PriorityHigh,
		Recommendation: fmt.Sprintf("Increase budget allocation to %s influencers", best),
		Reason:         fmt.Sprintf("%s shows the highest average ROAS (%.2fx)", best, bestAvg),
		Action:         fmt.Sprintf("Reallocate 20%% of budget from underperforming platforms to %s", best),
	}, true
}

// performanceOptimizationRule fires when any influencer is below the
// break-even ROAS threshold.
func performanceOptimizationRule(in ruleInput) (domain.Recommendation, bool) {
	var count int
	for _, r := range in.perf {
		if r.ROAS < in.policy.LowROASThreshold {
			count++
		}
	}
	if count == 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Type:           "Performance Optimization",
		Priority:       domain.PriorityHigh,
		Recommendation: fmt.Sprintf("Review and optimize %d underperforming influencers", count),
		Reason:         fmt.Sprintf("%d influencers have ROAS below %.1f", count, in.policy.LowROASThreshold),
		Action:         "Renegotiate rates, improve content strategy, or discontinue partnerships",
	}, true
}

// contentStrategyRule recommends focusing on the top-revenue brand.
// Requires the tracking table to carry a brand column and at least one
// revenue-bearing branded row.
func contentStrategyRule(in ruleInput) (domain.Recommendation, bool) {
	if !in.caps.TrackingHasBrand {
		return domain.Recommendation{}, false
	}

	revenueByBrand := make(map[string]float64)
	for _, t := range in.tracking {
		if t.Brand == "" {
			continue
		}
		revenueByBrand[t.Brand] += t.Revenue
	}

	names := make([]string, 0, len(revenueByBrand))
	for name := range revenueByBrand {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestRevenue := 0.0
	for _, name := range names {
		if rev := revenueByBrand[name]; best == "" || rev > bestRevenue {
			best = name
			bestRevenue = rev
		}
	}
	if best == "" || bestRevenue <= 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Type:           "Content Strategy",
		Priority:       domain.PriorityMedium,
		Recommendation: fmt.Sprintf("Focus content creation on %s products", best),
		Reason:         fmt.Sprintf("%s generates the highest revenue", best),
		Action:         fmt.Sprintf("Create dedicated content campaigns highlighting %s benefits", best),
	}, true
}

// conversionOptimizationRule flags influencers whose audience engages
// but does not convert: engagement above the 75th percentile with ROAS
// below the median.
func conversionOptimizationRule(in ruleInput) (domain.Recommendation, bool) {
	if len(in.perf) == 0 {
		return domain.Recommendation{}, false
	}

	engagement := make([]float64, len(in.perf))
	roas := make([]float64, len(in.perf))
	for i, r := range in.perf {
		engagement[i] = r.AvgEngagementRate
		roas[i] = r.ROAS
	}
	engThreshold := analytics.Quantile(engagement, 0.75)
	roasMedian := analytics.Quantile(roas, 0.5)

	var count int
	for _, r := range in.perf {
		if r.AvgEngagementRate > engThreshold && r.ROAS < roasMedian {
			count++
		}
	}
	if count == 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Type:           "Conversion Optimization",
		Priority:       domain.PriorityMedium,
		Recommendation: "Optimize conversion funnel for high-engagement influencers",
		Reason:         fmt.Sprintf("%d influencers have high engagement but low ROAS", count),
		Action:         "Improve call-to-action, landing pages, and discount strategies",
	}, true
}

// scalingRule identifies partnerships worth expanding.
func scalingRule(in ruleInput) (domain.Recommendation, bool) {
	var count int
	for _, r := range in.perf {
		if r.ROAS > in.policy.ScaleROASThreshold {
			count++
		}
	}
	if count == 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Type:           "Scaling",
		Priority:       domain.PriorityHigh,
		Recommendation: fmt.Sprintf("Scale successful partnerships with %d high-performing influencers", count),
		Reason:         fmt.Sprintf("These influencers show ROAS above %.1f", in.policy.ScaleROASThreshold),
		Action:         "Increase post frequency, longer-term contracts, or exclusive partnerships",
	}, true
}
