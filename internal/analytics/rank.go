package analytics

import (
	"fmt"
	"sort"

	"github.com/ignite/influencer-roi/internal/domain"
)

// PerformerSummary is the fixed display projection returned by the
// ranking views. Metric names which metric Value holds.
type PerformerSummary struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Platform     string  `json:"platform"`
	Metric       string  `json:"metric"`
	Value        float64 `json:"value"`
	ROAS         float64 `json:"roas"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

// metricValue extracts a rankable metric from a performance row.
func metricValue(r domain.PerformanceRow, metric string) (float64, error) {
	switch metric {
	case "performance_score":
		return r.PerformanceScore, nil
	case "roas":
		return r.ROAS, nil
	case "incremental_roas":
		return r.IncrementalROAS, nil
	case "revenue":
		return r.Revenue, nil
	case "orders":
		return float64(r.Orders), nil
	case "avg_engagement_rate":
		return r.AvgEngagementRate, nil
	case "total_reach":
		return float64(r.TotalReach), nil
	default:
		return 0, fmt.Errorf("unknown ranking metric %q", metric)
	}
}

// TopPerformers returns the n rows with the largest value of metric,
// ties broken by original row order. The input is never mutated. An
// unknown metric name is the one structural error the ranking layer
// reports; every data shape (empty input, n larger than the row count)
// degrades to a shorter result instead.
func TopPerformers(rows []domain.PerformanceRow, metric string, n int) ([]PerformerSummary, error) {
	if _, err := metricValue(domain.PerformanceRow{}, metric); err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, _ := metricValue(rows[idx[a]], metric)
		vb, _ := metricValue(rows[idx[b]], metric)
		return va > vb
	})

	if n > len(idx) {
		n = len(idx)
	}

	out := make([]PerformerSummary, 0, n)
	for _, i := range idx[:n] {
		v, _ := metricValue(rows[i], metric)
		out = append(out, summarize(rows[i], metric, v))
	}
	return out, nil
}

// Underperformers returns every row whose performance score is at or
// below the given percentile of the score distribution, sorted
// ascending by score. The threshold uses linear interpolation between
// ranks, so percentile 25 over scores [0,10,20,30] resolves to 7.5.
func Underperformers(rows []domain.PerformanceRow, percentile float64) []PerformerSummary {
	if len(rows) == 0 {
		return []PerformerSummary{}
	}

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.PerformanceScore
	}
	threshold := Quantile(scores, percentile/100)

	var selected []domain.PerformanceRow
	for _, r := range rows {
		if r.PerformanceScore <= threshold {
			selected = append(selected, r)
		}
	}
	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].PerformanceScore < selected[b].PerformanceScore
	})

	out := make([]PerformerSummary, 0, len(selected))
	for _, r := range selected {
		out = append(out, summarize(r, "performance_score", r.PerformanceScore))
	}
	return out
}

func summarize(r domain.PerformanceRow, metric string, value float64) PerformerSummary {
	return PerformerSummary{
		InfluencerID: r.InfluencerID,
		Name:         r.Name,
		Category:     r.Category,
		Platform:     r.Platform,
		Metric:       metric,
		Value:        value,
		ROAS:         r.ROAS,
		Orders:       r.Orders,
		Revenue:      r.Revenue,
	}
}

// Quantile computes the q-th quantile (q in [0,1]) of values using
// linear interpolation between closest ranks, matching the default
// behavior of most dataframe libraries.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
