package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/domain"
)

func perfRow(id string, score, roas, revenue float64, orders int64) domain.PerformanceRow {
	return domain.PerformanceRow{
		ROIRow: domain.ROIRow{
			InfluencerID: id,
			Name:         "Name " + id,
			ROAS:         roas,
			Revenue:      revenue,
			Orders:       orders,
		},
		PerformanceScore: score,
	}
}

func TestTopPerformers_ByRevenue(t *testing.T) {
	rows := []domain.PerformanceRow{
		perfRow("A", 80, 4.0, 1000, 10),
		perfRow("B", 60, 2.0, 3000, 5),
		perfRow("C", 40, 1.0, 2000, 2),
	}

	top, err := TopPerformers(rows, "revenue", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].InfluencerID)
	assert.Equal(t, 3000.0, top[0].Value)
	assert.Equal(t, "revenue", top[0].Metric)
	assert.Equal(t, "C", top[1].InfluencerID)
}

func TestTopPerformers_NLargerThanData(t *testing.T) {
	rows := []domain.PerformanceRow{perfRow("A", 80, 4.0, 1000, 10)}

	top, err := TopPerformers(rows, "revenue", 10)
	require.NoError(t, err)
	assert.Len(t, top, 1, "must return min(n, len(data)) rows")
}

func TestTopPerformers_StableTies(t *testing.T) {
	rows := []domain.PerformanceRow{
		perfRow("FIRST", 50, 2.0, 500, 1),
		perfRow("SECOND", 50, 2.0, 500, 1),
		perfRow("THIRD", 50, 2.0, 500, 1),
	}

	top, err := TopPerformers(rows, "roas", 3)
	require.NoError(t, err)
	assert.Equal(t, "FIRST", top[0].InfluencerID)
	assert.Equal(t, "SECOND", top[1].InfluencerID)
	assert.Equal(t, "THIRD", top[2].InfluencerID)
}

func TestTopPerformers_UnknownMetric(t *testing.T) {
	_, err := TopPerformers(nil, "follower_count_squared", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ranking metric")
}

func TestTopPerformers_DoesNotMutateInput(t *testing.T) {
	rows := []domain.PerformanceRow{
		perfRow("A", 10, 1.0, 100, 1),
		perfRow("B", 20, 2.0, 200, 2),
	}

	_, err := TopPerformers(rows, "revenue", 2)
	require.NoError(t, err)
	assert.Equal(t, "A", rows[0].InfluencerID, "input order must be preserved")
}

func TestUnderperformers_QuantileThreshold(t *testing.T) {
	rows := []domain.PerformanceRow{
		perfRow("A", 0, 0.5, 100, 1),
		perfRow("B", 10, 1.0, 200, 2),
		perfRow("C", 20, 2.0, 300, 3),
		perfRow("D", 30, 3.0, 400, 4),
	}

	// 25th percentile of [0,10,20,30] with linear interpolation is 7.5,
	// so only the score-0 row qualifies.
	under := Underperformers(rows, 25)
	require.Len(t, under, 1)
	assert.Equal(t, "A", under[0].InfluencerID)
	assert.Equal(t, "performance_score", under[0].Metric)
}

func TestUnderperformers_SortedAscending(t *testing.T) {
	rows := []domain.PerformanceRow{
		perfRow("HIGH", 90, 4.0, 900, 9),
		perfRow("MID", 50, 2.0, 500, 5),
		perfRow("LOW", 10, 0.5, 100, 1),
	}

	under := Underperformers(rows, 50)
	require.Len(t, under, 2)
	assert.Equal(t, "LOW", under[0].InfluencerID)
	assert.Equal(t, "MID", under[1].InfluencerID)
}

func TestUnderperformers_Empty(t *testing.T) {
	assert.Empty(t, Underperformers(nil, 25))
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"median odd", []float64{1, 2, 3}, 0.5, 2},
		{"p25 interpolated", []float64{0, 10, 20, 30}, 0.25, 7.5},
		{"min", []float64{5, 1, 9}, 0, 1},
		{"max", []float64{5, 1, 9}, 1, 9},
		{"single", []float64{7}, 0.25, 7},
		{"empty", nil, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.q), 1e-12)
		})
	}
}
