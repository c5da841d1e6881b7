package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

func TestComputeROIMetrics_BasicScenario(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "INF_001", Revenue: 600, Orders: 1, Date: "2025-06-01"},
		{TrackingID: "TRK_2", InfluencerID: "INF_001", Revenue: 400, Orders: 1, Date: "2025-06-02"},
	}
	payouts := []domain.PayoutRecord{
		{InfluencerID: "INF_001", Basis: domain.PayoutPerPost, Rate: 500, TotalPayout: 500},
	}
	influencers := []domain.Influencer{
		{InfluencerID: "INF_001", Name: "Arjun Sharma", Category: "Fitness", Platform: "Instagram"},
	}

	rows := ComputeROIMetrics(tracking, payouts, influencers, config.DefaultAnalytics())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "INF_001", row.InfluencerID)
	assert.Equal(t, "Arjun Sharma", row.Name)
	assert.Equal(t, "Instagram", row.Platform)
	assert.Equal(t, 1000.0, row.Revenue)
	assert.Equal(t, int64(2), row.Orders)
	assert.Equal(t, 500.0, row.TotalPayout)
	assert.Equal(t, 2.0, row.ROAS)
	assert.Equal(t, 200.0, row.BaselineRevenue)
	assert.InDelta(t, 1.6, row.IncrementalROAS, 1e-9)
	assert.Equal(t, 500.0, row.RevenuePerOrder)
	assert.Equal(t, 250.0, row.CostPerOrder)
}

func TestComputeROIMetrics_ZeroEverything(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "INF_002", Revenue: 0, Orders: 0},
	}
	payouts := []domain.PayoutRecord{
		{InfluencerID: "INF_002", TotalPayout: 0},
	}

	rows := ComputeROIMetrics(tracking, payouts, nil, config.DefaultAnalytics())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Zero(t, row.ROAS)
	assert.Zero(t, row.IncrementalROAS)
	assert.Zero(t, row.RevenuePerOrder)
	assert.Zero(t, row.CostPerOrder)
}

func TestComputeROIMetrics_MissingPayoutMeansZeroCost(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "INF_003", Revenue: 250, Orders: 5},
	}

	rows := ComputeROIMetrics(tracking, nil, nil, config.DefaultAnalytics())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Zero(t, row.TotalPayout)
	assert.Zero(t, row.ROAS, "zero payout must yield roas 0, not Inf")
	assert.Zero(t, row.IncrementalROAS)
	assert.Equal(t, 50.0, row.RevenuePerOrder)
	assert.Zero(t, row.CostPerOrder)
}

func TestComputeROIMetrics_SumsMultipleDailyRecords(t *testing.T) {
	// Multiple tracking rows per influencer per day must be summed.
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "A", Revenue: 100, Orders: 1, Date: "2025-06-01"},
		{TrackingID: "TRK_2", InfluencerID: "A", Revenue: 150, Orders: 2, Date: "2025-06-01"},
		{TrackingID: "TRK_3", InfluencerID: "B", Revenue: 50, Orders: 1, Date: "2025-06-01"},
		{TrackingID: "TRK_4", InfluencerID: "A", Revenue: 25, Orders: 1, Date: "2025-06-02"},
	}

	rows := ComputeROIMetrics(tracking, nil, nil, config.DefaultAnalytics())
	require.Len(t, rows, 2)

	assert.Equal(t, "A", rows[0].InfluencerID)
	assert.Equal(t, 275.0, rows[0].Revenue)
	assert.Equal(t, int64(4), rows[0].Orders)
	assert.Equal(t, "B", rows[1].InfluencerID)
	assert.Equal(t, 50.0, rows[1].Revenue)
}

func TestComputeROIMetrics_BaselineRatioConfigurable(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "A", Revenue: 1000, Orders: 2},
	}
	payouts := []domain.PayoutRecord{{InfluencerID: "A", TotalPayout: 500}}

	policy := config.DefaultAnalytics()
	policy.BaselineRatio = 0.5

	rows := ComputeROIMetrics(tracking, payouts, nil, policy)
	require.Len(t, rows, 1)
	assert.Equal(t, 500.0, rows[0].BaselineRevenue)
	assert.Equal(t, 1.0, rows[0].IncrementalROAS)
}

func TestComputeROIMetrics_EmptyInput(t *testing.T) {
	rows := ComputeROIMetrics(nil, nil, nil, config.DefaultAnalytics())
	assert.Empty(t, rows)
}

func TestComputeROIMetrics_Idempotent(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "TRK_1", InfluencerID: "B", Revenue: 300, Orders: 3},
		{TrackingID: "TRK_2", InfluencerID: "A", Revenue: 120, Orders: 1},
		{TrackingID: "TRK_3", InfluencerID: "B", Revenue: 80, Orders: 1},
	}
	payouts := []domain.PayoutRecord{
		{InfluencerID: "A", TotalPayout: 100},
		{InfluencerID: "B", TotalPayout: 200},
	}

	first := ComputeROIMetrics(tracking, payouts, nil, config.DefaultAnalytics())
	second := ComputeROIMetrics(tracking, payouts, nil, config.DefaultAnalytics())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "re-running on unchanged input must be byte-identical")
}
