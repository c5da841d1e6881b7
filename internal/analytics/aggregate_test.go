package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/domain"
)

func TestComputePlatformMetrics(t *testing.T) {
	influencers := []domain.Influencer{
		{InfluencerID: "A", Platform: "Instagram"},
		{InfluencerID: "B", Platform: "YouTube"},
	}
	posts := []domain.Post{
		{PostID: "P1", InfluencerID: "A", Platform: "Instagram", Reach: 1000, Likes: 90, Comments: 10},
		{PostID: "P2", InfluencerID: "A", Platform: "Instagram", Reach: 3000, Likes: 100, Comments: 0},
		{PostID: "P3", InfluencerID: "B", Platform: "YouTube", Reach: 500, Likes: 40, Comments: 10},
	}
	tracking := []domain.TrackingRecord{
		{TrackingID: "T1", InfluencerID: "A", Revenue: 800, Orders: 4},
		{TrackingID: "T2", InfluencerID: "B", Revenue: 200, Orders: 1},
		{TrackingID: "T3", InfluencerID: "GHOST", Revenue: 999, Orders: 9}, // unknown influencer
	}

	metrics := ComputePlatformMetrics(posts, tracking, influencers)
	require.Len(t, metrics, 2)

	// Sorted by platform name.
	insta := metrics[0]
	assert.Equal(t, "Instagram", insta.Platform)
	assert.Equal(t, int64(4000), insta.TotalReach)
	assert.Equal(t, 2000.0, insta.AvgReach)
	assert.Equal(t, int64(190), insta.TotalLikes)
	assert.Equal(t, 1, insta.UniqueInfluencers)
	assert.Equal(t, 800.0, insta.Revenue)
	assert.Equal(t, int64(4), insta.Orders)
	assert.InDelta(t, 0.05, insta.EngagementRate, 1e-12) // (190+10)/4000

	yt := metrics[1]
	assert.Equal(t, "YouTube", yt.Platform)
	assert.Equal(t, 200.0, yt.Revenue)

	// Revenue for the unknown influencer lands nowhere.
	var totalRevenue float64
	for _, m := range metrics {
		totalRevenue += m.Revenue
	}
	assert.Equal(t, 1000.0, totalRevenue)
}

func TestComputePlatformMetrics_MissingPlatformFallsBack(t *testing.T) {
	influencers := []domain.Influencer{{InfluencerID: "A", Platform: "Twitter"}}
	posts := []domain.Post{
		{PostID: "P1", InfluencerID: "A", Reach: 100, Likes: 10},  // platform from influencer
		{PostID: "P2", InfluencerID: "ZZ", Reach: 200, Likes: 20}, // no platform anywhere
	}

	metrics := ComputePlatformMetrics(posts, nil, influencers)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Twitter", metrics[0].Platform)
	assert.Equal(t, "Unknown", metrics[1].Platform)
}

func TestComputePlatformMetrics_ZeroReachEngagement(t *testing.T) {
	posts := []domain.Post{{PostID: "P1", InfluencerID: "A", Platform: "TikTok", Reach: 0, Likes: 5, Comments: 2}}

	metrics := ComputePlatformMetrics(posts, nil, nil)
	require.Len(t, metrics, 1)
	assert.Zero(t, metrics[0].EngagementRate)
}

func TestComputeBrandMetrics(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "T1", InfluencerID: "A", Brand: "MuscleBlaze", Revenue: 600, Orders: 2},
		{TrackingID: "T2", InfluencerID: "B", Brand: "MuscleBlaze", Revenue: 400, Orders: 2},
		{TrackingID: "T3", InfluencerID: "A", Brand: "HKVitals", Revenue: 300, Orders: 0},
	}
	caps := domain.Capabilities{TrackingHasBrand: true}

	metrics := ComputeBrandMetrics(tracking, caps)
	require.Len(t, metrics, 2)

	hk := metrics[0]
	assert.Equal(t, "HKVitals", hk.Brand)
	assert.Equal(t, 300.0, hk.TotalRevenue)
	assert.Zero(t, hk.AvgOrderValue, "zero orders must not divide")

	mb := metrics[1]
	assert.Equal(t, "MuscleBlaze", mb.Brand)
	assert.Equal(t, 1000.0, mb.TotalRevenue)
	assert.Equal(t, int64(4), mb.TotalOrders)
	assert.Equal(t, 2, mb.UniqueInfluencers)
	assert.Equal(t, 250.0, mb.AvgOrderValue)
}

func TestComputeBrandMetrics_NoBrandColumn(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "T1", InfluencerID: "A", Revenue: 100, Orders: 1},
	}

	metrics := ComputeBrandMetrics(tracking, domain.Capabilities{TrackingHasBrand: false})
	assert.Empty(t, metrics)
	assert.NotNil(t, metrics, "degraded result is a typed empty slice, not nil")
}

func TestComputeTimeSeries_OuterJoinAndSort(t *testing.T) {
	tracking := []domain.TrackingRecord{
		{TrackingID: "T1", InfluencerID: "A", Date: "2025-06-03", Revenue: 100, Orders: 1},
		{TrackingID: "T2", InfluencerID: "A", Date: "2025-06-01", Revenue: 50, Orders: 1},
	}
	posts := []domain.Post{
		{PostID: "P1", InfluencerID: "A", Date: "2025-06-02", Reach: 500, Likes: 10, Comments: 5},
		{PostID: "P2", InfluencerID: "A", Date: "2025-06-03", Reach: 300, Likes: 5, Comments: 1},
	}

	series := ComputeTimeSeries(tracking, posts, 7)
	require.Len(t, series, 3)

	assert.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03"},
		[]string{series[0].Date, series[1].Date, series[2].Date})

	// Tracking-only day carries zero post activity.
	assert.Equal(t, 50.0, series[0].Revenue)
	assert.Zero(t, series[0].PostsCount)

	// Post-only day carries zero revenue.
	assert.Zero(t, series[1].Revenue)
	assert.Equal(t, int64(1), series[1].PostsCount)
	assert.Equal(t, int64(500), series[1].TotalReach)

	// Merged day has both sides.
	assert.Equal(t, 100.0, series[2].Revenue)
	assert.Equal(t, int64(1), series[2].PostsCount)
}

func TestComputeTimeSeries_RollingAverages(t *testing.T) {
	var tracking []domain.TrackingRecord
	revenues := []float64{70, 140, 210, 280, 350, 420, 490, 560}
	for i, rev := range revenues {
		tracking = append(tracking, domain.TrackingRecord{
			TrackingID:   "T" + string(rune('A'+i)),
			InfluencerID: "A",
			Date:         "2025-06-0" + string(rune('1'+i)),
			Revenue:      rev,
			Orders:       1,
		})
	}

	series := ComputeTimeSeries(tracking, nil, 7)
	require.Len(t, series, 8)

	// Partial windows average over however many days exist so far.
	assert.InDelta(t, 70.0, series[0].Revenue7dAvg, 1e-9)
	assert.InDelta(t, 105.0, series[1].Revenue7dAvg, 1e-9)  // (70+140)/2
	assert.InDelta(t, 280.0, series[6].Revenue7dAvg, 1e-9)  // mean of first 7
	assert.InDelta(t, 350.0, series[7].Revenue7dAvg, 1e-9)  // mean of days 2-8
	assert.InDelta(t, 1.0, series[7].Orders7dAvg, 1e-9)
}

func TestComputeTimeSeries_Empty(t *testing.T) {
	assert.Empty(t, ComputeTimeSeries(nil, nil, 7))
}
