package domain

// ROIRow is the per-influencer economics row produced by the ROI
// calculator. One row exists for every influencer_id that appears in
// the tracking table. Ratio fields are guarded: zero cost or zero
// orders yields 0, never NaN or Inf.
type ROIRow struct {
	InfluencerID string `json:"influencer_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Platform     string `json:"platform"`

	Revenue     float64 `json:"revenue"`
	Orders      int64   `json:"orders"`
	TotalPayout float64 `json:"total_payout"`

	ROAS            float64 `json:"roas"`
	BaselineRevenue float64 `json:"baseline_revenue"`
	IncrementalROAS float64 `json:"incremental_roas"`
	RevenuePerOrder float64 `json:"revenue_per_order"`
	CostPerOrder    float64 `json:"cost_per_order"`
}

// PerformanceRow extends an ROIRow with engagement aggregates and the
// normalized component scores. Component scores are on a 0-100 scale;
// the composite is a weighted sum rounded to one decimal.
type PerformanceRow struct {
	ROIRow

	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	TotalReach        int64   `json:"total_reach"`
	PostsCount        int64   `json:"posts_count"`

	ROASScore        float64 `json:"roas_score"`
	EngagementScore  float64 `json:"engagement_score"`
	VolumeScore      float64 `json:"volume_score"`
	EfficiencyScore  float64 `json:"efficiency_score"`
	PerformanceScore float64 `json:"performance_score"`
}

// PlatformMetrics is one row of the by-platform aggregation.
type PlatformMetrics struct {
	Platform          string  `json:"platform"`
	TotalReach        int64   `json:"total_reach"`
	AvgReach          float64 `json:"avg_reach"`
	TotalLikes        int64   `json:"total_likes"`
	AvgLikes          float64 `json:"avg_likes"`
	TotalComments     int64   `json:"total_comments"`
	AvgComments       float64 `json:"avg_comments"`
	UniqueInfluencers int     `json:"unique_influencers"`
	Revenue           float64 `json:"revenue"`
	Orders            int64   `json:"orders"`
	EngagementRate    float64 `json:"engagement_rate"`
}

// BrandMetrics is one row of the by-brand aggregation.
type BrandMetrics struct {
	Brand             string  `json:"brand"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int64   `json:"total_orders"`
	UniqueInfluencers int     `json:"unique_influencers"`
	AvgOrderValue     float64 `json:"avg_order_value"`
}

// TimeSeriesPoint is one day of merged revenue and posting activity,
// with trailing 7-day averages. Days present on only one side of the
// outer join carry zeros for the other side.
type TimeSeriesPoint struct {
	Date          string  `json:"date"` // ISO YYYY-MM-DD
	Revenue       float64 `json:"revenue"`
	Orders        int64   `json:"orders"`
	PostsCount    int64   `json:"posts_count"`
	TotalReach    int64   `json:"total_reach"`
	TotalLikes    int64   `json:"total_likes"`
	TotalComments int64   `json:"total_comments"`
	Revenue7dAvg  float64 `json:"revenue_7d_avg"`
	Orders7dAvg   float64 `json:"orders_7d_avg"`
	Posts7dAvg    float64 `json:"posts_7d_avg"`
}

// RecommendationPriority is the urgency bucket attached to a
// recommendation.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "High"
	PriorityMedium RecommendationPriority = "Medium"
	PriorityLow    RecommendationPriority = "Low"
)

// Recommendation is a display-only advice record emitted by the
// insight rule battery. The slice order matches rule evaluation order
// and is never re-sorted.
type Recommendation struct {
	Type           string                 `json:"type"`
	Priority       RecommendationPriority `json:"priority"`
	Recommendation string                 `json:"recommendation"`
	Reason         string                 `json:"reason"`
	Action         string                 `json:"action"`
}
