package domain

// PayoutBasis enumerates how an influencer is compensated.
type PayoutBasis string

const (
	PayoutPerPost  PayoutBasis = "post"
	PayoutPerOrder PayoutBasis = "order"
)

// Influencer is the reference record for a creator. Category and
// platform look like closed enumerations in practice but are kept as
// open strings so new values flow through without code changes.
type Influencer struct {
	InfluencerID  string `json:"influencer_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	FollowerCount int64  `json:"follower_count"`
	Platform      string `json:"platform"`
}

// Post is a single piece of published content with raw engagement
// counters. EngagementRate is derived; it is zero until the post has
// passed through analytics.ComputeEngagementRates.
type Post struct {
	PostID         string  `json:"post_id"`
	InfluencerID   string  `json:"influencer_id"`
	Platform       string  `json:"platform"`
	Date           string  `json:"date"` // ISO YYYY-MM-DD
	URL            string  `json:"url"`
	Caption        string  `json:"caption"`
	Reach          int64   `json:"reach"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagement_rate,omitempty"`
}

// TrackingRecord is one attributed conversion event. Multiple records
// per influencer per day are expected and are summed during ROI
// computation, never overwritten.
type TrackingRecord struct {
	TrackingID   string  `json:"tracking_id"`
	Source       string  `json:"source"`
	Campaign     string  `json:"campaign"`
	InfluencerID string  `json:"influencer_id"`
	UserID       string  `json:"user_id,omitempty"`
	Brand        string  `json:"brand,omitempty"`
	Product      string  `json:"product,omitempty"`
	Date         string  `json:"date"` // ISO YYYY-MM-DD
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

// PayoutRecord holds compensation terms and the realized payout for an
// influencer. One row per influencer is expected but not enforced;
// influencers absent from payouts are treated as zero cost.
type PayoutRecord struct {
	InfluencerID string      `json:"influencer_id"`
	Basis        PayoutBasis `json:"basis"`
	Rate         float64     `json:"rate"`
	Orders       int64       `json:"orders"`
	TotalPayout  float64     `json:"total_payout"`
}

// Dataset bundles the four raw tables plus the capability flags
// computed at ingestion. All analytics entry points take tables from a
// Dataset explicitly; nothing in the core reads ambient state.
type Dataset struct {
	Influencers  []Influencer     `json:"influencers"`
	Posts        []Post           `json:"posts"`
	Tracking     []TrackingRecord `json:"tracking"`
	Payouts      []PayoutRecord   `json:"payouts"`
	Capabilities Capabilities     `json:"capabilities"`
}

// Capabilities records which optional columns were actually present in
// the ingested tables. It is computed once at parse time and passed
// alongside the tables, replacing per-call-site column sniffing.
type Capabilities struct {
	TrackingHasBrand   bool `json:"tracking_has_brand"`
	TrackingHasProduct bool `json:"tracking_has_product"`
	TrackingHasUserID  bool `json:"tracking_has_user_id"`
	PayoutsHasTotal    bool `json:"payouts_has_total"`
	PostsHasPlatform   bool `json:"posts_has_platform"`
}
