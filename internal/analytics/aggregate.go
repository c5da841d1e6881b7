package analytics

import (
	"sort"

	"github.com/ignite/influencer-roi/internal/domain"
)

// unknownPlatform labels rows whose platform cannot be resolved from
// either the post or the influencer table.
const unknownPlatform = "Unknown"

// ComputePlatformMetrics aggregates post engagement and tracking
// revenue per platform. Posts carry their own platform field; when it
// is empty the influencer table is consulted, and failing that the row
// lands in the "Unknown" bucket. Tracking rows resolve their platform
// through the influencer table only; rows referencing an unknown
// influencer contribute to no platform.
//
// Output is sorted by platform name.
func ComputePlatformMetrics(
	posts []domain.Post,
	tracking []domain.TrackingRecord,
	influencers []domain.Influencer,
) []domain.PlatformMetrics {
	platformByInfl := make(map[string]string, len(influencers))
	for _, inf := range influencers {
		if _, ok := platformByInfl[inf.InfluencerID]; !ok {
			platformByInfl[inf.InfluencerID] = inf.Platform
		}
	}

	type acc struct {
		reach, likes, comments int64
		postCount              int64
		influencerIDs          map[string]struct{}
		revenue                float64
		orders                 int64
	}
	buckets := make(map[string]*acc)

	bucket := func(platform string) *acc {
		b, ok := buckets[platform]
		if !ok {
			b = &acc{influencerIDs: make(map[string]struct{})}
			buckets[platform] = b
		}
		return b
	}

	for _, p := range posts {
		platform := p.Platform
		if platform == "" {
			platform = platformByInfl[p.InfluencerID]
		}
		if platform == "" {
			platform = unknownPlatform
		}
		b := bucket(platform)
		b.reach += p.Reach
		b.likes += p.Likes
		b.comments += p.Comments
		b.postCount++
		b.influencerIDs[p.InfluencerID] = struct{}{}
	}

	for _, t := range tracking {
		platform, ok := platformByInfl[t.InfluencerID]
		if !ok || platform == "" {
			continue
		}
		// Revenue attaches only to platforms that already have posts or
		// an influencer bucket; creating the bucket keeps platforms that
		// sold without posting visible.
		b := bucket(platform)
		b.revenue += t.Revenue
		b.orders += t.Orders
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.PlatformMetrics, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		m := domain.PlatformMetrics{
			Platform:          name,
			TotalReach:        b.reach,
			TotalLikes:        b.likes,
			TotalComments:     b.comments,
			UniqueInfluencers: len(b.influencerIDs),
			Revenue:           b.revenue,
			Orders:            b.orders,
		}
		if b.postCount > 0 {
			m.AvgReach = float64(b.reach) / float64(b.postCount)
			m.AvgLikes = float64(b.likes) / float64(b.postCount)
			m.AvgComments = float64(b.comments) / float64(b.postCount)
		}
		if b.reach > 0 {
			m.EngagementRate = float64(b.likes+b.comments) / float64(b.reach)
		}
		out = append(out, m)
	}

	return out
}

// ComputeBrandMetrics aggregates tracking revenue per brand. When the
// tracking table was ingested without a brand column the result is an
// empty slice, not an error; callers see a degraded but well-typed
// aggregate.
//
// Output is sorted by brand name.
func ComputeBrandMetrics(tracking []domain.TrackingRecord, caps domain.Capabilities) []domain.BrandMetrics {
	if !caps.TrackingHasBrand {
		return []domain.BrandMetrics{}
	}

	type acc struct {
		revenue       float64
		orders        int64
		influencerIDs map[string]struct{}
	}
	buckets := make(map[string]*acc)

	for _, t := range tracking {
		if t.Brand == "" {
			continue
		}
		b, ok := buckets[t.Brand]
		if !ok {
			b = &acc{influencerIDs: make(map[string]struct{})}
			buckets[t.Brand] = b
		}
		b.revenue += t.Revenue
		b.orders += t.Orders
		b.influencerIDs[t.InfluencerID] = struct{}{}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.BrandMetrics, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		m := domain.BrandMetrics{
			Brand:             name,
			TotalRevenue:      b.revenue,
			TotalOrders:       b.orders,
			UniqueInfluencers: len(b.influencerIDs),
		}
		if b.orders > 0 {
			m.AvgOrderValue = b.revenue / float64(b.orders)
		}
		out = append(out, m)
	}

	return out
}

// ComputeTimeSeries merges daily tracking totals with daily posting
// activity by date (full outer join, missing side zero-filled) and
// adds trailing rolling averages over windowDays with a minimum of one
// observation. Dates are ISO YYYY-MM-DD strings, so lexical order is
// chronological order; output is sorted ascending.
func ComputeTimeSeries(
	tracking []domain.TrackingRecord,
	posts []domain.Post,
	windowDays int,
) []domain.TimeSeriesPoint {
	if windowDays < 1 {
		windowDays = 1
	}

	points := make(map[string]*domain.TimeSeriesPoint)
	point := func(date string) *domain.TimeSeriesPoint {
		p, ok := points[date]
		if !ok {
			p = &domain.TimeSeriesPoint{Date: date}
			points[date] = p
		}
		return p
	}

	for _, t := range tracking {
		if t.Date == "" {
			continue
		}
		p := point(t.Date)
		p.Revenue += t.Revenue
		p.Orders += t.Orders
	}

	for _, post := range posts {
		if post.Date == "" {
			continue
		}
		p := point(post.Date)
		p.PostsCount++
		p.TotalReach += post.Reach
		p.TotalLikes += post.Likes
		p.TotalComments += post.Comments
	}

	dates := make([]string, 0, len(points))
	for date := range points {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]domain.TimeSeriesPoint, 0, len(dates))
	for _, date := range dates {
		out = append(out, *points[date])
	}

	// Trailing averages over the last windowDays rows (not calendar
	// days with gaps filled), matching the source-table granularity.
	for i := range out {
		start := i - windowDays + 1
		if start < 0 {
			start = 0
		}
		var revSum, ordSum, postSum float64
		for j := start; j <= i; j++ {
			revSum += out[j].Revenue
			ordSum += float64(out[j].Orders)
			postSum += float64(out[j].PostsCount)
		}
		n := float64(i - start + 1)
		out[i].Revenue7dAvg = revSum / n
		out[i].Orders7dAvg = ordSum / n
		out[i].Posts7dAvg = postSum / n
	}

	return out
}
