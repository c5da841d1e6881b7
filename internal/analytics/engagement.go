package analytics

import "github.com/ignite/influencer-roi/internal/domain"

// ComputeEngagementRates returns a copy of posts with EngagementRate
// populated as (likes + comments) / reach. A post with zero reach gets
// a rate of exactly 0; the function never produces NaN or Inf and
// never mutates its input.
func ComputeEngagementRates(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)

	for i := range out {
		if out[i].Reach > 0 {
			out[i].EngagementRate = float64(out[i].Likes+out[i].Comments) / float64(out[i].Reach)
		} else {
			out[i].EngagementRate = 0
		}
	}

	return out
}
