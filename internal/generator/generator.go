// Package generator synthesizes a realistic sample dataset for demos
// and round-trip testing: tiered influencers, their posts, decaying
// post-attributed orders, and basis-dependent payouts. All
// metric-bearing fields are driven by a seeded source so the same
// config yields the same economics run after run.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

var (
	categories = []string{"Fitness", "Nutrition", "Lifestyle", "Health", "Sports", "Wellness"}
	platforms  = []string{"Instagram", "YouTube", "Twitter", "Facebook", "TikTok"}
	genders    = []string{"Male", "Female", "Non-binary"}

	firstNames = []string{
		"Arjun", "Priya", "Rahul", "Sneha", "Vikram", "Kavya", "Rohit", "Ananya",
		"Aditya", "Meera", "Karan", "Pooja", "Siddharth", "Riya", "Akash", "Divya",
		"Nikhil", "Shreya", "Varun", "Ishita", "Manish", "Nisha", "Rajesh", "Tanya",
		"Sameer", "Ritika", "Gaurav", "Simran", "Deepak", "Natasha",
	}
	lastNames = []string{
		"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Agarwal", "Jain", "Malhotra",
		"Chopra", "Verma", "Arora", "Reddy", "Nair", "Iyer", "Mehta", "Shah",
		"Bansal", "Sinha", "Joshi", "Kapoor", "Saxena", "Mishra", "Pandey", "Rao",
	}

	brands = []string{"MuscleBlaze", "HKVitals", "Gritzo"}

	productsByBrand = map[string][]string{
		"MuscleBlaze": {"Whey Protein", "BCAA", "Pre-Workout", "Mass Gainer", "Creatine"},
		"HKVitals":    {"Multivitamin", "Vitamin D", "Omega-3", "Immunity Booster", "Biotin"},
		"Gritzo":      {"Kids Protein", "Teen Nutrition", "Growth Formula", "DHA Supplement"},
	}

	captionsByCategory = map[string][]string{
		"Fitness": {
			"Just crushed my workout with @MuscleBlaze protein! 💪 #fitness #protein",
			"Pre-workout fuel with @HKVitals supplements 🔥 #workout #energy",
			"Recovery day essentials from @Gritzo 💯 #recovery #nutrition",
		},
		"Nutrition": {
			"Starting my day with @HKVitals multivitamins ☀️ #health #nutrition",
			"Post-workout nutrition with @MuscleBlaze 🥤 #protein #recovery",
			"Kids nutrition made easy with @Gritzo 👶 #kidshealth #nutrition",
		},
		"Health": {
			"Daily wellness routine with @HKVitals 🌱 #wellness #health",
			"Supporting immunity with quality supplements 🛡️ #immunity #health",
			"Healthy lifestyle choices matter 💚 #health #lifestyle",
		},
		"Lifestyle": {
			"Living my best life with proper nutrition 🌟 #lifestyle #health",
			"Balance is key - fitness, nutrition, wellness 🧘 #balance #wellness",
			"Investing in my health daily 💪 #selfcare #health",
		},
		"Sports": {
			"Game day preparation with @MuscleBlaze 🏆 #sports #performance",
			"Athletic performance through proper nutrition 🥇 #athletes #nutrition",
			"Training hard, recovering smart 💪 #training #recovery",
		},
		"Wellness": {
			"Holistic wellness approach with @HKVitals 🌿 #wellness #holistic",
			"Mind, body, soul - complete wellness 🧘 #mindfulness #wellness",
			"Wellness journey continues 🌟 #wellnessjourney #health",
		},
	}
)

// Generator builds mock datasets from a seeded random source.
type Generator struct {
	cfg config.GeneratorConfig
	rng *rand.Rand
	now time.Time
}

// New creates a generator anchored at now. Post and order dates are
// spread over the cfg.HistoryDays preceding now.
func New(cfg config.GeneratorConfig, now time.Time) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		now: now,
	}
}

// Generate produces a full dataset: influencers, posts, tracking, and
// payouts, with capability flags set for every optional column the
// generator fills.
func (g *Generator) Generate() domain.Dataset {
	influencers := g.influencers()
	posts := g.posts(influencers)
	tracking := g.tracking(posts)
	payouts := g.payouts(influencers, tracking)

	return domain.Dataset{
		Influencers: influencers,
		Posts:       posts,
		Tracking:    tracking,
		Payouts:     payouts,
		Capabilities: domain.Capabilities{
			TrackingHasBrand:   true,
			TrackingHasProduct: true,
			TrackingHasUserID:  true,
			PayoutsHasTotal:    true,
			PostsHasPlatform:   true,
		},
	}
}

func (g *Generator) influencers() []domain.Influencer {
	out := make([]domain.Influencer, 0, g.cfg.NumInfluencers)
	for i := 0; i < g.cfg.NumInfluencers; i++ {
		out = append(out, domain.Influencer{
			InfluencerID:  fmt.Sprintf("INF_%03d", i+1),
			Name:          g.pick(firstNames) + " " + g.pick(lastNames),
			Category:      g.pick(categories),
			Gender:        g.pick(genders),
			FollowerCount: g.followerCount(),
			Platform:      g.pick(platforms),
		})
	}
	return out
}

// followerCount draws from a tiered distribution: mostly micro and
// mid-tier creators, a few macro, rarely mega.
func (g *Generator) followerCount() int64 {
	roll := g.rng.Float64() * 100
	switch {
	case roll < 40: // micro
		return g.intBetween(10_000, 100_000)
	case roll < 75: // mid
		return g.intBetween(100_000, 500_000)
	case roll < 95: // macro
		return g.intBetween(500_000, 1_000_000)
	default: // mega
		return g.intBetween(1_000_000, 5_000_000)
	}
}

func (g *Generator) posts(influencers []domain.Influencer) []domain.Post {
	var out []domain.Post
	postID := 1

	for _, inf := range influencers {
		numPosts := g.cfg.MinPostsPerInfl +
			g.rng.Intn(g.cfg.MaxPostsPerInfl-g.cfg.MinPostsPerInfl+1)

		for p := 0; p < numPosts; p++ {
			date := g.now.AddDate(0, 0, -(1 + g.rng.Intn(g.cfg.HistoryDays)))

			// Reach runs 10-30% of followers; engagement shrinks as the
			// audience grows.
			reach := int64(float64(inf.FollowerCount) * g.floatBetween(0.10, 0.30))
			var engagementRate float64
			switch {
			case inf.FollowerCount < 100_000:
				engagementRate = g.floatBetween(0.03, 0.08)
			case inf.FollowerCount < 500_000:
				engagementRate = g.floatBetween(0.02, 0.05)
			default:
				engagementRate = g.floatBetween(0.01, 0.03)
			}
			likes := int64(float64(reach) * engagementRate * g.floatBetween(0.8, 1.2))
			comments := int64(float64(likes) * g.floatBetween(0.02, 0.05))

			out = append(out, domain.Post{
				PostID:       fmt.Sprintf("POST_%04d", postID),
				InfluencerID: inf.InfluencerID,
				Platform:     inf.Platform,
				Date:         date.Format("2006-01-02"),
				URL:          fmt.Sprintf("https://%s.com/post/%d", strings.ToLower(inf.Platform), postID),
				Caption:      g.caption(inf.Category),
				Reach:        reach,
				Likes:        likes,
				Comments:     comments,
			})
			postID++
		}
	}
	return out
}

func (g *Generator) caption(category string) string {
	pool, ok := captionsByCategory[category]
	if !ok {
		pool = captionsByCategory["Health"]
	}
	return g.pick(pool)
}

func (g *Generator) tracking(posts []domain.Post) []domain.TrackingRecord {
	var out []domain.TrackingRecord
	trackingID := 1

	for _, post := range posts {
		// Roughly 40% of posts drive attributable orders.
		if g.rng.Float64() < 0.6 {
			continue
		}

		postDate, err := time.Parse("2006-01-02", post.Date)
		if err != nil {
			continue
		}

		window := 2 + g.rng.Intn(13)
		for offset := 1; offset < window; offset++ {
			// Conversion probability halves every three days after the post.
			if g.rng.Float64() >= math.Pow(0.5, float64(offset)/3) {
				continue
			}

			brand := g.pick(brands)
			product := g.pick(productsByBrand[brand])

			var basePrice float64
			switch {
			case strings.Contains(product, "Protein"):
				basePrice = g.floatBetween(1500, 3000)
			case strings.Contains(product, "Vitamin") || strings.Contains(product, "Supplement"):
				basePrice = g.floatBetween(500, 1500)
			default:
				basePrice = g.floatBetween(800, 2000)
			}
			revenue := basePrice * g.floatBetween(0.9, 1.1)

			out = append(out, domain.TrackingRecord{
				TrackingID:   fmt.Sprintf("TRK_%05d", trackingID),
				Source:       post.Platform + "_influencer",
				Campaign:     fmt.Sprintf("%s_%s_%s", brand, post.InfluencerID, post.Date),
				InfluencerID: post.InfluencerID,
				UserID:       "USER_" + uuid.NewString()[:8],
				Brand:        brand,
				Product:      product,
				Date:         postDate.AddDate(0, 0, offset).Format("2006-01-02"),
				Orders:       1,
				Revenue:      math.Round(revenue*100) / 100,
			})
			trackingID++
		}
	}
	return out
}

func (g *Generator) payouts(influencers []domain.Influencer, tracking []domain.TrackingRecord) []domain.PayoutRecord {
	type sums struct {
		orders  int64
		revenue float64
	}
	byInfluencer := make(map[string]*sums)
	for _, t := range tracking {
		s, ok := byInfluencer[t.InfluencerID]
		if !ok {
			s = &sums{}
			byInfluencer[t.InfluencerID] = s
		}
		s.orders += t.Orders
		s.revenue += t.Revenue
	}

	out := make([]domain.PayoutRecord, 0, len(influencers))
	for _, inf := range influencers {
		var basis domain.PayoutBasis
		var rate float64

		if inf.FollowerCount < 100_000 {
			basis = domain.PayoutPerPost
			rate = g.floatBetween(5000, 15000)
		} else if g.rng.Intn(2) == 0 {
			basis = domain.PayoutPerPost
			rate = g.floatBetween(15000, 50000)
		} else {
			basis = domain.PayoutPerOrder
			rate = g.floatBetween(0.05, 0.15)
		}

		rec := domain.PayoutRecord{
			InfluencerID: inf.InfluencerID,
			Basis:        basis,
			Rate:         math.Round(rate*10000) / 10000,
		}
		if s, ok := byInfluencer[inf.InfluencerID]; ok {
			rec.Orders = s.orders
			if basis == domain.PayoutPerPost {
				// Paid for a standard three-post package.
				rec.TotalPayout = rec.Rate * 3
			} else {
				rec.TotalPayout = s.revenue * rec.Rate
			}
			rec.TotalPayout = math.Round(rec.TotalPayout*100) / 100
		}
		out = append(out, rec)
	}
	return out
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) intBetween(lo, hi int64) int64 {
	return lo + g.rng.Int63n(hi-lo)
}

func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
