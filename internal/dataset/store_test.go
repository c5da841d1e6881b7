package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/domain"
)

func TestSaveDirLoadDir_RoundTrip(t *testing.T) {
	ds := domain.Dataset{
		Influencers: []domain.Influencer{
			{InfluencerID: "INF_001", Name: "Arjun Sharma", Category: "Fitness", Gender: "Male", FollowerCount: 250000, Platform: "Instagram"},
		},
		Posts: []domain.Post{
			{PostID: "POST_0001", InfluencerID: "INF_001", Platform: "Instagram", Date: "2025-06-01",
				URL: "https://instagram.com/post/1", Caption: "Post-workout fuel 💪 #fitness", Reach: 40000, Likes: 2000, Comments: 80},
		},
		Tracking: []domain.TrackingRecord{
			{TrackingID: "TRK_00001", Source: "Instagram_influencer", Campaign: "MuscleBlaze_INF_001_2025-06-01",
				InfluencerID: "INF_001", UserID: "USER_12345", Brand: "MuscleBlaze", Product: "Whey Protein",
				Date: "2025-06-03", Orders: 1, Revenue: 2499.00},
		},
		Payouts: []domain.PayoutRecord{
			{InfluencerID: "INF_001", Basis: domain.PayoutPerPost, Rate: 15000, Orders: 1, TotalPayout: 45000},
		},
	}

	dir := t.TempDir()
	require.NoError(t, SaveDir(dir, ds))

	loaded, issues, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, ds.Influencers, loaded.Influencers)
	assert.Equal(t, ds.Posts, loaded.Posts)
	assert.Equal(t, ds.Tracking, loaded.Tracking)
	assert.Equal(t, ds.Payouts, loaded.Payouts)

	// Capabilities are inferred from the written headers.
	assert.True(t, loaded.Capabilities.TrackingHasBrand)
	assert.True(t, loaded.Capabilities.TrackingHasUserID)
	assert.True(t, loaded.Capabilities.PayoutsHasTotal)
	assert.True(t, loaded.Capabilities.PostsHasPlatform)
}

func TestSaveDirLoadDir_CaptionWithCommaSurvives(t *testing.T) {
	ds := domain.Dataset{
		Posts: []domain.Post{
			{PostID: "P1", InfluencerID: "A", Date: "2025-06-01", Caption: "Balance is key - fitness, nutrition, wellness"},
		},
	}

	dir := t.TempDir()
	require.NoError(t, SaveDir(dir, ds))

	loaded, _, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Posts, 1)
	assert.Equal(t, ds.Posts[0].Caption, loaded.Posts[0].Caption)
}

func TestLoadDir_MissingFile(t *testing.T) {
	_, _, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influencers.csv")
}
