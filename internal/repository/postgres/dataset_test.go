package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/domain"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func TestDatasetRepo_Replace(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ds := domain.Dataset{
		Influencers: []domain.Influencer{
			{InfluencerID: "INF_001", Name: "Arjun Sharma", Category: "Fitness", FollowerCount: 250000, Platform: "Instagram"},
		},
		Posts: []domain.Post{
			{PostID: "POST_0001", InfluencerID: "INF_001", Platform: "Instagram", Date: "2025-06-01", Reach: 40000, Likes: 2000, Comments: 80},
		},
		Tracking: []domain.TrackingRecord{
			{TrackingID: "TRK_00001", InfluencerID: "INF_001", Brand: "MuscleBlaze", Date: "2025-06-03", Orders: 1, Revenue: 2499},
		},
		Payouts: []domain.PayoutRecord{
			{InfluencerID: "INF_001", Basis: domain.PayoutPerPost, Rate: 15000, Orders: 1, TotalPayout: 45000},
		},
		Capabilities: domain.Capabilities{TrackingHasBrand: true, PostsHasPlatform: true},
	}

	mock.ExpectBegin()
	for _, table := range []string{"roi_payouts", "roi_tracking", "roi_posts", "roi_influencers", "roi_dataset_meta"} {
		mock.ExpectExec("DELETE FROM " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO roi_dataset_meta").
		WithArgs(true, false, false, false, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roi_influencers").
		WithArgs("INF_001", "Arjun Sharma", "Fitness", "", int64(250000), "Instagram").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roi_posts").
		WithArgs("POST_0001", "INF_001", "Instagram", "2025-06-01", "", "",
			int64(40000), int64(2000), int64(80)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roi_tracking").
		WithArgs("TRK_00001", "", "", "INF_001", "", "MuscleBlaze", "",
			"2025-06-03", int64(1), 2499.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roi_payouts").
		WithArgs("INF_001", domain.PayoutPerPost, 15000.0, int64(1), 45000.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewDatasetRepo(db)
	require.NoError(t, repo.Replace(context.Background(), ds))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetRepo_Replace_RollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ds := domain.Dataset{
		Influencers: []domain.Influencer{{InfluencerID: "INF_001"}},
	}

	mock.ExpectBegin()
	for _, table := range []string{"roi_payouts", "roi_tracking", "roi_posts", "roi_influencers", "roi_dataset_meta"} {
		mock.ExpectExec("DELETE FROM " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO roi_dataset_meta").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO roi_influencers").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	repo := NewDatasetRepo(db)
	err := repo.Replace(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert influencer INF_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetRepo_Load(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT tracking_has_brand").
		WillReturnRows(sqlmock.NewRows([]string{
			"tracking_has_brand", "tracking_has_product", "tracking_has_user_id",
			"payouts_has_total", "posts_has_platform",
		}).AddRow(true, false, true, true, true))

	mock.ExpectQuery("FROM roi_influencers").
		WillReturnRows(sqlmock.NewRows([]string{
			"influencer_id", "name", "category", "gender", "follower_count", "platform",
		}).AddRow("INF_001", "Arjun Sharma", "Fitness", "Male", int64(250000), "Instagram"))

	mock.ExpectQuery("FROM roi_posts").
		WillReturnRows(sqlmock.NewRows([]string{
			"post_id", "influencer_id", "platform", "date", "url", "caption",
			"reach", "likes", "comments",
		}).AddRow("POST_0001", "INF_001", "Instagram", "2025-06-01", "", "",
			int64(40000), int64(2000), int64(80)))

	mock.ExpectQuery("FROM roi_tracking").
		WillReturnRows(sqlmock.NewRows([]string{
			"tracking_id", "source", "campaign", "influencer_id", "user_id",
			"brand", "product", "date", "orders", "revenue",
		}).AddRow("TRK_00001", "", "", "INF_001", "USER_1", "MuscleBlaze", "",
			"2025-06-03", int64(1), 2499.0))

	mock.ExpectQuery("FROM roi_payouts").
		WillReturnRows(sqlmock.NewRows([]string{
			"influencer_id", "basis", "rate", "orders", "total_payout",
		}).AddRow("INF_001", "post", 15000.0, int64(1), 45000.0))

	repo := NewDatasetRepo(db)
	ds, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, ds.Capabilities.TrackingHasBrand)
	assert.False(t, ds.Capabilities.TrackingHasProduct)
	require.Len(t, ds.Influencers, 1)
	assert.Equal(t, "Arjun Sharma", ds.Influencers[0].Name)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, int64(40000), ds.Posts[0].Reach)
	require.Len(t, ds.Tracking, 1)
	assert.Equal(t, 2499.0, ds.Tracking[0].Revenue)
	require.Len(t, ds.Payouts, 1)
	assert.Equal(t, domain.PayoutPerPost, ds.Payouts[0].Basis)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetRepo_Load_Empty(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT tracking_has_brand").
		WillReturnRows(sqlmock.NewRows([]string{"tracking_has_brand"}))

	repo := NewDatasetRepo(db)
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}
