// Package postgres persists campaign datasets in PostgreSQL. A single
// working dataset is stored at a time; Replace swaps it atomically so
// readers never observe a half-loaded snapshot.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/influencer-roi/internal/domain"
)

// ErrNoDataset is returned by Load when nothing has been stored yet.
var ErrNoDataset = errors.New("no dataset stored")

// DatasetRepo implements dataset persistence against PostgreSQL.
type DatasetRepo struct{ db *sql.DB }

// NewDatasetRepo creates a Postgres-backed dataset repository.
func NewDatasetRepo(db *sql.DB) *DatasetRepo { return &DatasetRepo{db: db} }

// Replace overwrites the stored dataset inside one transaction.
func (r *DatasetRepo) Replace(ctx context.Context, ds domain.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"roi_payouts", "roi_tracking", "roi_posts", "roi_influencers", "roi_dataset_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	caps := ds.Capabilities
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO roi_dataset_meta
			(id, tracking_has_brand, tracking_has_product, tracking_has_user_id,
			 payouts_has_total, posts_has_platform, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
	`, caps.TrackingHasBrand, caps.TrackingHasProduct, caps.TrackingHasUserID,
		caps.PayoutsHasTotal, caps.PostsHasPlatform); err != nil {
		return fmt.Errorf("store meta: %w", err)
	}

	for _, inf := range ds.Influencers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roi_influencers
				(influencer_id, name, category, gender, follower_count, platform)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, inf.InfluencerID, inf.Name, inf.Category, inf.Gender, inf.FollowerCount, inf.Platform); err != nil {
			return fmt.Errorf("insert influencer %s: %w", inf.InfluencerID, err)
		}
	}

	for _, p := range ds.Posts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roi_posts
				(post_id, influencer_id, platform, date, url, caption, reach, likes, comments)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.PostID, p.InfluencerID, p.Platform, p.Date, p.URL, p.Caption,
			p.Reach, p.Likes, p.Comments); err != nil {
			return fmt.Errorf("insert post %s: %w", p.PostID, err)
		}
	}

	for _, t := range ds.Tracking {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roi_tracking
				(tracking_id, source, campaign, influencer_id, user_id, brand,
				 product, date, orders, revenue)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, t.TrackingID, t.Source, t.Campaign, t.InfluencerID, t.UserID, t.Brand,
			t.Product, t.Date, t.Orders, t.Revenue); err != nil {
			return fmt.Errorf("insert tracking %s: %w", t.TrackingID, err)
		}
	}

	for _, p := range ds.Payouts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roi_payouts
				(influencer_id, basis, rate, orders, total_payout)
			VALUES ($1, $2, $3, $4, $5)
		`, p.InfluencerID, p.Basis, p.Rate, p.Orders, p.TotalPayout); err != nil {
			return fmt.Errorf("insert payout %s: %w", p.InfluencerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Load reads the stored dataset back in insertion order.
func (r *DatasetRepo) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset

	err := r.db.QueryRowContext(ctx, `
		SELECT tracking_has_brand, tracking_has_product, tracking_has_user_id,
		       payouts_has_total, posts_has_platform
		FROM roi_dataset_meta WHERE id = 1
	`).Scan(
		&ds.Capabilities.TrackingHasBrand, &ds.Capabilities.TrackingHasProduct,
		&ds.Capabilities.TrackingHasUserID, &ds.Capabilities.PayoutsHasTotal,
		&ds.Capabilities.PostsHasPlatform,
	)
	if err == sql.ErrNoRows {
		return ds, ErrNoDataset
	}
	if err != nil {
		return ds, fmt.Errorf("load meta: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT influencer_id, name, category, gender, follower_count, platform
		FROM roi_influencers ORDER BY influencer_id
	`)
	if err != nil {
		return ds, fmt.Errorf("load influencers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var inf domain.Influencer
		if err := rows.Scan(&inf.InfluencerID, &inf.Name, &inf.Category,
			&inf.Gender, &inf.FollowerCount, &inf.Platform); err != nil {
			return ds, fmt.Errorf("scan influencer: %w", err)
		}
		ds.Influencers = append(ds.Influencers, inf)
	}
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("load influencers: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT post_id, influencer_id, platform, date, url, caption, reach, likes, comments
		FROM roi_posts ORDER BY post_id
	`)
	if err != nil {
		return ds, fmt.Errorf("load posts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.PostID, &p.InfluencerID, &p.Platform, &p.Date,
			&p.URL, &p.Caption, &p.Reach, &p.Likes, &p.Comments); err != nil {
			return ds, fmt.Errorf("scan post: %w", err)
		}
		ds.Posts = append(ds.Posts, p)
	}
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("load posts: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT tracking_id, source, campaign, influencer_id, user_id, brand,
		       product, date, orders, revenue
		FROM roi_tracking ORDER BY tracking_id
	`)
	if err != nil {
		return ds, fmt.Errorf("load tracking: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t domain.TrackingRecord
		if err := rows.Scan(&t.TrackingID, &t.Source, &t.Campaign, &t.InfluencerID,
			&t.UserID, &t.Brand, &t.Product, &t.Date, &t.Orders, &t.Revenue); err != nil {
			return ds, fmt.Errorf("scan tracking: %w", err)
		}
		ds.Tracking = append(ds.Tracking, t)
	}
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("load tracking: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT influencer_id, basis, rate, orders, total_payout
		FROM roi_payouts ORDER BY influencer_id
	`)
	if err != nil {
		return ds, fmt.Errorf("load payouts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.PayoutRecord
		if err := rows.Scan(&p.InfluencerID, &p.Basis, &p.Rate, &p.Orders, &p.TotalPayout); err != nil {
			return ds, fmt.Errorf("scan payout: %w", err)
		}
		ds.Payouts = append(ds.Payouts, p)
	}
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("load payouts: %w", err)
	}

	return ds, nil
}

// EnsureSchema creates the storage tables if they do not exist.
func (r *DatasetRepo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roi_dataset_meta (
			id INT PRIMARY KEY,
			tracking_has_brand BOOLEAN NOT NULL DEFAULT FALSE,
			tracking_has_product BOOLEAN NOT NULL DEFAULT FALSE,
			tracking_has_user_id BOOLEAN NOT NULL DEFAULT FALSE,
			payouts_has_total BOOLEAN NOT NULL DEFAULT FALSE,
			posts_has_platform BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS roi_influencers (
			influencer_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			follower_count BIGINT NOT NULL DEFAULT 0,
			platform TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS roi_posts (
			post_id TEXT PRIMARY KEY,
			influencer_id TEXT NOT NULL,
			platform TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			caption TEXT NOT NULL DEFAULT '',
			reach BIGINT NOT NULL DEFAULT 0,
			likes BIGINT NOT NULL DEFAULT 0,
			comments BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS roi_tracking (
			tracking_id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			campaign TEXT NOT NULL DEFAULT '',
			influencer_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			product TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			orders BIGINT NOT NULL DEFAULT 0,
			revenue DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS roi_payouts (
			influencer_id TEXT PRIMARY KEY,
			basis TEXT NOT NULL DEFAULT '',
			rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			orders BIGINT NOT NULL DEFAULT 0,
			total_payout DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
