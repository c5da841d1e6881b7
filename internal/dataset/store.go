package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ignite/influencer-roi/internal/domain"
)

// WriteInfluencers writes the influencer table in the persisted CSV
// schema.
func WriteInfluencers(w io.Writer, rows []domain.Influencer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedColumns[TableInfluencers]); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.InfluencerID, r.Name, r.Category, r.Gender,
			strconv.FormatInt(r.FollowerCount, 10), r.Platform,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePosts writes the posts table in the persisted CSV schema.
func WritePosts(w io.Writer, rows []domain.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedColumns[TablePosts]); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.PostID, r.InfluencerID, r.Platform, r.Date, r.URL, r.Caption,
			strconv.FormatInt(r.Reach, 10),
			strconv.FormatInt(r.Likes, 10),
			strconv.FormatInt(r.Comments, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTracking writes the tracking table in the persisted CSV schema.
func WriteTracking(w io.Writer, rows []domain.TrackingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedColumns[TableTracking]); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.TrackingID, r.Source, r.Campaign, r.InfluencerID, r.UserID,
			r.Brand, r.Product, r.Date,
			strconv.FormatInt(r.Orders, 10),
			strconv.FormatFloat(r.Revenue, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePayouts writes the payouts table in the persisted CSV schema.
func WritePayouts(w io.Writer, rows []domain.PayoutRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedColumns[TablePayouts]); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.InfluencerID, string(r.Basis),
			strconv.FormatFloat(r.Rate, 'f', 4, 64),
			strconv.FormatInt(r.Orders, 10),
			strconv.FormatFloat(r.TotalPayout, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveDir writes the four tables to dir using their canonical file
// names, creating the directory if needed.
func SaveDir(dir string, ds domain.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	write := func(t Table, fn func(io.Writer) error) error {
		f, err := os.Create(filepath.Join(dir, t.FileName()))
		if err != nil {
			return fmt.Errorf("creating %s: %w", t.FileName(), err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("writing %s: %w", t.FileName(), err)
		}
		return f.Close()
	}

	if err := write(TableInfluencers, func(w io.Writer) error { return WriteInfluencers(w, ds.Influencers) }); err != nil {
		return err
	}
	if err := write(TablePosts, func(w io.Writer) error { return WritePosts(w, ds.Posts) }); err != nil {
		return err
	}
	if err := write(TableTracking, func(w io.Writer) error { return WriteTracking(w, ds.Tracking) }); err != nil {
		return err
	}
	return write(TablePayouts, func(w io.Writer) error { return WritePayouts(w, ds.Payouts) })
}

// LoadDir reads the four canonical CSVs from dir and assembles a
// Dataset with its capability flags. Schema issues across all tables
// are returned together; only structural problems (unreadable file,
// missing join key on a populated table) abort the load.
func LoadDir(dir string) (domain.Dataset, []string, error) {
	var ds domain.Dataset
	var issues []string

	open := func(t Table) (*os.File, error) {
		f, err := os.Open(filepath.Join(dir, t.FileName()))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", t.FileName(), err)
		}
		return f, nil
	}

	f, err := open(TableInfluencers)
	if err != nil {
		return ds, nil, err
	}
	influencers, infIssues, err := ParseInfluencers(f)
	f.Close()
	if err != nil {
		return ds, nil, err
	}
	ds.Influencers = influencers
	issues = append(issues, prefixIssues(TableInfluencers, infIssues)...)

	f, err = open(TablePosts)
	if err != nil {
		return ds, nil, err
	}
	posts, hasPlatform, postIssues, err := ParsePosts(f)
	f.Close()
	if err != nil {
		return ds, nil, err
	}
	ds.Posts = posts
	ds.Capabilities.PostsHasPlatform = hasPlatform
	issues = append(issues, prefixIssues(TablePosts, postIssues)...)

	f, err = open(TableTracking)
	if err != nil {
		return ds, nil, err
	}
	tracking, schema, trkIssues, err := ParseTracking(f)
	f.Close()
	if err != nil {
		return ds, nil, err
	}
	ds.Tracking = tracking
	ds.Capabilities.TrackingHasBrand = schema.HasBrand
	ds.Capabilities.TrackingHasProduct = schema.HasProduct
	ds.Capabilities.TrackingHasUserID = schema.HasUserID
	issues = append(issues, prefixIssues(TableTracking, trkIssues)...)

	f, err = open(TablePayouts)
	if err != nil {
		return ds, nil, err
	}
	payouts, hasTotal, payIssues, err := ParsePayouts(f)
	f.Close()
	if err != nil {
		return ds, nil, err
	}
	ds.Payouts = payouts
	ds.Capabilities.PayoutsHasTotal = hasTotal
	issues = append(issues, prefixIssues(TablePayouts, payIssues)...)

	return ds, issues, nil
}

func prefixIssues(t Table, issues []string) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, fmt.Sprintf("%s: %s", t, issue))
	}
	return out
}
