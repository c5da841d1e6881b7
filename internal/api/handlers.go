package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ignite/influencer-roi/internal/analytics"
	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/dataset"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/generator"
	"github.com/ignite/influencer-roi/internal/insights"
)

// nowFunc is swapped in tests for reproducible generated datasets.
var nowFunc = time.Now

// SnapshotStore is the subset of the Redis store the handlers need.
// Nil means no shared snapshot storage is configured.
type SnapshotStore interface {
	Set(ctx context.Context, ds domain.Dataset) error
	Get(ctx context.Context) (domain.Dataset, error)
}

// DatasetRepository is the subset of the Postgres repository the
// handlers need. Nil means no database persistence is configured.
type DatasetRepository interface {
	Replace(ctx context.Context, ds domain.Dataset) error
	Load(ctx context.Context) (domain.Dataset, error)
}

// Handlers serves the campaign analytics API. The working dataset is
// held in memory; uploads and generation swap it under a write lock
// and fan it out to whatever persistence is configured.
type Handlers struct {
	mu      sync.RWMutex
	current *domain.Dataset

	policy  config.AnalyticsConfig
	genCfg  config.GeneratorConfig
	store   SnapshotStore
	repo    DatasetRepository
	dataDir string
}

// NewHandlers creates the handler set. store, repo, and dataDir are
// each optional.
func NewHandlers(policy config.AnalyticsConfig, genCfg config.GeneratorConfig, store SnapshotStore, repo DatasetRepository, dataDir string) *Handlers {
	return &Handlers{
		policy:  policy,
		genCfg:  genCfg,
		store:   store,
		repo:    repo,
		dataDir: dataDir,
	}
}

// Restore loads a previously persisted dataset into memory, preferring
// the Redis snapshot and falling back to the database, then the data
// directory. Missing everywhere is not an error; the server starts
// empty.
func (h *Handlers) Restore(ctx context.Context) {
	if h.store != nil {
		if ds, err := h.store.Get(ctx); err == nil {
			h.setCurrent(ds)
			log.Printf("[api] restored dataset from snapshot store (%d influencers)", len(ds.Influencers))
			return
		}
	}
	if h.repo != nil {
		if ds, err := h.repo.Load(ctx); err == nil {
			h.setCurrent(ds)
			log.Printf("[api] restored dataset from database (%d influencers)", len(ds.Influencers))
			return
		}
	}
	if h.dataDir != "" {
		if ds, issues, err := dataset.LoadDir(h.dataDir); err == nil {
			h.setCurrent(ds)
			log.Printf("[api] restored dataset from %s (%d influencers, %d schema notes)",
				h.dataDir, len(ds.Influencers), len(issues))
		}
	}
}

func (h *Handlers) setCurrent(ds domain.Dataset) {
	h.mu.Lock()
	h.current = &ds
	h.mu.Unlock()
}

// snapshot returns the working dataset, or false when none is loaded.
func (h *Handlers) snapshot() (domain.Dataset, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return domain.Dataset{}, false
	}
	return *h.current, true
}

// persist writes the dataset to every configured backend. Failures are
// logged, not fatal; the in-memory copy is already live.
func (h *Handlers) persist(ctx context.Context, ds domain.Dataset) {
	if h.store != nil {
		if err := h.store.Set(ctx, ds); err != nil {
			log.Printf("[api] snapshot store write failed: %v", err)
		}
	}
	if h.repo != nil {
		if err := h.repo.Replace(ctx, ds); err != nil {
			log.Printf("[api] database write failed: %v", err)
		}
	}
	if h.dataDir != "" {
		if err := dataset.SaveDir(h.dataDir, ds); err != nil {
			log.Printf("[api] csv export failed: %v", err)
		}
	}
}

// HealthCheck reports service status.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	_, loaded := h.snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"dataset_loaded": loaded,
	})
}

// UploadDataset ingests the four campaign CSVs from a multipart form.
// Files are matched to tables by filename; all four tables must be
// present in one request.
//
//	POST /api/datasets/upload
func (h *Handlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	var ds domain.Dataset
	var issues []string
	seen := map[dataset.Table]bool{}

	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			table, ok := dataset.DetectTable(fh.Filename)
			if !ok {
				respondError(w, http.StatusBadRequest,
					fmt.Sprintf("cannot identify table for file %q", fh.Filename))
				return
			}
			if seen[table] {
				respondError(w, http.StatusBadRequest,
					fmt.Sprintf("duplicate file for table %s", table))
				return
			}
			seen[table] = true

			f, err := fh.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest,
					fmt.Sprintf("reading %q: %v", fh.Filename, err))
				return
			}

			var parseErr error
			var tableIssues []string
			switch table {
			case dataset.TableInfluencers:
				ds.Influencers, tableIssues, parseErr = dataset.ParseInfluencers(f)
			case dataset.TablePosts:
				ds.Posts, ds.Capabilities.PostsHasPlatform, tableIssues, parseErr = dataset.ParsePosts(f)
			case dataset.TableTracking:
				var schema dataset.TrackingSchema
				ds.Tracking, schema, tableIssues, parseErr = dataset.ParseTracking(f)
				ds.Capabilities.TrackingHasBrand = schema.HasBrand
				ds.Capabilities.TrackingHasProduct = schema.HasProduct
				ds.Capabilities.TrackingHasUserID = schema.HasUserID
			case dataset.TablePayouts:
				ds.Payouts, ds.Capabilities.PayoutsHasTotal, tableIssues, parseErr = dataset.ParsePayouts(f)
			}
			f.Close()

			if parseErr != nil {
				respondError(w, http.StatusUnprocessableEntity,
					fmt.Sprintf("%s: %v", table, parseErr))
				return
			}
			for _, issue := range tableIssues {
				issues = append(issues, fmt.Sprintf("%s: %s", table, issue))
			}
		}
	}

	var missing []string
	for _, table := range []dataset.Table{
		dataset.TableInfluencers, dataset.TablePosts,
		dataset.TableTracking, dataset.TablePayouts,
	} {
		if !seen[table] {
			missing = append(missing, string(table))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("missing tables: %v", missing))
		return
	}

	quality := dataset.ValidateQuality(ds)
	h.setCurrent(ds)
	h.persist(r.Context(), ds)

	log.Printf("[api] dataset uploaded: %d influencers, %d posts, %d tracking, %d payouts",
		len(ds.Influencers), len(ds.Posts), len(ds.Tracking), len(ds.Payouts))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":       dataset.Summarize(ds),
		"schema_issues": issues,
		"quality":       quality,
	})
}

// GenerateDataset replaces the working dataset with synthesized data.
// Generator parameters may be overridden in the JSON body; omitted
// fields keep their configured defaults.
//
//	POST /api/datasets/generate
func (h *Handlers) GenerateDataset(w http.ResponseWriter, r *http.Request) {
	cfg := h.genCfg

	if r.Body != nil && r.ContentLength != 0 {
		var override struct {
			Seed           *int64 `json:"seed"`
			NumInfluencers *int   `json:"num_influencers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
			return
		}
		if override.Seed != nil {
			cfg.Seed = *override.Seed
		}
		if override.NumInfluencers != nil {
			if *override.NumInfluencers <= 0 || *override.NumInfluencers > 10000 {
				respondError(w, http.StatusBadRequest, "num_influencers must be in 1..10000")
				return
			}
			cfg.NumInfluencers = *override.NumInfluencers
		}
	}

	ds := generator.New(cfg, nowFunc()).Generate()
	h.setCurrent(ds)
	h.persist(r.Context(), ds)

	log.Printf("[api] dataset generated: seed=%d influencers=%d posts=%d tracking=%d",
		cfg.Seed, len(ds.Influencers), len(ds.Posts), len(ds.Tracking))

	respondJSON(w, http.StatusOK, dataset.Summarize(ds))
}

// GetSummary returns table counts and headline totals.
//
//	GET /api/datasets/summary
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK, dataset.Summarize(ds))
}

// GetQuality reports data quality findings. Nothing is auto-corrected;
// the caller decides what to do with flagged rows.
//
//	GET /api/datasets/quality
func (h *Handlers) GetQuality(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK, dataset.ValidateQuality(ds))
}

// GetROIMetrics returns per-influencer ROI rows.
//
//	GET /api/metrics/roi
func (h *Handlers) GetROIMetrics(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	rows := analytics.ComputeROIMetrics(ds.Tracking, ds.Payouts, ds.Influencers, h.policy)
	respondJSON(w, http.StatusOK, rows)
}

// GetPerformanceMetrics returns ROI rows enriched with engagement and
// composite performance scores.
//
//	GET /api/metrics/performance
func (h *Handlers) GetPerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK, h.performanceRows(ds))
}

func (h *Handlers) performanceRows(ds domain.Dataset) []domain.PerformanceRow {
	roi := analytics.ComputeROIMetrics(ds.Tracking, ds.Payouts, ds.Influencers, h.policy)
	return analytics.ComputePerformanceScores(roi, ds.Posts, h.policy)
}

// GetPlatformMetrics returns per-platform aggregates.
//
//	GET /api/metrics/platforms
func (h *Handlers) GetPlatformMetrics(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK,
		analytics.ComputePlatformMetrics(ds.Posts, ds.Tracking, ds.Influencers))
}

// GetBrandMetrics returns per-brand aggregates, or an empty list when
// the tracking data carries no brand column.
//
//	GET /api/metrics/brands
func (h *Handlers) GetBrandMetrics(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK,
		analytics.ComputeBrandMetrics(ds.Tracking, ds.Capabilities))
}

// GetTimeSeries returns the daily revenue/orders/engagement series
// with trailing rolling averages. The window defaults to the
// configured policy and may be overridden with ?window=N.
//
//	GET /api/metrics/timeseries
func (h *Handlers) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	window := h.policy.RollingWindowDays
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = n
	}

	respondJSON(w, http.StatusOK,
		analytics.ComputeTimeSeries(ds.Tracking, ds.Posts, window))
}

// GetTopPerformers ranks influencers by the requested metric.
// Defaults: metric=performance_score, n from policy.
//
//	GET /api/performers/top
func (h *Handlers) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "performance_score"
	}
	n := h.policy.TopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	rows, err := analytics.TopPerformers(h.performanceRows(ds), metric, n)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// GetUnderperformers returns influencers at or below the configured
// performance-score percentile, worst first.
//
//	GET /api/performers/under
func (h *Handlers) GetUnderperformers(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	pct := h.policy.UnderperformerPercentile
	if raw := r.URL.Query().Get("percentile"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			respondError(w, http.StatusBadRequest, "percentile must be in 0..100")
			return
		}
		pct = v
	}

	respondJSON(w, http.StatusOK,
		analytics.Underperformers(h.performanceRows(ds), pct))
}

// GetInsights returns the full campaign report: headline summary, top
// and bottom performers, platform comparison, and recommendations.
//
//	GET /api/insights
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot()
	if !ok {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	respondJSON(w, http.StatusOK, insights.Generate(ds, h.policy))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
