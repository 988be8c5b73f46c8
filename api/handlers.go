package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/cryptodash/internal/dashboard"
	"github.com/seenimoa/cryptodash/pkg/models"
)

// maxNewsLimit caps ?limit= on news endpoints.
const maxNewsLimit = 100

// RefreshResult is returned by POST /api/v1/refresh.
type RefreshResult struct {
	SnapshotID string    `json:"snapshot_id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Source     string    `json:"source"`
	Assets     int       `json:"assets"`
}

// NewsResult is returned by GET /api/v1/news.
type NewsResult struct {
	Articles  []models.NewsArticle        `json:"articles"`
	Sentiment *models.AggregatedSentiment `json:"sentiment,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"source":  s.agg.Market().Name(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if snap, err := s.store.Latest(r.Context()); err == nil {
		data["snapshot_id"] = snap.ID.String()
		data["fetched_at"] = snap.FetchedAt
		data["assets"] = snap.Len()
	}
	writeData(w, data)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	view, err := dashboard.BuildView(snap, criteria)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	writeData(w, dashboard.ComputeStats(snap.Assets))
}

// handleInsights answers 200 without data when the market list is empty.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	ins, err := dashboard.ComputeInsights(snap.Assets)
	if errors.Is(err, dashboard.ErrEmptyCollection) {
		writeJSON(w, http.StatusOK, APIResponse{Success: true})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, ins)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	writeData(w, dashboard.GenerateSuggestions(snap.Assets))
}

// handleApplySuggestion applies a suggestion to the criteria in the request
// body. An empty body starts from the default criteria.
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	criteria := dashboard.DefaultCriteria()
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := criteria.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	next, err := dashboard.ApplySuggestion(chi.URLParam(r, "key"), criteria)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeData(w, next)
}

func (s *Server) handleDefaultCriteria(w http.ResponseWriter, r *http.Request) {
	writeData(w, dashboard.DefaultCriteria())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.refresh(r.Context(), true)
	if err != nil {
		s.log.WithError(err).Warn("refresh failed")
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	writeData(w, RefreshResult{
		SnapshotID: snap.ID.String(),
		FetchedAt:  snap.FetchedAt,
		Source:     snap.Source,
		Assets:     snap.Len(),
	})
}

// handleCoin returns the detail report for one asset. ?news=1 adds related
// news and sentiment; ?limit= caps the articles.
func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "id")))
	if id == "" {
		writeError(w, http.StatusBadRequest, "coin id is required")
		return
	}

	withNews := parseBool(r.URL.Query().Get("news"))
	limit, err := s.newsLimit(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The list row is optional context; a missing snapshot is not fatal.
	var summary *models.AssetSummary
	if snap, err := s.snapshot(r.Context()); err == nil {
		if a, ok := snap.Find(id); ok {
			summary = &a
		}
	} else {
		s.log.WithError(err).Debug("no snapshot for coin summary")
	}

	report, err := s.agg.FetchAssetReport(r.Context(), id, summary, withNews, limit)
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	writeData(w, report)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit, err := s.newsLimit(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	articles, sent, err := s.agg.MarketNews(r.Context(), limit)
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}
	writeData(w, NewsResult{Articles: articles, Sentiment: sent})
}

// newsLimit reads ?limit=, defaulting to the configured news limit.
func (s *Server) newsLimit(q url.Values) (int, error) {
	raw := q.Get("limit")
	if raw == "" {
		return s.cfg.News.Limit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxNewsLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxNewsLimit)
	}
	return n, nil
}

// criteriaFromQuery builds filter criteria from query parameters:
// search, price, min, max, cap, change, vol_low, vol_high. Missing
// parameters keep their defaults.
func criteriaFromQuery(q url.Values) (dashboard.FilterCriteria, error) {
	c := dashboard.DefaultCriteria().WithSearch(q.Get("search"))

	if v := q.Get("price"); v != "" {
		c = c.WithPriceBand(dashboard.PriceBand(v))
	}
	if v := q.Get("cap"); v != "" {
		c = c.WithMarketCapBand(dashboard.MarketCapBand(v))
	}
	if v := q.Get("change"); v != "" {
		c = c.WithChangeBand(dashboard.ChangeBand(v))
	}

	min, err := dashboard.ParsePriceBound(q.Get("min"))
	if err != nil {
		return c, err
	}
	max, err := dashboard.ParsePriceBound(q.Get("max"))
	if err != nil {
		return c, err
	}
	c = c.WithCustomPrice(min, max)

	low, high := 0, 100
	if v := q.Get("vol_low"); v != "" {
		if low, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("%w: vol_low %q is not an integer", dashboard.ErrInvalidCriteria, v)
		}
	}
	if v := q.Get("vol_high"); v != "" {
		if high, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("%w: vol_high %q is not an integer", dashboard.ErrInvalidCriteria, v)
		}
	}
	c = c.WithVolumeRange(low, high)

	return c, c.Validate()
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
