// Package api exposes the text-analytics session over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/pagerank"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/session"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/suggestcache"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/fuzzy"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/tracing"
)

const maxBodyBytes = 1 << 20

// QueryTracker publishes recorded searches. *analytics.Collector implements
// it.
type QueryTracker interface {
	Track(event analytics.QueryEvent) bool
	Stats() analytics.CollectorStats
}

// Options configures a Handler. Cache and Tracker may be nil: without a
// tracker, recorded searches go straight into the session.
type Options struct {
	Cache       *suggestcache.Cache
	Tracker     QueryTracker
	PagesDir    string
	DefaultTopK int
	MaxTopK     int
}

type Handler struct {
	session     *session.Session
	cache       *suggestcache.Cache
	tracker     QueryTracker
	pagesDir    string
	defaultTopK int
	maxTopK     int
	logger      *slog.Logger
}

func New(s *session.Session, opts Options) *Handler {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 10
	}
	if opts.MaxTopK < opts.DefaultTopK {
		opts.MaxTopK = opts.DefaultTopK
	}
	return &Handler{
		session:     s,
		cache:       opts.Cache,
		tracker:     opts.Tracker,
		pagesDir:    opts.PagesDir,
		defaultTopK: opts.DefaultTopK,
		maxTopK:     opts.MaxTopK,
		logger:      logger.WithComponent("api-handler"),
	}
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/spellcheck", h.SpellCheck)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/nearest", h.Nearest)
	mux.HandleFunc("GET /api/v1/frequency", h.Frequency)
	mux.HandleFunc("GET /api/v1/terms/top", h.TopTerms)
	mux.HandleFunc("POST /api/v1/vocabulary", h.Ingest)
	mux.HandleFunc("POST /api/v1/searches", h.RecordSearch)
	mux.HandleFunc("GET /api/v1/searches/top", h.TopSearches)
	mux.HandleFunc("GET /api/v1/cards", h.ListCards)
	mux.HandleFunc("GET /api/v1/cards/recommend", h.Recommend)
	mux.HandleFunc("GET /api/v1/cards/validate", h.ValidateCards)
	mux.HandleFunc("GET /api/v1/cards/match", h.MatchRewards)
	mux.HandleFunc("GET /api/v1/pages/top", h.TopPages)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
}

func (h *Handler) SpellCheck(w http.ResponseWriter, r *http.Request) {
	word, ok := h.requireParam(w, r, "word")
	if !ok {
		return
	}
	ctx, span := tracing.StartTrace(r.Context(), "api.spellcheck", middleware.GetRequestID(r.Context()))
	defer span.Finish(logger.FromContext(ctx))
	span.SetAttr("word", word)

	report, hit, err := h.cache.GetOrCompute(ctx, word, h.session.Generation(), func() (fuzzy.Report, error) {
		_, check := tracing.Start(ctx, "session.check")
		defer check.End()
		return h.session.Check(word)
	})
	if err != nil {
		h.writeAppError(ctx, w, err)
		return
	}
	logger.FromContext(ctx).Debug("spell check", "word", word, "correct", report.Correct, "cache_hit", hit)
	h.writeJSON(w, http.StatusOK, report)
}

type suggestResponse struct {
	Prefix      string   `json:"prefix"`
	Suggestions []string `json:"suggestions"`
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	suggestions, err := h.session.Suggest(prefix)
	if err != nil {
		h.writeAppError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, suggestResponse{Prefix: prefix, Suggestions: suggestions})
}

type nearestResponse struct {
	Word string `json:"word"`
	fuzzy.Match
}

func (h *Handler) Nearest(w http.ResponseWriter, r *http.Request) {
	word, ok := h.requireParam(w, r, "word")
	if !ok {
		return
	}
	match, err := h.session.Nearest(word)
	if err != nil {
		h.writeAppError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nearestResponse{Word: word, Match: match})
}

type frequencyResponse struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

func (h *Handler) Frequency(w http.ResponseWriter, r *http.Request) {
	term, ok := h.requireParam(w, r, "term")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, frequencyResponse{Term: term, Frequency: h.session.Frequency(term)})
}

type rankingResponse struct {
	K       int             `json:"k"`
	Entries []ranking.Entry `json:"entries"`
}

func (h *Handler) TopTerms(w http.ResponseWriter, r *http.Request) {
	k, ok := h.topK(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rankingResponse{K: k, Entries: h.session.TopTerms(k)})
}

type ingestRequest struct {
	Records []string `json:"records"`
}

type ingestResponse struct {
	TokensAdded int           `json:"tokens_added"`
	Stats       session.Stats `json:"stats"`
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if len(req.Records) == 0 {
		h.writeError(w, http.StatusBadRequest, "records must not be empty")
		return
	}
	ctx := r.Context()
	added := h.session.Ingest(req.Records)
	if added > 0 {
		if err := h.cache.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Warn("suggest cache invalidation failed", "error", err)
		}
	}
	logger.FromContext(ctx).Info("records ingested", "records", len(req.Records), "tokens", added)
	h.writeJSON(w, http.StatusOK, ingestResponse{TokensAdded: added, Stats: h.session.Stats()})
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query  string `json:"query"`
	Status string `json:"status"`
	Count  int64  `json:"count,omitempty"`
}

// RecordSearch counts one search. With a tracker configured the event is
// published and counted when it is consumed back, so the response is 202.
func (h *Handler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, "query must not be blank")
		return
	}
	ctx := r.Context()
	if h.tracker != nil {
		if !h.tracker.Track(analytics.NewQueryEvent(req.Query, "api", middleware.GetRequestID(ctx))) {
			h.writeError(w, http.StatusServiceUnavailable, "search tracking is saturated, try again later")
			return
		}
		h.writeJSON(w, http.StatusAccepted, searchResponse{Query: req.Query, Status: "queued"})
		return
	}
	h.session.RecordQuery(req.Query)
	h.writeJSON(w, http.StatusOK, searchResponse{Query: req.Query, Status: "recorded", Count: h.session.QueryCount(req.Query)})
}

func (h *Handler) TopSearches(w http.ResponseWriter, r *http.Request) {
	k, ok := h.topK(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rankingResponse{K: k, Entries: h.session.TopQueries(k)})
}

type cardsResponse struct {
	Count int          `json:"count"`
	Cards []cards.Card `json:"cards"`
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cs := h.session.Cards()
	h.writeJSON(w, http.StatusOK, cardsResponse{Count: len(cs), Cards: cs})
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	criteria := cards.AnyCard()
	var ok bool
	if criteria.MaxAnnualFee, ok = h.floatParam(w, r, "max_fee", cards.NoBound); !ok {
		return
	}
	if criteria.MaxInterestRate, ok = h.floatParam(w, r, "max_rate", cards.NoBound); !ok {
		return
	}
	criteria.RewardsKeyword = r.URL.Query().Get("rewards")
	cs := h.session.Recommend(criteria)
	h.writeJSON(w, http.StatusOK, cardsResponse{Count: len(cs), Cards: cs})
}

type validationResponse struct {
	Invalid int                      `json:"invalid"`
	Results []cards.ValidationResult `json:"results"`
}

func (h *Handler) ValidateCards(w http.ResponseWriter, r *http.Request) {
	results := h.session.Validate()
	invalid := 0
	for _, res := range results {
		if !res.Valid() {
			invalid++
		}
	}
	h.writeJSON(w, http.StatusOK, validationResponse{Invalid: invalid, Results: results})
}

func (h *Handler) MatchRewards(w http.ResponseWriter, r *http.Request) {
	expr, ok := h.requireParam(w, r, "pattern")
	if !ok {
		return
	}
	cs, err := h.session.MatchRewards(expr)
	if err != nil {
		h.writeAppError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cardsResponse{Count: len(cs), Cards: cs})
}

func (h *Handler) TopPages(w http.ResponseWriter, r *http.Request) {
	k, ok := h.topK(w, r)
	if !ok {
		return
	}
	if k == 0 {
		h.writeJSON(w, http.StatusOK, rankingResponse{K: 0, Entries: []ranking.Entry{}})
		return
	}
	ctx, span := tracing.StartTrace(r.Context(), "api.toppages", middleware.GetRequestID(r.Context()))
	defer span.Finish(logger.FromContext(ctx))

	entries, err := pagerank.RankDirectory(ctx, h.pagesDir, k)
	if err != nil {
		h.writeAppError(ctx, w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rankingResponse{K: k, Entries: entries})
}

type statsResponse struct {
	Session   session.Stats             `json:"session"`
	Cache     map[string]int64          `json:"cache,omitempty"`
	Analytics *analytics.CollectorStats `json:"analytics,omitempty"`
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Session: h.session.Stats()}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		resp.Cache = map[string]int64{"hits": hits, "misses": misses}
	}
	if h.tracker != nil {
		stats := h.tracker.Stats()
		resp.Analytics = &stats
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if strings.TrimSpace(v) == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter '"+name+"' is required")
		return "", false
	}
	return v, true
}

// topK reads the k parameter: absent uses the default, values above the
// maximum are clamped, and 0 yields an empty ranking.
func (h *Handler) topK(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return h.defaultTopK, true
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 0 {
		h.writeError(w, http.StatusBadRequest, "k must be a non-negative integer")
		return 0, false
	}
	return min(k, h.maxTopK), true
}

func (h *Handler) floatParam(w http.ResponseWriter, r *http.Request, name string, fallback float64) (float64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, name+" must be a number")
		return 0, false
	}
	return v, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) writeAppError(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, apperrors.ErrTimeout) && !errors.Is(err, apperrors.ErrUnavailable) {
		logger.FromContext(ctx).Error("request failed", "error", err)
		h.writeError(w, status, "internal error")
		return
	}
	logger.FromContext(ctx).Debug("request rejected", "status", status, "error", err)
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
