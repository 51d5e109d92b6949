package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/UnknownOlympus/haven/internal/extract"
	"github.com/UnknownOlympus/haven/internal/metrics"
	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/UnknownOlympus/haven/internal/ranking"
	"github.com/UnknownOlympus/haven/internal/retrieval"
	"github.com/UnknownOlympus/haven/internal/session"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest is returned for requests rejected before the pipeline runs.
var ErrInvalidRequest = errors.New("invalid search request")

// Extractor finds a place name in query text.
type Extractor interface {
	Extract(text, language string) (extract.Location, bool)
}

// Geocoder resolves a place name. Failures are absorbed by the service.
type Geocoder interface {
	Resolve(ctx context.Context, placeName string) (*models.Place, error)
}

// Retriever fetches candidates in semantic order.
type Retriever interface {
	Retrieve(ctx context.Context, text string, poolSize int, filter models.Filter) ([]models.Candidate, error)
}

// Expander enriches the text sent to retrieval. Extraction always sees the original text.
type Expander interface {
	Expand(text string) string
}

// Options tune a SearchService.
type Options struct {
	Defaults  session.Defaults // Defaults for new and cleared sessions.
	MaxCount  int              // MaxCount caps the requested count; 0 means no cap.
	OverFetch int              // OverFetch multiplies the pool while a location is active.
	Expander  Expander         // Expander is optional; nil retrieves with the raw text.
}

// Request is one conversation turn.
type Request struct {
	ConversationID string
	Text           string
	Language       string
	Count          int              // Count overrides the session count when positive.
	RadiusKm       *float64         // RadiusKm overrides the session radius.
	Pin            *models.GeoPoint // Pin sets the location directly, skipping extraction and geocoding.
	PinName        string
	Clear          bool // Clear resets the session before anything else is applied.
	Filter         models.Filter
	Prior          *session.Session // Prior is nil for the first turn of a conversation.
}

// Response is the outcome of one turn. Session must be handed back as Prior on the next turn.
type Response struct {
	Results     []models.RankedResult `json:"results"`
	Session     session.Session       `json:"session"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty"`
	Extracted   string                `json:"extracted_location,omitempty"`
}

// SearchService runs the hybrid retrieval-and-ranking pipeline for a single turn.
// It holds no conversation state; callers serialize turns of one conversation.
type SearchService struct {
	log       *slog.Logger
	extractor Extractor
	geocoder  Geocoder
	retriever Retriever
	metrics   *metrics.Metrics
	opts      Options
}

// NewSearchService creates a new instance of SearchService.
func NewSearchService(
	log *slog.Logger,
	extractor Extractor,
	geocoder Geocoder,
	retriever Retriever,
	metrics *metrics.Metrics,
	opts Options,
) *SearchService {
	if opts.OverFetch == 0 {
		opts.OverFetch = retrieval.DefaultOverFetch
	}

	return &SearchService{
		log:       log,
		extractor: extractor,
		geocoder:  geocoder,
		retriever: retriever,
		metrics:   metrics,
		opts:      opts,
	}
}

// Search processes one turn. Geocoding failures degrade to semantic order and are reported
// as diagnostics; retrieval failures are returned as errors wrapping retrieval.ErrRetrievalFailed.
// req.Prior is never modified.
func (s *SearchService) Search(ctx context.Context, req Request) (*Response, error) {
	if err := s.validate(req); err != nil {
		s.metrics.SearchTurns.WithLabelValues("invalid").Inc()
		return nil, err
	}

	current := s.start(req)

	var pending *extract.Location
	if req.Pin != nil {
		name := req.PinName
		if name == "" {
			name = req.Pin.String()
		}
		current = current.WithLocation(*req.Pin, name)
	} else if loc, ok := s.extractor.Extract(req.Text, req.Language); ok {
		pending = &loc
	}

	count := current.RequestedCount
	pool := retrieval.PoolSize(count, s.opts.OverFetch, current.State() == session.Active || pending != nil)

	var (
		place      *models.Place
		geoErr     error
		candidates []models.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	if pending != nil {
		g.Go(func() error {
			place, geoErr = s.geocoder.Resolve(gctx, pending.Name)
			return nil
		})
	}
	retrievalText := req.Text
	if s.opts.Expander != nil {
		retrievalText = s.opts.Expander.Expand(req.Text)
	}
	g.Go(func() error {
		var err error
		candidates, err = s.retriever.Retrieve(gctx, retrievalText, pool, req.Filter)
		return err
	})

	if err := g.Wait(); err != nil {
		s.metrics.SearchTurns.WithLabelValues("retrieval_failed").Inc()
		return nil, err
	}

	resp := &Response{}
	lang := normalizeLanguage(req.Language)

	if pending != nil {
		resp.Extracted = pending.Name
		if geoErr != nil {
			resp.Diagnostics = append(resp.Diagnostics, geocodeFailed(lang, pending.Name, current))
		} else {
			current = current.WithLocation(place.Point, place.DisplayName)
		}
	}

	outcome := "unranked"
	var ranked []models.RankedResult
	if current.Location != nil {
		r := ranking.Rank(candidates, *current.Location, current.RadiusKm)
		s.metrics.RadiusDiscarded.Observe(float64(r.Excluded))
		ranked = r.Results
		outcome = "ranked"

		if len(ranked) == 0 && r.Excluded > 0 {
			outcome = "empty_after_radius"
			resp.Diagnostics = append(resp.Diagnostics,
				emptyAfterRadius(lang, current, r.NearestExcludedKm))
		}
	} else {
		ranked = ranking.Unranked(candidates)
	}

	resp.Results = Assemble(ranked, count)
	resp.Session = current

	s.metrics.SearchTurns.WithLabelValues(outcome).Inc()
	s.log.InfoContext(ctx, "Search turn completed",
		"conversation", req.ConversationID,
		"query", req.Text,
		"language", req.Language,
		"location", current.LocationName,
		"state", current.State().String(),
		"candidates", len(candidates),
		"results", len(resp.Results),
	)

	return resp, nil
}

func (s *SearchService) validate(req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("%w: empty query text", ErrInvalidRequest)
	}
	if req.Count < 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, req.Count)
	}
	if req.RadiusKm != nil {
		r := *req.RadiusKm
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidRequest, r)
		}
	}
	if req.Pin != nil {
		if err := req.Pin.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// start derives the session this turn works on: prior (or defaults), then clear, then overrides.
func (s *SearchService) start(req Request) session.Session {
	current := session.New(s.opts.Defaults)
	if req.Prior != nil {
		current = *req.Prior
	}
	if req.Clear {
		current = current.Cleared(s.opts.Defaults)
	}

	if current.RadiusKm <= 0 {
		current = current.WithRadius(s.opts.Defaults.RadiusKm)
	}
	if current.RequestedCount <= 0 {
		current = current.WithCount(s.opts.Defaults.Count)
	}

	if req.RadiusKm != nil {
		current = current.WithRadius(*req.RadiusKm)
	}
	if req.Count > 0 {
		count := req.Count
		if s.opts.MaxCount > 0 && count > s.opts.MaxCount {
			count = s.opts.MaxCount
		}
		current = current.WithCount(count)
	}

	return current
}
