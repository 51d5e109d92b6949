package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/haven/internal/metrics"
	"github.com/UnknownOlympus/haven/internal/models"
)

// Over-fetch factor bounds applied while a location is active.
const (
	MinOverFetch     = 2
	MaxOverFetch     = 4
	DefaultOverFetch = 3
)

// DefaultTimeout bounds one Retrieve call.
const DefaultTimeout = 15 * time.Second

// ErrRetrievalFailed is returned when the index or the hydrator can't answer.
// It is never returned for an empty result.
var ErrRetrievalFailed = errors.New("semantic retrieval failed")

// PoolSize returns how many candidates to fetch for count final results.
// With an active location the pool is count times factor, factor clamped to
// [MinOverFetch, MaxOverFetch]; otherwise it is count.
func PoolSize(count, factor int, locationActive bool) int {
	if !locationActive {
		return count
	}

	factor = max(MinOverFetch, min(factor, MaxOverFetch))

	return count * factor
}

// Retriever fetches candidates from an Index and hydrates them.
type Retriever struct {
	log      *slog.Logger
	index    Index
	hydrator Hydrator
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// NewRetriever creates a Retriever. A zero timeout selects DefaultTimeout.
func NewRetriever(
	log *slog.Logger,
	index Index,
	hydrator Hydrator,
	timeout time.Duration,
	metrics *metrics.Metrics,
) *Retriever {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Retriever{
		log:      log,
		index:    index,
		hydrator: hydrator,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Retrieve returns at most poolSize distinct facilities in semantic order, SemanticRank
// counting from 1.
func (r *Retriever) Retrieve(
	ctx context.Context,
	text string,
	poolSize int,
	filter models.Filter,
) ([]models.Candidate, error) {
	if poolSize <= 0 {
		return nil, fmt.Errorf("%w: pool size must be positive, got %d", ErrRetrievalFailed, poolSize)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	startTime := time.Now()
	hits, err := r.index.Query(ctx, text, poolSize, filter)
	r.metrics.RetrievalSeconds.Observe(time.Since(startTime).Seconds())
	if err != nil {
		return nil, r.fail(ctx, text, poolSize, err)
	}

	hits = distinct(hits, poolSize)
	facilities, err := r.hydrator.Hydrate(ctx, hits)
	if err != nil {
		return nil, r.fail(ctx, text, poolSize, err)
	}

	r.log.DebugContext(ctx, "Retrieved candidates", "query", text, "pool", poolSize, "candidates", len(facilities))

	return candidates(hits, facilities), nil
}

func (r *Retriever) fail(ctx context.Context, text string, poolSize int, err error) error {
	r.metrics.RetrievalErrors.Inc()
	r.log.ErrorContext(ctx, "Semantic retrieval failed", "query", text, "pool", poolSize, "error", err)

	return fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
}

// distinct keeps the first hit of every facility, up to limit hits.
func distinct(hits []Hit, limit int) []Hit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]Hit, 0, min(len(hits), limit))
	for _, hit := range hits {
		if _, ok := seen[hit.ID]; ok {
			continue
		}
		seen[hit.ID] = struct{}{}
		out = append(out, hit)
		if len(out) == limit {
			break
		}
	}

	return out
}

func candidates(hits []Hit, facilities []models.Facility) []models.Candidate {
	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		scores[hit.ID] = hit.Score
	}

	out := make([]models.Candidate, len(facilities))
	for i, f := range facilities {
		out[i] = models.Candidate{Facility: f, SemanticRank: i + 1, Score: scores[f.ID]}
	}

	return out
}
