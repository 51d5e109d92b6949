package retrieval

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/haven/internal/models"
)

// Hit is one index answer. ID is the facility id; chunked documents of the same
// facility share it.
type Hit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// Index returns up to limit hits for text, best match first.
type Index interface {
	Query(ctx context.Context, text string, limit int, filter models.Filter) ([]Hit, error)
}

// Hydrator resolves hits to facility records, keeping hit order.
// Hits it cannot resolve are dropped.
type Hydrator interface {
	Hydrate(ctx context.Context, hits []Hit) ([]models.Facility, error)
}

// Embedder converts query text to a vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
