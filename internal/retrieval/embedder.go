package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainEmbedder embeds queries through an OpenAI-compatible embedding API.
type LangchainEmbedder struct {
	embedder embeddings.Embedder
	log      *slog.Logger
}

// NewLangchainEmbedder creates an embedder for host and model. An empty token is
// replaced with "none" for local services that don't require authentication.
func NewLangchainEmbedder(host, model, token string, log *slog.Logger) (*LangchainEmbedder, error) {
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	}
	if host != "" {
		opts = append(opts, openai.WithBaseURL(host))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &LangchainEmbedder{embedder: embedder, log: log}, nil
}

// EmbedQuery generates a vector embedding for a single query.
func (e *LangchainEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.log.DebugContext(ctx, "Generating query embedding", "length", len(text))

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return vector, nil
}
