package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/haven/internal/models"
)

// VectorDBIndex queries the vector database service over HTTP (POST {baseURL}/query).
type VectorDBIndex struct {
	client     HTTPClient
	baseURL    string
	collection string
	embedder   Embedder // nil lets the service embed query_texts itself
	log        *slog.Logger
}

type vectorQueryRequest struct {
	CollectionName  string         `json:"collection_name"`
	QueryTexts      []string       `json:"query_texts,omitempty"`
	QueryEmbeddings [][]float32    `json:"query_embeddings,omitempty"`
	NResults        int            `json:"n_results"`
	Where           map[string]any `json:"where,omitempty"`
}

// Result arrays are nested per query; only one query is ever sent.
type vectorQueryResponse struct {
	Status  string `json:"status"`
	Results struct {
		IDs       [][]string         `json:"ids"`
		Distances [][]float64        `json:"distances"`
		Metadatas [][]map[string]any `json:"metadatas"`
	} `json:"results"`
}

// NewVectorDBIndex creates a vector database index client. embedder may be nil.
func NewVectorDBIndex(
	client HTTPClient,
	baseURL string,
	collection string,
	embedder Embedder,
	log *slog.Logger,
) *VectorDBIndex {
	return &VectorDBIndex{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		embedder:   embedder,
		log:        log,
	}
}

// Query implements Index.
func (v *VectorDBIndex) Query(ctx context.Context, text string, limit int, filter models.Filter) ([]Hit, error) {
	payload := vectorQueryRequest{
		CollectionName: v.collection,
		NResults:       limit,
		Where:          whereClause(filter),
	}

	if v.embedder != nil {
		vector, err := v.embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		payload.QueryEmbeddings = [][]float32{vector}
	} else {
		payload.QueryTexts = []string{text}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vector query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector query: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		v.log.ErrorContext(ctx, "Vector DB error", "status", resp.StatusCode, "body", string(raw))
		return nil, fmt.Errorf("vector DB returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result vectorQueryResponse
	if err = json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode vector DB response: %w", err)
	}

	if len(result.Results.IDs) == 0 {
		return []Hit{}, nil
	}

	ids := result.Results.IDs[0]
	hits := make([]Hit, 0, len(ids))
	for i, docID := range ids {
		var metadata map[string]any
		if len(result.Results.Metadatas) > 0 && i < len(result.Results.Metadatas[0]) {
			metadata = result.Results.Metadatas[0][i]
		}

		hit := Hit{ID: facilityID(docID, metadata), Payload: metadata}
		if len(result.Results.Distances) > 0 && i < len(result.Results.Distances[0]) {
			hit.Score = 1 / (1 + result.Results.Distances[0][i])
		}
		hits = append(hits, hit)
	}

	v.log.DebugContext(ctx, "Vector DB answered", "hits", len(hits))

	return hits, nil
}

// facilityID maps a document id to its facility: chunks carry shelter_id.
func facilityID(docID string, metadata map[string]any) string {
	for _, key := range []string{"shelter_id", "id"} {
		if s, ok := metadata[key].(string); ok && s != "" {
			return s
		}
	}

	return docID
}

func whereClause(filter models.Filter) map[string]any {
	var clauses []map[string]any
	if filter.District != "" {
		clauses = append(clauses, map[string]any{"district": map[string]any{"$eq": filter.District}})
	}
	if filter.AccessibleOnly {
		clauses = append(clauses, map[string]any{"accessible": map[string]any{"$eq": true}})
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return map[string]any{"$and": clauses}
	}
}
