package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// BleveIndex is an in-memory full-text index over the facility catalog.
// Ranking is BM25 with ties broken by facility id.
type BleveIndex struct {
	index bleve.Index
	log   *slog.Logger
}

type bleveDocument struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	District    string `json:"district"`
	Description string `json:"description"`
	Features    string `json:"features"`
	Accessible  bool   `json:"accessible"`
}

// NewBleveIndex builds the index from facilities.
func NewBleveIndex(facilities []models.Facility, log *slog.Logger) (*BleveIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for _, f := range facilities {
		doc := bleveDocument{
			Name:        f.Name,
			Address:     f.Address,
			District:    f.District,
			Description: f.Description,
			Features:    strings.Join(f.Features, " "),
			Accessible:  f.Accessible,
		}
		if err = batch.Index(f.ID, doc); err != nil {
			return nil, fmt.Errorf("failed to index facility %s: %w", f.ID, err)
		}
	}

	if err = idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index facilities: %w", err)
	}

	log.Info("Built local facility index", "facilities", len(facilities))

	return &BleveIndex{index: idx, log: log}, nil
}

// Query implements Index. Empty text matches every facility.
func (b *BleveIndex) Query(ctx context.Context, text string, limit int, filter models.Filter) ([]Hit, error) {
	var textQuery query.Query
	if strings.TrimSpace(text) == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		textQuery = bleve.NewMatchQuery(text)
	}

	conjuncts := []query.Query{textQuery}
	if filter.District != "" {
		districtQuery := bleve.NewMatchPhraseQuery(filter.District)
		districtQuery.SetField("district")
		conjuncts = append(conjuncts, districtQuery)
	}
	if filter.AccessibleOnly {
		accessibleQuery := bleve.NewBoolFieldQuery(true)
		accessibleQuery.SetField("accessible")
		conjuncts = append(conjuncts, accessibleQuery)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(conjuncts...), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		hits = append(hits, Hit{ID: match.ID, Score: match.Score})
	}

	b.log.DebugContext(ctx, "Local index answered", "hits", len(hits), "total", res.Total)

	return hits, nil
}

// Close releases the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
