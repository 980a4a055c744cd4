package ml

// related.go - Nearest-neighbour index of previously analyzed articles
//
// Cleaned article text is embedded and kept in an in-memory chromem-go
// collection so responses can point at similar articles the service has
// already seen. Best-effort auxiliary functionality: indexing failures
// are logged, lookup failures return empty results.

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// RelatedArticle is one similarity hit from the index.
type RelatedArticle struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Prediction string  `json:"prediction"`
	Similarity float64 `json:"similarity"`
}

// RelatedIndex stores embeddings of analyzed articles for lookup.
type RelatedIndex struct {
	collection *chromem.Collection
}

// NewRelatedIndex builds an in-memory index backed by the given
// embedding function (typically Embedder.EmbeddingFunc).
func NewRelatedIndex(embed func(ctx context.Context, text string) ([]float32, error)) (*RelatedIndex, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("analyzed-articles", nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, fmt.Errorf("failed to create article collection: %w", err)
	}
	return &RelatedIndex{collection: collection}, nil
}

// Add indexes an analyzed article under the given record ID.
func (r *RelatedIndex) Add(ctx context.Context, id, text string, label Label, confidence float64) error {
	return r.collection.AddDocument(ctx, chromem.Document{
		ID:      id,
		Content: text,
		Metadata: map[string]string{
			"prediction": label.String(),
			"confidence": strconv.FormatFloat(confidence, 'f', 4, 64),
		},
	})
}

// Similar returns up to limit previously analyzed articles closest to
// text, most similar first. An empty index yields an empty slice.
func (r *RelatedIndex) Similar(ctx context.Context, text string, limit int) ([]RelatedArticle, error) {
	count := r.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := r.collection.Query(ctx, text, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}

	articles := make([]RelatedArticle, 0, len(results))
	for _, res := range results {
		articles = append(articles, RelatedArticle{
			ID:         res.ID,
			Text:       res.Content,
			Prediction: res.Metadata["prediction"],
			Similarity: float64(res.Similarity),
		})
	}
	return articles, nil
}
