package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/dathuynh/watch-store-api/internal/es"
	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/models"
)

// ProductIndexer mirrors catalog writes into the search index. Index
// failures are logged, never returned: the database stays the source of
// truth and a stale document is acceptable. A nil *ProductIndexer is a
// valid no-op for deployments without Elasticsearch.
type ProductIndexer struct {
	Client *elasticsearch.Client
}

func NewProductIndexer(client *elasticsearch.Client) *ProductIndexer {
	if client == nil {
		return nil
	}
	return &ProductIndexer{Client: client}
}

func (ix *ProductIndexer) Index(ctx context.Context, product *models.Product) {
	if ix == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "product_id", product.ID, "error", err)
		return
	}
	res, err := ix.Client.Index(
		es.ProductIndex,
		bytes.NewReader(data),
		ix.Client.Index.WithContext(ctx),
		ix.Client.Index.WithDocumentID(strconv.FormatUint(uint64(product.ID), 10)),
	)
	if err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "product_id", product.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		logging.FromContext(ctx).Error("es_index_failed", "product_id", product.ID, "status", res.Status())
	}
}

func (ix *ProductIndexer) Remove(ctx context.Context, productID uint) {
	if ix == nil {
		return
	}
	res, err := ix.Client.Delete(
		es.ProductIndex,
		strconv.FormatUint(uint64(productID), 10),
		ix.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		logging.FromContext(ctx).Error("es_delete_failed", "product_id", productID, "error", err)
		return
	}
	defer res.Body.Close()
	// 404 here just means the product was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		logging.FromContext(ctx).Error("es_delete_failed", "product_id", productID, "status", res.Status())
	}
}

type SearchService struct {
	Client *elasticsearch.Client
}

// Search runs a fuzzy multi_match over name and description, name
// weighted double.
func (s *SearchService) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Client == nil {
		return 0, nil, fmt.Errorf("%w: search is not configured", ErrValidation)
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(es.ProductIndex),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}
