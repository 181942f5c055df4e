// Package search mirrors the product catalog into an Elasticsearch index.
// The database stays the source of truth; indexing is best-effort and the
// index only accelerates the public search endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/jmehta/storefront/internal/models"
)

const Index = "products"

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIndexer(es *elasticsearch.Client) *Indexer {
	return &Indexer{ES: es, Index: Index}
}

func (i *Indexer) IndexProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal product: %w", err)
	}

	res, err := i.ES.Index(
		i.Index,
		bytes.NewReader(data),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(fmt.Sprint(p.ID)),
	)
	if err != nil {
		return fmt.Errorf("search: index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product: %s", res.Status())
	}
	return nil
}

func (i *Indexer) DeleteProduct(ctx context.Context, id uint) error {
	res, err := i.ES.Delete(
		i.Index,
		fmt.Sprint(id),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete product: %s", res.Status())
	}
	return nil
}

// Search runs a case-insensitive substring match on product names, newest
// first, matching the database search contract.
func (i *Indexer) Search(ctx context.Context, query string) ([]models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"name": map[string]any{
					"value":            "*" + strings.ToLower(query) + "*",
					"case_insensitive": true,
				},
			},
		},
		"sort": []any{map[string]any{"createdAt": "desc"}},
		"size": 100,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		prods[n] = hit.Source
	}
	return prods, nil
}
