package docstore

import (
	"context"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
)

// MeiliStore implements Store against a Meilisearch server. Index names get
// a configurable prefix so several deployments can share one server.
type MeiliStore struct {
	client *meilisearch.Client
	prefix string
}

// NewMeiliStore connects to a Meilisearch server. The prefix may be empty.
func NewMeiliStore(host, apiKey, prefix string) *MeiliStore {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &MeiliStore{client: client, prefix: prefix}
}

func (s *MeiliStore) uid(name string) string {
	return s.prefix + name
}

// filterableAttributes are the identity fields filter expressions may
// reference. Meilisearch rejects filters on undeclared attributes.
var filterableAttributes = []string{"file_id", "filename", "project_id", "output_id"}

func (s *MeiliStore) CreateIndex(_ context.Context, name, primaryKey string) error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.uid(name),
		PrimaryKey: primaryKey,
	})
	if err != nil {
		return fmt.Errorf("%w: creating index %s: %v", ErrStoreFailed, name, err)
	}
	attrs := filterableAttributes
	if _, err := s.client.Index(s.uid(name)).UpdateFilterableAttributes(&attrs); err != nil {
		return fmt.Errorf("%w: configuring index %s: %v", ErrStoreFailed, name, err)
	}
	return nil
}

func (s *MeiliStore) Upsert(_ context.Context, index string, docs []Document) error {
	for _, doc := range docs {
		if _, err := docID(doc); err != nil {
			return err
		}
	}
	if _, err := s.client.Index(s.uid(index)).AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("%w: indexing into %s: %v", ErrStoreFailed, index, err)
	}
	return nil
}

func (s *MeiliStore) Delete(_ context.Context, index, id string) error {
	if _, err := s.client.Index(s.uid(index)).DeleteDocument(id); err != nil {
		return fmt.Errorf("%w: deleting %s from %s: %v", ErrStoreFailed, id, index, err)
	}
	return nil
}

func (s *MeiliStore) DeleteByFilter(_ context.Context, index string, filter Filter) error {
	if filter.IsZero() {
		return fmt.Errorf("%w: empty filter", ErrInvalidFilter)
	}
	if _, err := s.client.Index(s.uid(index)).DeleteDocumentsByFilter(filter.String()); err != nil {
		return fmt.Errorf("%w: filtered delete on %s: %v", ErrStoreFailed, index, err)
	}
	return nil
}

func (s *MeiliStore) Search(_ context.Context, index, query string, opts SearchOptions) (*SearchResults, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	req := &meilisearch.SearchRequest{Limit: int64(limit)}
	if !opts.Filter.IsZero() {
		req.Filter = opts.Filter.String()
	}

	resp, err := s.client.Index(s.uid(index)).Search(query, req)
	if err != nil {
		return nil, fmt.Errorf("%w: searching %s: %v", ErrStoreFailed, index, err)
	}

	hits := make([]Hit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		hit := Hit{Fields: fields}
		if id, ok := fields["id"].(string); ok {
			hit.ID = id
		}
		hits = append(hits, hit)
	}
	return &SearchResults{
		Hits:  hits,
		Total: uint64(resp.EstimatedTotalHits),
	}, nil
}

// Close is a no-op; the Meilisearch client holds no persistent connections.
func (s *MeiliStore) Close() error {
	return nil
}
