package docstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// deleteBatchSize bounds one round of a filtered delete
const deleteBatchSize = 500

// exactFields are identity fields matched verbatim by filter term queries.
// Without the keyword analyzer the standard analyzer would split values like
// "doc-42" into separate terms and the term query would never match.
var exactFields = []string{"id", "file_id", "filename", "output_id"}

func indexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()
	for _, field := range exactFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		doc.AddFieldMappingsAt(field, fm)
	}
	m.DefaultMapping = doc
	return m
}

// BleveStore keeps one embedded bleve index per index name. With a data
// directory, indexes persist under <dir>/<name>.bleve; without one, every
// index lives in memory, which the tests rely on.
type BleveStore struct {
	mu      sync.Mutex
	dir     string
	indexes map[string]bleve.Index
}

// NewBleveStore creates a store persisting indexes under dir.
func NewBleveStore(dir string) *BleveStore {
	return &BleveStore{
		dir:     dir,
		indexes: make(map[string]bleve.Index),
	}
}

// NewMemStore creates a store whose indexes live in memory only.
func NewMemStore() *BleveStore {
	return NewBleveStore("")
}

func (s *BleveStore) indexPath(name string) string {
	return filepath.Join(s.dir, name+".bleve")
}

// getOrCreate returns the open index for name, opening or creating it on
// first use.
func (s *BleveStore) getOrCreate(name string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[name]; ok {
		return idx, nil
	}

	var idx bleve.Index
	var err error
	if s.dir == "" {
		idx, err = bleve.NewMemOnly(indexMapping())
	} else {
		path := s.indexPath(name)
		idx, err = bleve.Open(path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			idx, err = bleve.New(path, indexMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open index %s: %v", ErrStoreFailed, name, err)
	}

	s.indexes[name] = idx
	return idx, nil
}

// get returns the open index for name without creating it.
func (s *BleveStore) get(name string) (bleve.Index, error) {
	s.mu.Lock()
	idx, ok := s.indexes[name]
	s.mu.Unlock()
	if ok {
		return idx, nil
	}

	if s.dir == "" {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indexes[name]; ok {
		return idx, nil
	}
	idx, err := bleve.Open(s.indexPath(name))
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open index %s: %v", ErrStoreFailed, name, err)
	}
	s.indexes[name] = idx
	return idx, nil
}

// CreateIndex opens or creates the index. The primary key is always the
// "id" field with bleve, so the argument only has to be consistent.
func (s *BleveStore) CreateIndex(_ context.Context, name, _ string) error {
	_, err := s.getOrCreate(name)
	return err
}

func (s *BleveStore) Upsert(_ context.Context, index string, docs []Document) error {
	idx, err := s.getOrCreate(index)
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for _, doc := range docs {
		id, err := docID(doc)
		if err != nil {
			return err
		}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("%w: batching %s: %v", ErrStoreFailed, id, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("%w: indexing into %s: %v", ErrStoreFailed, index, err)
	}
	return nil
}

func (s *BleveStore) Delete(_ context.Context, index, id string) error {
	idx, err := s.get(index)
	if err != nil {
		return err
	}
	if err := idx.Delete(id); err != nil {
		return fmt.Errorf("%w: deleting %s from %s: %v", ErrStoreFailed, id, index, err)
	}
	return nil
}

func (s *BleveStore) DeleteByFilter(_ context.Context, index string, filter Filter) error {
	if filter.IsZero() {
		return fmt.Errorf("%w: empty filter", ErrInvalidFilter)
	}
	idx, err := s.get(index)
	if err != nil {
		return err
	}

	for {
		tq := bleve.NewTermQuery(filter.Value)
		tq.SetField(filter.Field)
		req := bleve.NewSearchRequest(tq)
		req.Size = deleteBatchSize

		results, err := idx.Search(req)
		if err != nil {
			return fmt.Errorf("%w: filtered delete on %s: %v", ErrStoreFailed, index, err)
		}
		if len(results.Hits) == 0 {
			return nil
		}

		batch := idx.NewBatch()
		for _, hit := range results.Hits {
			batch.Delete(hit.ID)
		}
		if err := idx.Batch(batch); err != nil {
			return fmt.Errorf("%w: filtered delete on %s: %v", ErrStoreFailed, index, err)
		}
	}
}

func (s *BleveStore) Search(_ context.Context, index, query string, opts SearchOptions) (*SearchResults, error) {
	idx, err := s.get(index)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var req *bleve.SearchRequest
	match := bleve.NewMatchQuery(query)
	if opts.Filter.IsZero() {
		req = bleve.NewSearchRequest(match)
	} else {
		tq := bleve.NewTermQuery(opts.Filter.Value)
		tq.SetField(opts.Filter.Field)
		req = bleve.NewSearchRequest(bleve.NewConjunctionQuery(match, tq))
	}
	req.Size = limit
	req.Fields = []string{"*"}

	results, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("%w: searching %s: %v", ErrStoreFailed, index, err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}
	return &SearchResults{Hits: hits, Total: results.Total}, nil
}

func (s *BleveStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing index %s: %w", name, err)
		}
		delete(s.indexes, name)
	}
	return firstErr
}
