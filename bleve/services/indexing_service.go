package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error)
	DeleteIndex(indexName string) error
	Close() error
}

// IndexingService keeps one bleve index per name under basePath. An empty
// basePath keeps every index in memory.
type IndexingService struct {
	indexes  map[string]bleve.Index
	mappings map[string]mapping.IndexMapping
	logger   *zap.Logger
	basePath string
	mu       sync.Mutex
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		mappings: make(map[string]mapping.IndexMapping),
		logger:   logger,
		basePath: basePath,
	}
}

// RegisterMapping sets the mapping used when indexName is first created.
func (s *IndexingService) RegisterMapping(indexName string, m mapping.IndexMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[indexName] = m
}

func (s *IndexingService) indexPath(indexName string) string {
	return filepath.Join(s.basePath, indexName+".bleve")
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	m, ok := s.mappings[indexName]
	if !ok {
		m = bleve.NewIndexMapping()
	}

	var (
		idx bleve.Index
		err error
	)
	if s.basePath == "" {
		idx, err = bleve.NewMemOnly(m)
	} else {
		idx, err = bleve.Open(s.indexPath(indexName))
		if err != nil {
			idx, err = bleve.New(s.indexPath(indexName), m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", indexName, err)
	}

	s.indexes[indexName] = idx
	return idx, nil
}

func (s *IndexingService) SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, 0, false)
	searchRequest.Fields = []string{"*"}

	result, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index", indexName), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Debug("Indexed document", zap.String("index", indexName), zap.String("id", id))
	return nil
}

func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add doc to batch", zap.String("id", id), zap.Error(err))
			return err
		}
	}

	if err := idx.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.Error(err))
		return err
	}

	s.logger.Info("Bulk indexed documents", zap.String("index", indexName), zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}

	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// DeleteIndex closes the index and removes its files so the next write
// starts from an empty index.
func (s *IndexingService) DeleteIndex(indexName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[indexName]; ok {
		if err := idx.Close(); err != nil {
			return fmt.Errorf("failed to close index: %w", err)
		}
		delete(s.indexes, indexName)
	}

	if s.basePath == "" {
		return nil
	}
	if err := os.RemoveAll(s.indexPath(indexName)); err != nil {
		return fmt.Errorf("failed to delete index files: %w", err)
	}

	s.logger.Info("Deleted index", zap.String("index_name", indexName))
	return nil
}

func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.indexes, name)
	}
	return firstErr
}
