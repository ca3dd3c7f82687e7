package repositories

import (
	"context"

	bleve_models "invoiceflow-backend/bleve/models"
	bleveindex "invoiceflow-backend/bleve/services"
	"invoiceflow-backend/db/models"
)

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

type BleveRepositoryInterface interface {
	ResetDocumentIndex(ctx context.Context) error

	IndexDocumentUpload(document models.DocumentUpload) error
	IndexExistingDocumentUploads(documents []models.DocumentUpload) error
	DeleteDocumentUpload(documentID string) error
	SearchDocumentUploads(queryString string, limit int) (*bleve_models.SearchResponse, error)
}

func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	indexer.RegisterMapping(documentsIndex, documentIndexMapping())
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}

func (r *BleveRepository) ResetDocumentIndex(ctx context.Context) error {
	return r.indexer.DeleteIndex(documentsIndex)
}
