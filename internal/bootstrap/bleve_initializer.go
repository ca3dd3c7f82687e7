package bootstrap

import (
	"context"

	bleveRepositories "invoiceflow-backend/bleve/repositories"
	"invoiceflow-backend/config"
	documents_repositories "invoiceflow-backend/documents/repositories"

	"go.uber.org/zap"
)

// IndexBleveData rebuilds the document search index from the database.
func IndexBleveData(
	ctx context.Context,
	documentRepo documents_repositories.DocumentRepository,
	bleveRepo bleveRepositories.BleveRepositoryInterface,
) {
	if err := bleveRepo.ResetDocumentIndex(ctx); err != nil {
		config.Logger.Error("Error resetting document index", zap.Error(err))
		return
	}

	documents, err := documentRepo.ListDocuments(ctx, documents_repositories.DocumentFilter{})
	if err != nil {
		config.Logger.Error("Error fetching documents for Bleve indexing", zap.Error(err))
		return
	}

	if err := bleveRepo.IndexExistingDocumentUploads(documents); err != nil {
		config.Logger.Error("Failed to index documents into Bleve", zap.Error(err))
		return
	}
	config.Logger.Info("Document search index rebuilt", zap.Int("documents", len(documents)))
}
