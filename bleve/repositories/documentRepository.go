package repositories

import (
	"strings"

	bleve_models "invoiceflow-backend/bleve/models"
	"invoiceflow-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

const documentsIndex = "document_uploads"

type documentUploadEntry struct {
	FileName        string `json:"file_name"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	ProjectID       string `json:"project_id"`
	UploadedBy      string `json:"uploaded_by"`
	ValidationNotes string `json:"validation_notes"`
	RingiNumber     string `json:"ringi_number"`
	ProjectName     string `json:"project_name"`
	Description     string `json:"description"`
}

func documentIndexMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()
	text := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("file_name", text)
	doc.AddFieldMappingsAt("validation_notes", text)
	doc.AddFieldMappingsAt("project_name", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("ringi_number", text)
	doc.AddFieldMappingsAt("type", keyword)
	doc.AddFieldMappingsAt("status", keyword)
	doc.AddFieldMappingsAt("project_id", keyword)
	doc.AddFieldMappingsAt("uploaded_by", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func toDocumentUploadEntry(document models.DocumentUpload) documentUploadEntry {
	meta := document.Metadata.Data()
	entry := documentUploadEntry{
		FileName:        document.FileName,
		Type:            string(document.Type),
		Status:          string(document.Status),
		UploadedBy:      document.UploadedBy.String(),
		ValidationNotes: meta.ValidationNotes,
	}
	if document.ProjectID != nil {
		entry.ProjectID = *document.ProjectID
	}
	if meta.RingiNumber != nil {
		entry.RingiNumber = *meta.RingiNumber
	}
	if meta.ProjectName != nil {
		entry.ProjectName = *meta.ProjectName
	}
	if meta.Description != nil {
		entry.Description = *meta.Description
	}
	return entry
}

func (r *BleveRepository) IndexDocumentUpload(document models.DocumentUpload) error {
	return r.indexer.IndexDocument(documentsIndex, document.ID.String(), toDocumentUploadEntry(document))
}

func (r *BleveRepository) IndexExistingDocumentUploads(documents []models.DocumentUpload) error {
	if len(documents) == 0 {
		return nil
	}
	batch := make(map[string]interface{}, len(documents))
	for _, document := range documents {
		batch[document.ID.String()] = toDocumentUploadEntry(document)
	}
	return r.indexer.BulkIndexDocuments(documentsIndex, batch)
}

func (r *BleveRepository) DeleteDocumentUpload(documentID string) error {
	return r.indexer.DeleteDocument(documentsIndex, documentID)
}

// SearchDocumentUploads ranks exact matches above prefix matches above
// one-typo fuzzy matches, across the free-text fields.
func (r *BleveRepository) SearchDocumentUploads(queryString string, limit int) (*bleve_models.SearchResponse, error) {
	queryString = strings.ToLower(strings.TrimSpace(queryString))

	booleanQuery := bleve.NewBooleanQuery()
	for _, field := range []string{"file_name", "validation_notes", "project_name", "description", "ringi_number"} {
		match := bleve.NewMatchQuery(queryString)
		match.SetField(field)
		match.SetBoost(3.0)
		booleanQuery.AddShould(match)

		prefix := bleve.NewPrefixQuery(queryString)
		prefix.SetField(field)
		prefix.SetBoost(2.0)
		booleanQuery.AddShould(prefix)

		fuzzy := bleve.NewFuzzyQuery(queryString)
		fuzzy.SetField(field)
		fuzzy.SetFuzziness(1)
		booleanQuery.AddShould(fuzzy)
	}
	// type is a keyword field so "timesheet" finds TIMESHEET uploads
	typeQuery := bleve.NewTermQuery(strings.ToUpper(queryString))
	typeQuery.SetField("type")
	typeQuery.SetBoost(2.0)
	booleanQuery.AddShould(typeQuery)
	booleanQuery.SetMinShould(1)

	result, err := r.indexer.SearchIndex(documentsIndex, booleanQuery, limit)
	if err != nil {
		return nil, err
	}

	response := &bleve_models.SearchResponse{Total: result.Total, Hits: make([]bleve_models.SearchHit, 0, len(result.Hits))}
	for _, hit := range result.Hits {
		response.Hits = append(response.Hits, bleve_models.SearchHit{ID: hit.ID, Score: hit.Score, Fields: hit.Fields})
	}
	return response, nil
}
