package validators

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"invoiceflow-backend/db/models"
	documents_requests "invoiceflow-backend/documents/requests"
)

const DefaultMaxUploadBytes int64 = 20 * 1024 * 1024

var allowedExtensions = map[models.DocumentKind]map[string]bool{
	models.TimesheetDocument: {".xls": true, ".xlsx": true, ".pdf": true},
	models.RateCardDocument:  {".xls": true, ".xlsx": true, ".pdf": true},
	models.RingiDocument: {
		".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
		".png": true, ".jpg": true, ".jpeg": true,
	},
	models.AnnexDocument: {
		".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
		".png": true, ".jpg": true, ".jpeg": true,
	},
}

type DocumentValidator struct {
	MaxUploadBytes int64
}

func NewDocumentValidator(maxUploadBytes int64) *DocumentValidator {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &DocumentValidator{MaxUploadBytes: maxUploadBytes}
}

// ValidateUploadRequest checks the request shape before any content is read.
func (v *DocumentValidator) ValidateUploadRequest(req *documents_requests.UploadDocumentRequest) error {
	if req == nil {
		return errors.New("upload request is required")
	}

	if !req.Type.IsValid() {
		return fmt.Errorf("invalid document type: %q", req.Type)
	}

	if err := v.validateFileName(req.FileName); err != nil {
		return err
	}

	if err := v.validateExtension(req.Type, req.FileName); err != nil {
		return err
	}

	if int64(len(req.Content)) > v.MaxUploadBytes {
		return fmt.Errorf("file exceeds maximum allowed size (%d MB)", v.MaxUploadBytes/(1024*1024))
	}

	if req.Uploader == nil {
		return errors.New("uploader cannot be empty")
	}

	return nil
}

// validateFileName ensures the filename is valid
func (v *DocumentValidator) validateFileName(fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return errors.New("file name cannot be empty")
	}

	if len(fileName) > 255 {
		return errors.New("file name cannot exceed 255 characters")
	}

	return nil
}

func (v *DocumentValidator) validateExtension(kind models.DocumentKind, fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[kind][ext] {
		return fmt.Errorf("file extension %q is not accepted for %s documents", ext, kind)
	}
	return nil
}

// IsSpreadsheet reports whether the file goes through automated extraction.
func IsSpreadsheet(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls", ".xlsx":
		return true
	default:
		return false
	}
}
