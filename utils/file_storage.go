package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage stores uploaded document bytes under a storage key.
type FileStorage interface {
	UploadFileFromReader(ctx context.Context, src io.Reader, key, contentType string) (string, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
}

type LocalFileStorage struct {
	uploadPath string
}

func NewLocalFileStorage(uploadPath string) *LocalFileStorage {
	return &LocalFileStorage{uploadPath: uploadPath}
}

func (s *LocalFileStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	fullPath := filepath.Join(s.uploadPath, cleaned)
	if !strings.HasPrefix(fullPath, filepath.Clean(s.uploadPath)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return fullPath, nil
}

// UploadFileFromReader writes src under key and returns the key.
func (s *LocalFileStorage) UploadFileFromReader(_ context.Context, src io.Reader, key, _ string) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return key, nil
}

// DownloadFile retrieves a file for reading
func (s *LocalFileStorage) DownloadFile(_ context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// DeleteFile removes a file from storage
func (s *LocalFileStorage) DeleteFile(_ context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// FileExists checks if a file exists in storage
func (s *LocalFileStorage) FileExists(_ context.Context, key string) (bool, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}

	return true, nil
}
