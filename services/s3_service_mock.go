package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	// UploadErr / DBDeleteErr style knobs for forcing failures
	UploadErr  error
	PresignErr error

	uploadedFiles map[string][]byte // map of S3 key to file content
	// LastPresignExpiry records the TTL the caller asked for, so tests can
	// assert document links are requested with the intended lifetime.
	LastPresignExpiry time.Duration
	mu                sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedFiles: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadCDL simulates uploading a CDL document to S3
func (m *MockS3Service) UploadCDL(fileHeader *multipart.FileHeader, driverID uint) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	s3Key := fmt.Sprintf("cdl/%d/cdl_mock%s", driverID, ext)

	m.mu.Lock()
	m.uploadedFiles[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(s3Key string, expires time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	if s3Key == "" {
		return "", nil
	}

	m.mu.Lock()
	m.LastPresignExpiry = expires
	m.mu.Unlock()

	// Return a mock presigned URL
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?X-Amz-Expires=%d&mock=true", s3Key, int(expires.Seconds())), nil
}

// DeleteFile simulates deleting a file from S3
func (m *MockS3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedFiles, s3Key)
	m.mu.Unlock()

	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[s3Key]
	return exists
}

// UploadedFiles returns a copy of all uploaded files (for testing assertions)
func (m *MockS3Service) UploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.uploadedFiles))
	for k, v := range m.uploadedFiles {
		files[k] = v
	}
	return files
}

// Clear removes all files from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.uploadedFiles = make(map[string][]byte)
	m.LastPresignExpiry = 0
	m.mu.Unlock()
}
