package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxCDLFileSize is 10MB in bytes
	MaxCDLFileSize = 10 * 1024 * 1024
)

var (
	// AllowedCDLExtensions are the file extensions accepted for CDL uploads
	AllowedCDLExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}
	// AllowedCDLMimeTypes are the content types accepted for CDL uploads
	AllowedCDLMimeTypes = []string{"application/pdf", "image/png", "image/jpeg"}
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateCDLFile validates an uploaded CDL document's size, extension and
// declared content type. Both the extension and the MIME type must pass;
// either alone is trivially spoofable.
func ValidateCDLFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxCDLFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxCDLFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !contains(AllowedCDLExtensions, ext) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PDF and image (PNG/JPEG) files are allowed",
		}
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !contains(AllowedCDLMimeTypes, contentType) {
		return &FileUploadError{
			Code:    "INVALID_FILE_TYPE",
			Message: fmt.Sprintf("Content type %q is not allowed", contentType),
		}
	}

	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
