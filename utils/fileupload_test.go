package utils

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeFileHeader(filename, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: filename,
		Header:   header,
		Size:     size,
	}
}

func TestValidateCDLFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		contentType  string
		size         int64
		expectedCode string
	}{
		{"valid pdf", "license.pdf", "application/pdf", 1024, ""},
		{"valid png", "license.png", "image/png", 1024, ""},
		{"valid jpg", "license.jpg", "image/jpeg", 1024, ""},
		{"valid jpeg", "license.JPEG", "image/jpeg", 1024, ""},
		{"oversized file", "license.pdf", "application/pdf", MaxCDLFileSize + 1, "FILE_TOO_LARGE"},
		{"bad extension", "license.exe", "application/pdf", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "license", "application/pdf", 1024, "INVALID_FILE_FORMAT"},
		{"mime mismatch", "license.pdf", "text/html", 1024, "INVALID_FILE_TYPE"},
		{"missing mime", "license.png", "", 1024, "INVALID_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCDLFile(makeFileHeader(tt.filename, tt.contentType, tt.size))

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			uploadErr, ok := err.(*FileUploadError)
			assert.True(t, ok, "error should be a FileUploadError")
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}
