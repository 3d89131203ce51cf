package storage

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResumeStoreRequiresBucketAndRegion(t *testing.T) {
	_, err := NewResumeStore(context.Background(), S3Config{Bucket: "resumes"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPresignUpload(t *testing.T) {
	ctx := context.Background()
	store, err := NewResumeStore(ctx, S3Config{
		Region:          "us-east-1",
		Bucket:          "resumes",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:9000",
		PresignExpiry:   5 * time.Minute,
	})
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	upload, err := store.PresignUpload(ctx, "resumes/s1/abc-cv.pdf", "cv.pdf")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, upload.Method)
	assert.True(t, strings.HasPrefix(upload.UploadURL, "http://localhost:9000/resumes/resumes/s1/abc-cv.pdf?"), upload.UploadURL)
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature=")
	assert.Contains(t, upload.UploadURL, "X-Amz-Expires=300")
	assert.Equal(t, fixed.Add(5*time.Minute), upload.ExpiresAt)
	assert.Equal(t, "http://localhost:9000/resumes/resumes/s1/abc-cv.pdf", upload.Resume.URL)
	assert.Equal(t, "cv.pdf", upload.Resume.FileName)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("CV.PDF"))
	assert.Equal(t, "application/msword", contentType("cv.doc"))
	assert.Equal(t, "application/octet-stream", contentType("cv"))
}
