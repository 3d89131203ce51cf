package storage

import (
	"context"
	"errors"
	"fmt"
	"jobconnect-backend/internal/domain"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("storage: resume uploads are not configured")

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint for S3-compatible providers
	// (MinIO, Wasabi). Path-style addressing is used when set.
	Endpoint      string
	PresignExpiry time.Duration
}

func (c S3Config) Configured() bool {
	return c.Region != "" && c.Bucket != ""
}

// ResumeStore issues presigned upload URLs for resume files.
type ResumeStore struct {
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
	expiry    time.Duration
	now       func() time.Time
}

func NewResumeStore(ctx context.Context, cfg S3Config) (*ResumeStore, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = cfg.Endpoint + "/" + cfg.Bucket
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &ResumeStore{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		baseURL:   baseURL,
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

// PresignUpload returns a PUT URL for key and the resume reference that will
// point at the object once uploaded.
func (s *ResumeStore) PresignUpload(ctx context.Context, key, fileName string) (*domain.ResumeUpload, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType(fileName)),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("presign resume upload: %w", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodPut
	}

	return &domain.ResumeUpload{
		UploadURL: req.URL,
		Method:    method,
		ExpiresAt: s.now().Add(s.expiry),
		Resume: domain.Resume{
			URL:      s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(),
			FileName: fileName,
		},
	}, nil
}

func contentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
