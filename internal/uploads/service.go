package uploads

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedImageMimes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Service issues presigned PUT URLs for supplier-owned assets.
type Service interface {
	PresignProductImage(ctx context.Context, supplierID uuid.UUID, input PresignInput) (*PresignOutput, error)
	PresignSupplierLogo(ctx context.Context, supplierID uuid.UUID, input PresignInput) (*PresignOutput, error)
}

// PresignInput models an upload URL request.
type PresignInput struct {
	FileName  string `json:"file_name" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignOutput carries the signed URL plus the object path the client should
// store back on the product or profile once the upload completes.
type PresignOutput struct {
	ObjectPath  string    `json:"object_path"`
	UploadURL   string    `json:"upload_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type service struct {
	gcs       gcsSigner
	bucket    string
	uploadTTL time.Duration
	now       func() time.Time
}

// NewService constructs the presign service over the GCS signer.
func NewService(gcs gcsSigner, bucket string, uploadTTL time.Duration) (Service, error) {
	if gcs == nil {
		return nil, fmt.Errorf("gcs signer required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	return &service{gcs: gcs, bucket: bucket, uploadTTL: uploadTTL, now: time.Now}, nil
}

func (s *service) PresignProductImage(ctx context.Context, supplierID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	return s.presign(supplierID, input, func(ext string) string {
		return fmt.Sprintf("products/%s/%s%s", supplierID, uuid.NewString(), ext)
	})
}

func (s *service) PresignSupplierLogo(ctx context.Context, supplierID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	return s.presign(supplierID, input, func(ext string) string {
		return fmt.Sprintf("suppliers/%s/logo/%s%s", supplierID, uuid.NewString(), ext)
	})
}

func (s *service) presign(supplierID uuid.UUID, input PresignInput, objectPath func(ext string) string) (*PresignOutput, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "supplier account required")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}

	mimeType, err := normalizeMime(input.MimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "mime_type invalid")
	}
	if _, ok := allowedImageMimes[mimeType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed, expected an image")
	}

	object := objectPath(sanitizeExt(fileName))
	signedURL, err := s.gcs.SignedURL(s.bucket, object, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectPath:  object,
		UploadURL:   signedURL,
		ContentType: mimeType,
		ExpiresAt:   s.now().Add(s.uploadTTL),
	}, nil
}

func normalizeMime(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", err
	}
	return strings.ToLower(mediaType), nil
}

// sanitizeExt keeps only a plain ascii extension so object paths stay tame.
func sanitizeExt(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
