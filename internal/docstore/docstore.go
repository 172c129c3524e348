// Package docstore stores uploaded contract documents in object storage.
// Keys embed the contract id and upload timestamp so repeated uploads never
// collide, and existing objects are never overwritten.
package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/gitaufar/technoday-sub001/internal/shared/storage/object"
	"github.com/gitaufar/technoday-sub001/internal/shared/util"
)

// Reasons a store operation can fail for.
const (
	ReasonInvalidType = "invalid_type"
	ReasonTooLarge    = "too_large"
	ReasonCorrupt     = "corrupt_document"
	ReasonConflict    = "key_conflict"
	ReasonTransport   = "transport"
)

// StorageError describes a failed document store operation. Upload failures
// are fatal to the pipeline run that triggered them.
type StorageError struct {
	Reason string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docstore: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("docstore: %s", e.Reason)
}

func (e *StorageError) Unwrap() error { return e.Err }

// StoredDocument is the stable reference returned for an uploaded document.
type StoredDocument struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	SizeBytes   int64  `json:"sizeBytes"`
	ContentType string `json:"contentType"`
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/zip":          {}, // docx sniffs as zip
	"application/octet-stream": {}, // doc files often sniff as this
}

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// Store uploads contract documents.
type Store struct {
	Objects  object.ObjectStore
	MaxBytes int64
	Timeout  time.Duration
	now      func() time.Time
}

// New constructs a document store with the given size limit. A positive
// timeout bounds each storage write; zero means no deadline beyond the
// caller's context.
func New(objects object.ObjectStore, maxBytes int64, timeout time.Duration) *Store {
	return &Store{Objects: objects, MaxBytes: maxBytes, Timeout: timeout, now: time.Now}
}

// Save validates and uploads a document for a contract, returning its
// storage path and resolvable URL. Validation happens before any network
// call; oversized and non-document payloads are rejected locally.
func (s *Store) Save(ctx context.Context, contractID, fileName string, r io.Reader) (StoredDocument, error) {
	if strings.TrimSpace(contractID) == "" {
		return StoredDocument{}, &StorageError{Reason: ReasonInvalidType, Err: fmt.Errorf("contract id is required")}
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return StoredDocument{}, &StorageError{Reason: ReasonInvalidType, Err: err}
	}
	ext := strings.ToLower(extension(sanitized))
	if _, ok := allowedExtensions[ext]; !ok {
		return StoredDocument{}, &StorageError{Reason: ReasonInvalidType, Err: fmt.Errorf("unsupported extension %q", ext)}
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = 10 << 20
	}

	// Buffer the whole payload: the limit is small, and both the content
	// sniff and the PDF structure check need random access.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return StoredDocument{}, &StorageError{Reason: ReasonTransport, Err: fmt.Errorf("read payload: %w", err)}
	}
	if n > limit {
		return StoredDocument{}, &StorageError{Reason: ReasonTooLarge, Err: fmt.Errorf("payload exceeds %d bytes", limit)}
	}
	if n == 0 {
		return StoredDocument{}, &StorageError{Reason: ReasonInvalidType, Err: fmt.Errorf("empty payload")}
	}

	data := buf.Bytes()
	contentType := sniffContentType(data)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return StoredDocument{}, &StorageError{Reason: ReasonInvalidType, Err: fmt.Errorf("unsupported content type %q", contentType)}
	}
	if ext == ".pdf" {
		if err := checkPDF(data); err != nil {
			return StoredDocument{}, &StorageError{Reason: ReasonCorrupt, Err: err}
		}
		contentType = "application/pdf"
	}

	key := fmt.Sprintf("%s/%d_%s", contractID, s.now().UTC().Unix(), sanitized)

	putCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		putCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if _, err := s.Objects.Put(putCtx, key, contentType, bytes.NewReader(data)); err != nil {
		if err == object.ErrKeyExists {
			return StoredDocument{}, &StorageError{Reason: ReasonConflict, Err: err}
		}
		return StoredDocument{}, &StorageError{Reason: ReasonTransport, Err: err}
	}

	url, err := s.Objects.URL(putCtx, key)
	if err != nil {
		return StoredDocument{}, &StorageError{Reason: ReasonTransport, Err: err}
	}

	return StoredDocument{
		Path:        key,
		URL:         url,
		SizeBytes:   n,
		ContentType: contentType,
	}, nil
}

// Open retrieves a stored document by its path.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.Objects.Open(ctx, path)
}

func sniffContentType(data []byte) string {
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	ct := http.DetectContentType(data[:sniffLen])
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

func checkPDF(data []byte) error {
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("pdf structure: %w", err)
	}
	return nil
}

func extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
