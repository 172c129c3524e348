package docstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/storage/object/local"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(local.New(t.TempDir(), "/files"), 1<<20, time.Minute)
	s.now = func() time.Time { return time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSaveKeyEmbedsContractAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Save(context.Background(), "c1", "vendor agreement.doc", bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	wantPrefix := "c1/1740045600_"
	if !strings.HasPrefix(doc.Path, wantPrefix) {
		t.Fatalf("path %q does not start with %q", doc.Path, wantPrefix)
	}
	if !strings.HasSuffix(doc.Path, "vendor_agreement.doc") {
		t.Fatalf("path %q lacks sanitized file name", doc.Path)
	}
	if doc.URL != "/files/"+doc.Path {
		t.Fatalf("unexpected URL %q", doc.URL)
	}
	if doc.SizeBytes != 4 {
		t.Fatalf("expected size 4, got %d", doc.SizeBytes)
	}
}

func TestSaveNeverOverwrites(t *testing.T) {
	s := newTestStore(t)

	payload := []byte{0x01, 0x02, 0x03, 0x04}
	if _, err := s.Save(context.Background(), "c1", "a.doc", bytes.NewReader(payload)); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	// Same contract, file name and frozen clock produce the same key.
	_, err := s.Save(context.Background(), "c1", "a.doc", bytes.NewReader(payload))
	var serr *StorageError
	if !errors.As(err, &serr) || serr.Reason != ReasonConflict {
		t.Fatalf("expected conflict StorageError, got %v", err)
	}
}

func TestSaveRejectsBeforeUpload(t *testing.T) {
	s := newTestStore(t)
	s.MaxBytes = 8

	cases := []struct {
		name       string
		fileName   string
		payload    []byte
		wantReason string
	}{
		{name: "bad extension", fileName: "malware.exe", payload: []byte{1, 2, 3}, wantReason: ReasonInvalidType},
		{name: "oversized", fileName: "big.doc", payload: bytes.Repeat([]byte{1}, 9), wantReason: ReasonTooLarge},
		{name: "empty", fileName: "empty.doc", payload: nil, wantReason: ReasonInvalidType},
		{name: "corrupt pdf", fileName: "bad.pdf", payload: []byte("%PDF-1.4"), wantReason: ReasonCorrupt},
		{name: "traversal", fileName: "../../x.doc", payload: []byte{1, 2, 3}, wantReason: ReasonInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Save(context.Background(), "c1", tc.fileName, bytes.NewReader(tc.payload))
			var serr *StorageError
			if !errors.As(err, &serr) {
				t.Fatalf("expected StorageError, got %v", err)
			}
			if serr.Reason != tc.wantReason {
				t.Fatalf("expected reason %s, got %s", tc.wantReason, serr.Reason)
			}
		})
	}
}

// stalledStore blocks every Put until its context is done.
type stalledStore struct{}

func (stalledStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func (stalledStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not stored")
}

func (stalledStore) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (stalledStore) URL(ctx context.Context, key string) (string, error) { return "", nil }

func TestSaveTimesOutSlowUpload(t *testing.T) {
	s := New(stalledStore{}, 1<<20, 20*time.Millisecond)

	start := time.Now()
	_, err := s.Save(context.Background(), "c1", "a.doc", bytes.NewReader([]byte{1, 2, 3, 4}))
	var serr *StorageError
	if !errors.As(err, &serr) || serr.Reason != ReasonTransport {
		t.Fatalf("expected transport StorageError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("save blocked for %v despite timeout", elapsed)
	}
}
