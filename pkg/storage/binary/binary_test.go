package binary

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage/storagetest"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chart.ser")
	s := New()

	if err := s.Save(ctx, storagetest.BuildChart(t), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(data) < 2 || data[0] != 0xAC || data[1] != 0xED {
		t.Fatalf("file starts with % X, want AC ED", data[:2])
	}

	root, err := s.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	storagetest.AssertChart(t, root)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "absent.ser"))
	if !orgerrors.Is(err, orgerrors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestDecodeRejectsBadData(t *testing.T) {
	ctx := context.Background()

	if _, err := Decode(ctx, []byte(`{"name": "Acme"}`)); !orgerrors.Is(err, orgerrors.ErrCodeInvalidFormat) {
		t.Errorf("text data err = %v, want INVALID_FORMAT", err)
	}
	if _, err := Decode(ctx, []byte{0xAC, 0xED, 0x00, 0x01}); !orgerrors.Is(err, orgerrors.ErrCodeInvalidFormat) {
		t.Errorf("truncated gob err = %v, want INVALID_FORMAT", err)
	}
	if _, err := Decode(ctx, []byte{0xAC}); !orgerrors.Is(err, orgerrors.ErrCodeInvalidFormat) {
		t.Errorf("short data err = %v, want INVALID_FORMAT", err)
	}
}
