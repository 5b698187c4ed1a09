package storage

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
)

// Smallest useful JPEG header: SOI + APP0 JFIF marker.
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)

func TestDecodeImage(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(jpegBytes)

	for _, in := range []string{b64, "data:image/jpeg;base64," + b64} {
		raw, ext, err := DecodeImage(in, 1024)
		if err != nil {
			t.Fatalf("decode %q: %v", in[:10], err)
		}
		if ext != ".jpg" || len(raw) != len(jpegBytes) {
			t.Fatalf("unexpected result ext=%s len=%d", ext, len(raw))
		}
	}
}

func TestDecodeImageRejects(t *testing.T) {
	text := base64.StdEncoding.EncodeToString([]byte("just some text"))
	tests := map[string]struct {
		data string
		max  int64
	}{
		"empty":       {"", 1024},
		"not base64":  {"%%%", 1024},
		"not image":   {text, 1024},
		"too large":   {base64.StdEncoding.EncodeToString(jpegBytes), 8},
		"bad dataurl": {"data:image/jpeg;base64", 1024},
	}
	for name, tc := range tests {
		_, _, err := DecodeImage(tc.data, tc.max)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestSaveApplicationPhoto(t *testing.T) {
	dir := t.TempDir()
	store := NewPhotoStore(dir, "/media/", 1024)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	url, err := store.SaveApplicationPhoto("u1", "j1", base64.StdEncoding.EncodeToString(jpegBytes))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/media/applications/u1_j1_1700000000000.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
	got, err := os.ReadFile(filepath.Join(dir, "applications", "u1_j1_1700000000000.jpg"))
	if err != nil || len(got) != len(jpegBytes) {
		t.Fatalf("photo not written: %v", err)
	}
	if !strings.HasPrefix(url, store.BaseURL) {
		t.Fatalf("url outside base: %s", url)
	}
}

func TestRemovePhoto(t *testing.T) {
	dir := t.TempDir()
	store := NewPhotoStore(dir, "/media", 1024)

	url, err := store.Save("u1", "j1", jpegBytes)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "applications"))
	if err != nil || len(entries) != 0 {
		t.Fatalf("photo still on disk: %v %v", entries, err)
	}
	if err := store.Remove(url); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	outside := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, u := range []string{"/media/../keep.txt", "/media/applications/../keep.txt", "https://elsewhere/keep.txt"} {
		if err := store.Remove(u); err != nil {
			t.Fatalf("remove %s: %v", u, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store was removed: %v", err)
	}
}
