// Package storage keeps applicant photos on local disk and serves them
// under a public base URL.
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/justsurfingit/job-portal/internal/apperr"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// DecodeImage accepts a data URL ("data:image/jpeg;base64,...") or plain
// base64 and returns the image bytes. Only JPEG and PNG up to maxSize
// bytes are accepted.
func DecodeImage(data string, maxSize int64) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", apperr.Validation("photo is empty", map[string]string{"photo_profile": "is required"})
	}
	if strings.HasPrefix(data, "data:") {
		i := strings.IndexByte(data, ',')
		if i < 0 {
			return nil, "", invalidPhoto("is not a valid data URL")
		}
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", invalidPhoto("is not valid base64")
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return nil, "", invalidPhoto(fmt.Sprintf("must be at most %d bytes", maxSize))
	}
	mt := mimetype.Detect(raw)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return nil, "", invalidPhoto("must be a JPEG or PNG image")
	}
	return raw, ext, nil
}

func invalidPhoto(msg string) error {
	return apperr.Validation("photo rejected", map[string]string{"photo_profile": msg})
}

// PhotoStore writes photos below Dir and returns URLs below BaseURL.
type PhotoStore struct {
	Dir     string
	BaseURL string
	MaxSize int64
	now     func() time.Time
}

func NewPhotoStore(dir, baseURL string, maxSize int64) *PhotoStore {
	return &PhotoStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxSize: maxSize, now: time.Now}
}

// SaveApplicationPhoto stores an encoded photo for userID's application to
// jobID and returns its public URL.
func (s *PhotoStore) SaveApplicationPhoto(userID, jobID, data string) (string, error) {
	raw, _, err := DecodeImage(data, s.MaxSize)
	if err != nil {
		return "", err
	}
	return s.Save(userID, jobID, raw)
}

// Save writes decoded image bytes as applications/{user}_{ref}_{unixms}.jpg
// (.png for PNG data). ref is the job id, or the capture session id for
// photos taken before an application exists.
func (s *PhotoStore) Save(userID, ref string, raw []byte) (string, error) {
	ext, ok := allowedTypes[mimetype.Detect(raw).String()]
	if !ok {
		return "", invalidPhoto("must be a JPEG or PNG image")
	}
	key := path.Join("applications", fmt.Sprintf("%s_%s_%d%s", userID, ref, s.now().UnixMilli(), ext))
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}

// Remove deletes a photo previously returned by Save. URLs outside the
// store and photos already gone are ignored.
func (s *PhotoStore) Remove(url string) error {
	key, ok := strings.CutPrefix(url, s.BaseURL+"/")
	if !ok {
		return nil
	}
	key = path.Clean(key)
	if !strings.HasPrefix(key, "applications/") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
