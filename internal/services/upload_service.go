package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImagesPrefix is the URL path the upload directory is served under.
const ImagesPrefix = "/images/"

type StoredFile struct {
	Name string
	URL  string
}

type UploadService struct {
	dir    string
	logger zerolog.Logger
}

func NewUploadService(dir string, logger zerolog.Logger) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &UploadService{dir: dir, logger: logger}, nil
}

func (s *UploadService) Dir() string {
	return s.dir
}

// Save writes every file under a fresh "<uuid>-<original name>" and returns
// the URLs they are reachable at. On error nothing written so far is kept.
func (s *UploadService) Save(baseURL string, files []*multipart.FileHeader) ([]StoredFile, error) {
	stored := make([]StoredFile, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + "-" + sanitizeFilename(fh.Filename)
		if err := s.write(name, fh); err != nil {
			s.Remove(stored)
			s.logger.Error().Err(err).Str("file", fh.Filename).Msg("Error storing upload")
			return nil, err
		}
		stored = append(stored, StoredFile{
			Name: name,
			URL:  strings.TrimRight(baseURL, "/") + ImagesPrefix + name,
		})
	}
	return stored, nil
}

func (s *UploadService) Remove(files []StoredFile) {
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.dir, f.Name)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", f.Name).Msg("Failed to remove upload")
		}
	}
}

func (s *UploadService) write(name string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	return dst.Close()
}

// PublicBaseURL is the scheme and host the client used to reach us.
func PublicBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
