package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TranscriptStore = (*Store)(nil)

// Store reads transcripts from a local directory tree laid out as
// root/<project key>/<conversation id><extension>.
type Store struct {
	root      string
	extension string
}

// New creates a transcript store. The root is passed through ResolvePath and
// an empty extension defaults to domain.DefaultExtension.
func New(root, extension string) *Store {
	if extension == "" {
		extension = domain.DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Store{
		root:      ResolvePath(root),
		extension: extension,
	}
}

// Root returns the resolved transcripts root directory.
func (s *Store) Root() string {
	return s.root
}

// Extension returns the transcript file extension.
func (s *Store) Extension() string {
	return s.extension
}

// ListProjects returns the visible directories directly under the root.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read root %s: %w", s.root, err)
	}

	var keys []string
	for _, entry := range entries {
		if isHidden(entry.Name()) {
			continue
		}
		if !s.isDir(entry) {
			continue
		}
		keys = append(keys, entry.Name())
	}
	return keys, nil
}

// ListTranscripts returns the transcript files directly inside a project.
func (s *Store) ListTranscripts(ctx context.Context, projectKey string) ([]domain.TranscriptFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(projectKey); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, projectKey)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project %s: %w", dir, err)
	}

	var files []domain.TranscriptFile
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) || filepath.Ext(name) != s.extension {
			continue
		}
		info, err := s.fileInfo(dir, entry)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, s.transcriptFile(projectKey, dir, info))
	}
	return files, nil
}

// StatTranscript describes root/projectKey/id<extension>.
func (s *Store) StatTranscript(ctx context.Context, projectKey, id string) (*domain.TranscriptFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(projectKey); err != nil {
		return nil, err
	}
	if err := validateKey(id); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, projectKey)
	path := filepath.Join(dir, id+s.extension)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat transcript %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat transcript %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("stat transcript %s: %w", path, domain.ErrNotFound)
	}

	file := s.transcriptFile(projectKey, dir, info)
	return &file, nil
}

// ReadTranscript returns the contents of a transcript file.
func (s *Store) ReadTranscript(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read transcript %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return data, nil
}

func (s *Store) transcriptFile(projectKey, dir string, info fs.FileInfo) domain.TranscriptFile {
	return domain.TranscriptFile{
		ProjectKey: projectKey,
		ID:         strings.TrimSuffix(info.Name(), s.extension),
		Path:       filepath.Join(dir, info.Name()),
		ModTime:    info.ModTime(),
		Size:       info.Size(),
	}
}

// isDir follows symlinks so linked project directories are listed.
func (s *Store) isDir(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, entry.Name()))
	return err == nil && info.IsDir()
}

func (s *Store) fileInfo(dir string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(filepath.Join(dir, entry.Name()))
	}
	return entry.Info()
}

// validateKey rejects keys that are not a single path element.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%q: %w", key, domain.ErrInvalidKey)
	}
	return nil
}
