package scanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openkraft/svcaudit/internal/domain"
)

const maxReadSize = 1 << 20 // 1MiB cap for file reads.

// FileScanner implements domain.ServiceScanner on the local filesystem.
// It only ever opens files for reading.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Snapshot observes every required item of tmpl under servicePath.
func (s *FileScanner) Snapshot(servicePath string, tmpl *domain.StructureTemplate) (*domain.ServiceSnapshot, error) {
	info, err := os.Stat(servicePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewAuditError(domain.CodeServicePathNotFound, servicePath, err)
		}
		return nil, domain.NewAuditError(domain.CodeInspectionError, servicePath, err)
	}
	if !info.IsDir() {
		return nil, domain.NewAuditError(domain.CodeInspectionError, servicePath,
			fmt.Errorf("%s is not a directory", servicePath))
	}

	snap := &domain.ServiceSnapshot{
		Path:  servicePath,
		Items: make([]domain.ItemSnapshot, 0, len(tmpl.RequiredFiles)),
	}
	for _, item := range tmpl.RequiredFiles {
		_, hasProfile := tmpl.Profile(item.Name)
		snap.Items = append(snap.Items, observe(servicePath, item, hasProfile))
	}
	return snap, nil
}

func observe(root string, item domain.RequiredFile, needContent bool) domain.ItemSnapshot {
	obs := domain.ItemSnapshot{Name: item.Name}
	path := filepath.Join(root, filepath.FromSlash(item.Name))

	if _, err := os.Lstat(path); err != nil {
		return obs
	}

	info, err := os.Stat(path)
	if err != nil {
		// The entry exists but cannot be followed, e.g. a broken symlink.
		obs.Present = true
		markUnreadable(&obs, err)
		return obs
	}
	if info.IsDir() != item.IsDirectory() {
		return obs
	}

	if item.IsDirectory() {
		observeDirectory(path, item, &obs)
		return obs
	}

	obs.Present = true
	if needContent {
		content, err := readCapped(path)
		if err != nil {
			markUnreadable(&obs, err)
			return obs
		}
		obs.Content = content
	}
	return obs
}

func observeDirectory(path string, item domain.RequiredFile, obs *domain.ItemSnapshot) {
	entries, err := os.ReadDir(path)
	if err != nil {
		obs.Present = true
		markUnreadable(obs, err)
		return
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if len(item.MustContain) == 0 || matchesAny(e.Name(), item.MustContain) {
			obs.Children = append(obs.Children, e.Name())
		}
	}
	obs.Present = len(item.MustContain) == 0 || len(obs.Children) > 0
}

func matchesAny(name string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

func markUnreadable(obs *domain.ItemSnapshot, err error) {
	obs.Unreadable = true
	obs.ReadError = err.Error()
}

// readCapped reads at most maxReadSize bytes of path.
func readCapped(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxReadSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
