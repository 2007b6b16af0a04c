package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openkraft/svcaudit/internal/domain"
)

const appDir = "svcaudit"

// FileHistory implements domain.AuditHistory using JSON file storage. Files
// live outside the audited tree, one per base path, so audits stay read-only.
type FileHistory struct {
	dir string
}

// New stores history under dir. An empty dir means the user cache directory.
func New(dir string) *FileHistory {
	return &FileHistory{dir: dir}
}

func (h *FileHistory) Save(basePath string, entry domain.AuditEntry) error {
	entries, err := h.Load(basePath)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	fp, err := h.file(basePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0o644)
}

func (h *FileHistory) Load(basePath string) ([]domain.AuditEntry, error) {
	fp, err := h.file(basePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", fp, err)
	}
	return entries, nil
}

// file maps a base path to its history file, keyed by the absolute path.
func (h *FileHistory) file(basePath string) (string, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return "", err
	}
	dir := h.dir
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locating cache dir: %w", err)
		}
		dir = filepath.Join(cache, appDir, "history")
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".json"), nil
}
