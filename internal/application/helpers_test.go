package application_test

import (
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	goodDockerfile = "FROM python:3.12-slim\nWORKDIR /app\nCOPY requirements.txt .\nRUN pip install -r requirements.txt\nCOPY app/ app/\nEXPOSE 8000\nCMD [\"python\", \"-m\", \"app\"]\n"
	goodCompose    = "services:\n  api:\n    build: .\n    image: orders:1.2.0\n    restart: unless-stopped\n"
	goodGitignore  = ".env\n__pycache__/\n*.pyc\nnode_modules/\nbuild/\ndist/\n.pytest_cache/\n*.log\n"
	goodTest       = "def test_ok():\n    assert True\n"
)

// completeService is a service that satisfies every default requirement.
func completeService() map[string]string {
	return map[string]string{
		"Dockerfile":         goodDockerfile,
		"docker-compose.yml": goodCompose,
		".gitignore":         goodGitignore,
		"tests/test_api.py":  goodTest,
	}
}

// scenarioService has one quality issue per required item.
func scenarioService() map[string]string {
	return map[string]string{
		"Dockerfile":         "FROM python:3.12-slim\nCOPY requirements.txt .\nCMD [\"python\", \"app.py\"]\n",
		"docker-compose.yml": "services:\n  api:\n    build: .\n",
		".gitignore":         ".env\n__pycache__/\n*.pyc\nnode_modules/\nbuild/\ndist/\n.pytest_cache/\n",
		"tests/test_api.py":  goodTest,
		"tests/helpers.py":   "def make():\n    return 1\n",
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

type fileState struct {
	sum     [32]byte
	modTime time.Time
}

// fingerprint records the content hash and mtime of every file under root.
func fingerprint(t *testing.T, root string) map[string]fileState {
	t.Helper()
	states := make(map[string]fileState)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		states[path] = fileState{sum: sha256.Sum256(data), modTime: info.ModTime()}
		return nil
	})
	require.NoError(t, err)
	return states
}
