package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openkraft/svcaudit/internal/domain"
)

// noiseDirs are never descended into.
var noiseDirs = map[string]bool{
	"node_modules":  true,
	"vendor":        true,
	"__pycache__":   true,
	"venv":          true,
	"site-packages": true,
}

// ServiceDiscoverer implements domain.ServiceDiscoverer by walking the
// filesystem. A directory is a service root when it directly holds at least
// one of the template's marker items. Service roots are leaves: the walk does
// not look for nested services inside them, except for the base path itself.
type ServiceDiscoverer struct{}

func New() *ServiceDiscoverer {
	return &ServiceDiscoverer{}
}

// Discover returns the service roots under basePath as slash-separated paths
// relative to it, sorted lexicographically. The base path is reported as ".".
// Unreadable subtrees below the base are skipped and reported in Skipped.
func (d *ServiceDiscoverer) Discover(basePath string, tmpl *domain.StructureTemplate) (domain.Discovery, error) {
	var none domain.Discovery
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return none, err
	}
	info, err := os.Stat(absBase)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return none, domain.NewAuditError(domain.CodeServicePathNotFound, basePath, err)
		}
		return none, domain.NewAuditError(domain.CodeInspectionError, basePath, err)
	}
	if !info.IsDir() {
		return none, domain.NewAuditError(domain.CodeInspectionError, basePath,
			fmt.Errorf("%s is not a directory", basePath))
	}

	markers := tmpl.Markers()
	var services []string
	var skipped []domain.AuditError

	err = filepath.WalkDir(absBase, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absBase {
				return walkErr
			}
			skipped = append(skipped, *domain.NewAuditError(domain.CodeInspectionError, relSlash(absBase, path),
				fmt.Errorf("skipped during discovery: %w", walkErr)))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}

		isBase := path == absBase
		if !isBase && isNoise(entry.Name()) {
			return filepath.SkipDir
		}
		if !IsServiceRoot(path, markers) {
			return nil
		}

		services = append(services, relSlash(absBase, path))
		if isBase {
			return nil
		}
		return filepath.SkipDir
	})
	if err != nil {
		return none, fmt.Errorf("walking %s: %w", basePath, err)
	}

	sort.Strings(services)
	sort.SliceStable(skipped, func(i, j int) bool { return skipped[i].Service < skipped[j].Service })
	return domain.Discovery{Services: services, Skipped: skipped}, nil
}

func relSlash(absBase, path string) string {
	rel, err := filepath.Rel(absBase, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// IsServiceRoot reports whether dir directly holds any marker item in its
// declared kind.
func IsServiceRoot(dir string, markers []domain.RequiredFile) bool {
	for _, m := range markers {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(m.Name)))
		if err != nil {
			continue
		}
		if info.IsDir() == m.IsDirectory() {
			return true
		}
	}
	return false
}

// isNoise covers version-control metadata, dependency caches and every other
// hidden directory.
func isNoise(name string) bool {
	return noiseDirs[name] || strings.HasPrefix(name, ".")
}
