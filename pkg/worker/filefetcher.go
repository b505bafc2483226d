package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikosa/p2pflow/pkg/credentials"
	"github.com/nikosa/p2pflow/pkg/models"
	"github.com/nikosa/p2pflow/pkg/platform"
)

// FileFetcher serves statements that were already downloaded, skipping the
// automation driver entirely. It looks for the canonical statement file
// name below Dir, falling back to any single file whose name starts with
// the lower-cased platform name.
type FileFetcher struct {
	Dir string
}

func (f *FileFetcher) Run(_ context.Context, desc *platform.Descriptor, _ credentials.Credentials, dateRange models.DateRange) (string, error) {
	canonical := filepath.Join(f.Dir, desc.StatementFileName(dateRange))
	if _, err := os.Stat(canonical); err == nil {
		return canonical, nil
	}

	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return "", fmt.Errorf("reading statement directory: %w", err)
	}

	prefix := strings.ToLower(desc.Name)
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(strings.ToLower(e.Name()), prefix) {
			matches = append(matches, filepath.Join(f.Dir, e.Name()))
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no statement file for %s in %s", desc.Name, f.Dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d candidate statements for %s in %s", len(matches), desc.Name, f.Dir)
	}
}
