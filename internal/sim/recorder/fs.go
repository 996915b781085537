package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type fsProvider struct {
	root string
}

// NewFSProvider stores flight logs under a local directory. It is the
// archive backend for runs without an object store endpoint.
func NewFSProvider(root string) Provider {
	return &fsProvider{root: root}
}

func (p *fsProvider) EnsureBucket(_ context.Context) error {
	return os.MkdirAll(p.root, 0o755)
}

func (p *fsProvider) Put(_ context.Context, objectKey string, data []byte, _ string) error {
	path := filepath.Join(p.root, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (p *fsProvider) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "file://" + filepath.Join(p.root, filepath.FromSlash(objectKey)), nil
}
