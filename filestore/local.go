package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes uploads under a directory that gin serves statically.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Store(ctx context.Context, data []byte, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	// URL ที่หน้าเว็บใช้แสดงรูป เช่น "/uploads/20250102-id.jpg"
	return l.baseURL + "/" + name, nil
}
