// file: internals/helpers/oss/local_storage.go
package helper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage menyimpan objek di disk; dipakai saat dev / tanpa OSS.
// Direktori Root diekspos oleh server di PublicBase (app.Static).
type LocalStorage struct {
	Root       string
	PublicBase string
}

func NewLocalStorage(root, publicBase string) *LocalStorage {
	return &LocalStorage{Root: root, PublicBase: strings.TrimRight(publicBase, "/")}
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.Root, clean), nil
}

func (l *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *LocalStorage) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return l.PublicBase + "/" + key
}

func (l *LocalStorage) KeyFromURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", ErrEmptyURL
	}
	if l.PublicBase != "" && strings.HasPrefix(publicURL, l.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, l.PublicBase+"/"), nil
	}
	return keyAfterHost(publicURL)
}
