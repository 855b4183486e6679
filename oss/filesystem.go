package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalFileSystem stores objects under a root folder.
type LocalFileSystem struct {
	Folder    string
	PublicURL string
}

// NewFileSystem creates a new local file system storage, creating folder if needed.
func NewFileSystem(folder, publicURL string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage folder: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage folder: %w", err)
	}
	return &LocalFileSystem{Folder: abs, PublicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// fullPath resolves p under the root folder, rejecting escapes.
func (fs *LocalFileSystem) fullPath(p string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(p))
	if clean == "/" {
		return "", errors.New("path cannot be empty")
	}
	return filepath.Join(fs.Folder, filepath.FromSlash(clean)), nil
}

// Put stores the reader into the given path.
func (fs *LocalFileSystem) Put(ctx context.Context, p string, r io.Reader, _ int64, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fp, err := fs.fullPath(p)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directories for file path: %w", err)
	}
	dst, err := os.Create(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fp)
		return nil, fmt.Errorf("failed to copy data to file: %w", err)
	}
	now := time.Now()
	return &Object{
		Path:         p,
		Name:         filepath.Base(fp),
		Size:         n,
		ContentType:  contentType,
		URL:          fs.url(p),
		LastModified: &now,
	}, nil
}

// GetStream gets a file as a stream.
func (fs *LocalFileSystem) GetStream(_ context.Context, p string) (io.ReadCloser, error) {
	fp, err := fs.fullPath(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete deletes the file at p.
func (fs *LocalFileSystem) Delete(_ context.Context, p string) error {
	fp, err := fs.fullPath(p)
	if err != nil {
		return err
	}
	if err := os.Remove(fp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists checks if the file exists.
func (fs *LocalFileSystem) Exists(_ context.Context, p string) (bool, error) {
	fp, err := fs.fullPath(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fp)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// GetURL returns the public URL of p.
func (fs *LocalFileSystem) GetURL(_ context.Context, p string) (string, error) {
	if _, err := fs.fullPath(p); err != nil {
		return "", err
	}
	return fs.url(p), nil
}

func (fs *LocalFileSystem) url(p string) string {
	return fs.PublicURL + path.Clean("/"+filepath.ToSlash(p))
}
