// Package oss stores resume files on the local filesystem or an
// S3-compatible object store behind a single Interface.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Interface defines object storage operations.
type Interface interface {
	// Put uploads r to path. size may be -1 when unknown.
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) (*Object, error)

	// GetStream returns a readable stream. Caller closes it.
	GetStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a URL under which the object can be fetched.
	GetURL(ctx context.Context, path string) (string, error)
}

// Object represents metadata about a stored object.
type Object struct {
	Path         string
	Name         string
	Size         int64
	ContentType  string
	URL          string
	LastModified *time.Time
}

// Config holds configuration for object storage providers.
type Config struct {
	Provider  string // filesystem or s3
	Path      string // local root folder for filesystem
	ID        string
	Secret    string
	Region    string
	Bucket    string
	Endpoint  string // custom endpoint for S3-compatible services
	PublicURL string // base URL of served objects
}

// Validate checks if the configuration is valid and sets default values where applicable.
func (c *Config) Validate() error {
	switch c.Provider {
	case "filesystem", "local":
		if c.Path == "" {
			c.Path = "./uploads"
		}
		if c.PublicURL == "" {
			c.PublicURL = "/files"
		}
	case "s3":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" {
			return errors.New("id, secret, and bucket are required for S3")
		}
		if c.Region == "" {
			c.Region = "us-east-1"
		}
	case "":
		return errors.New("storage provider is required")
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}
	return nil
}

// NewStorage creates a storage instance based on the provided configuration.
func NewStorage(ctx context.Context, c *Config) (Interface, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	switch c.Provider {
	case "s3":
		return NewS3Adapter(ctx, c)
	default:
		return NewFileSystem(c.Path, c.PublicURL)
	}
}
