package oss

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// ObjectKey builds a unique key under folder from an uploaded file name.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !extRe.MatchString(ext) {
		ext = ""
	}
	base := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	return path.Join(folder, uuid.NewString()[:8]+"-"+base+ext)
}
