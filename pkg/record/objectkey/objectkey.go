// Package objectkey names stored objects and maps between object keys and
// public URLs.
package objectkey

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// Image slots. The slot name is embedded in the object key.
const (
	SlotMain      = "main"
	SlotThumbnail = "thumbnail"
)

// New builds a key of the form {unixMillis}-{slot}.{ext}, with ext taken from
// the original filename. Uniqueness is only probabilistic: two uploads for the
// same slot in the same millisecond collide.
func New(slot, filename string, now time.Time) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), slot, ext)
}

// FromURL derives the object key from a public object URL. Keys are flat, so
// the key is the last path segment.
func FromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	key := path.Base(u.Path)
	if key == "" || key == "." || key == "/" {
		return "", fmt.Errorf("no object key in url %q", rawURL)
	}
	return key, nil
}
