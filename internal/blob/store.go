// Package blob stores thumbnail images in remote object storage and resolves
// their public URLs.
package blob

import (
	"io"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is the object-storage contract the topic lifecycle depends on.
// Upload writes the object and makes it publicly readable; PublicURL resolves
// the browser-facing URL for a key; Remove deletes objects best-effort style
// (callers decide whether a failure is fatal); KeyFromURL recovers the object
// key from a previously resolved public URL, reporting false when the URL does
// not belong to this store.
type Store interface {
	Upload(key string, body io.Reader) error
	PublicURL(key string) string
	Remove(keys []string) error
	KeyFromURL(url string) (string, bool)
}

// NewKey builds a collision-free object key under the given prefix, keeping
// the original file's extension so content types stay recognizable.
func NewKey(prefix, originalName string) string {
	return path.Join(prefix, uuid.NewString()+filepath.Ext(originalName))
}
