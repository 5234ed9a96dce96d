// Package media stores uploaded images (post attachments, avatars) and hands
// back publicly fetchable URLs for use in posts and profiles.
package media

import (
	"io"
)

// Store persists uploaded image bytes under a content-derived key.
type Store interface {
	Save(r io.Reader, ext string) (key string, err error)
	GetUrlFromKey(key string) string
	CleanUp()
}
