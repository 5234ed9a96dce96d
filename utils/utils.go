package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"path"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// Min returns the smaller of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RandomAlphabetString returns a random lower-case string of the given length.
func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// TextToMd5Hash returns the hex md5 digest of the given text.
func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GetUrlExtNameWithDot returns the extension of the url's path including the
// leading dot, stripped of any query string. Empty string if there is none.
func GetUrlExtNameWithDot(url string) string {
	ext := path.Ext(url)
	if idx := strings.Index(ext, "?"); idx != -1 {
		ext = ext[:idx]
	}
	return ext
}
