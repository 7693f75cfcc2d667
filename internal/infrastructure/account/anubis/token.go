package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// principalCacheKey keys the principal cache by token digest so raw bearer
// tokens never sit in memory longer than a request.
func principalCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "principal:" + hex.EncodeToString(sum[:])
}

// resolveURL joins path onto baseURL. An absolute path wins outright.
func resolveURL(baseURL, path string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return base
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
