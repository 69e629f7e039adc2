// Package cursor provides opaque page tokens for keyset pagination over
// row ids.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor is the decoded state of a page token.
type Cursor struct {
	// After is the last id of the previous page; the next page starts
	// strictly after it.
	After string `json:"after"`
	// ScopeHash ties the token to the table it was issued for.
	ScopeHash string `json:"scope,omitempty"`
}

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// New returns a cursor continuing after id within scope.
func New(after, scope string) Cursor {
	return Cursor{After: after, ScopeHash: HashScope(scope)}
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.After == "" {
		return Cursor{}, fmt.Errorf("cursor has no position")
	}
	return c, nil
}

// HashScope computes a short hash of scope for cursor validation.
// Returns empty string for empty scope.
func HashScope(scope string) string {
	if scope == "" {
		return ""
	}
	h := sha256.Sum256([]byte(scope))
	return hex.EncodeToString(h[:8])
}

// ValidateScope reports an error when c was issued for another scope.
func ValidateScope(c Cursor, scope string) error {
	if c.ScopeHash != HashScope(scope) {
		return fmt.Errorf("token was issued for a different table")
	}
	return nil
}
