// Package identifier implements namespaced resource identifiers such as
// "minecraft:stone" or "mymod:textures/gui/menu.png".
package identifier

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace is assumed when a parsed identifier has no namespace.
const DefaultNamespace = "minecraft"

const separator = ':'

// ErrInvalid is returned (wrapped) for malformed identifiers.
var ErrInvalid = errors.New("invalid identifier")

// Identifier is a namespace plus a path. The zero value is not valid.
type Identifier struct {
	Namespace string
	Path      string
}

// New validates and returns namespace:path.
func New(namespace, path string) (Identifier, error) {
	if !validNamespace(namespace) {
		return Identifier{}, fmt.Errorf("%w: non [a-z0-9_.-] character in namespace of %s:%s", ErrInvalid, namespace, path)
	}
	if !validPath(path) {
		return Identifier{}, fmt.Errorf("%w: non [a-z0-9/._-] character in path of %s:%s", ErrInvalid, namespace, path)
	}
	return Identifier{Namespace: namespace, Path: path}, nil
}

// Parse reads "namespace:path" or a bare "path" in DefaultNamespace.
// A leading ':' also selects DefaultNamespace.
func Parse(value string) (Identifier, error) {
	namespace, path := DefaultNamespace, value
	if idx := strings.IndexByte(value, separator); idx >= 0 {
		path = value[idx+1:]
		if idx > 0 {
			namespace = value[:idx]
		}
	}
	return New(namespace, path)
}

// MustParse is Parse for identifiers known at compile time.
func MustParse(value string) Identifier {
	id, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the unset zero value.
func (id Identifier) IsZero() bool {
	return id.Namespace == "" && id.Path == ""
}

// String returns the canonical namespace:path form.
func (id Identifier) String() string {
	return id.Namespace + string(separator) + id.Path
}

func validNamespace(namespace string) bool {
	if namespace == "" {
		return false
	}
	for i := 0; i < len(namespace); i++ {
		if !validNamespaceChar(namespace[i]) {
			return false
		}
	}
	return true
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for i := 0; i < len(path); i++ {
		if c := path[i]; c != '/' && !validNamespaceChar(c) {
			return false
		}
	}
	return true
}

func validNamespaceChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
