package domain

import (
	"net/url"
	"path"
	"strings"
)

// Namespace is the storage prefix owned by one subject:
// Root + "/" + url.PathEscape(subject). Escaping keeps a subject containing "/"
// from reaching into another subject's prefix.
type Namespace struct {
	prefix string
}

// NewNamespace returns the namespace of subject under root.
func NewNamespace(root, subject string) Namespace {
	root = strings.Trim(root, "/")
	escaped := url.PathEscape(subject)
	if root == "" {
		return Namespace{prefix: escaped}
	}
	return Namespace{prefix: root + "/" + escaped}
}

// Prefix returns the namespace directory.
func (n Namespace) Prefix() string {
	return n.prefix
}

// ResolveFile validates a caller-supplied file path. It must lie strictly under
// the namespace after cleaning; otherwise ErrForbiddenPath is returned, even when
// nothing exists at that path.
func (n Namespace) ResolveFile(p string) (string, error) {
	cleaned, err := clean(p)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(cleaned, n.prefix+"/") {
		return "", ErrForbiddenPath
	}
	return cleaned, nil
}

// ResolveDir validates a caller-supplied directory. Empty means the namespace
// itself.
func (n Namespace) ResolveDir(p string) (string, error) {
	if strings.Trim(p, "/") == "" {
		return n.prefix, nil
	}
	cleaned, err := clean(p)
	if err != nil {
		return "", err
	}
	if cleaned != n.prefix && !strings.HasPrefix(cleaned, n.prefix+"/") {
		return "", ErrForbiddenPath
	}
	return cleaned, nil
}

// Join resolves dir and appends a plain file name.
func (n Namespace) Join(dir, fileName string) (string, error) {
	if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, "/\\") ||
		hasControl(fileName) {
		return "", ErrInvalidPath
	}
	resolved, err := n.ResolveDir(dir)
	if err != nil {
		return "", err
	}
	return resolved + "/" + fileName, nil
}

// clean rejects malformed input and returns the cleaned path without leading or
// trailing slashes. ".." segments are resolved, so traversal ends up outside the
// namespace and fails the prefix check.
func clean(p string) (string, error) {
	if p == "" || strings.ContainsRune(p, '\\') || hasControl(p) {
		return "", ErrInvalidPath
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "", ErrForbiddenPath
	}
	return cleaned, nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
