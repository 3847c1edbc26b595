package vfs

import "strings"

// RootPath is the path of the root directory
const RootPath = "/"

// Segments splits a path into its non-empty components
func Segments(path string) []string {
	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, part := range raw {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// JoinPath joins path parts into an absolute path.
// Zero non-empty parts yields the root path.
func JoinPath(parts ...string) string {
	var segments []string
	for _, part := range parts {
		segments = append(segments, Segments(part)...)
	}
	if len(segments) == 0 {
		return RootPath
	}
	return "/" + strings.Join(segments, "/")
}

// ParentPath returns the parent of path. The parent of root is root.
func ParentPath(path string) string {
	segments := Segments(path)
	if len(segments) <= 1 {
		return RootPath
	}
	return "/" + strings.Join(segments[:len(segments)-1], "/")
}

// FileName returns the last component of path, or "/" for root
func FileName(path string) string {
	segments := Segments(path)
	if len(segments) == 0 {
		return RootPath
	}
	return segments[len(segments)-1]
}

// IsAbs reports whether path is absolute
func IsAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// ValidateName checks that name can be stored as a single directory entry
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, "/\x00"):
		return ErrInvalidName
	}
	return nil
}
