package vfs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
)

// DirectoryMimeType is reported by Stat for directories
const DirectoryMimeType = "inode/directory"

// Info describes a node together with its location and detected content type
// and charset
type Info struct {
	Node
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Charset  string `json:"charset,omitempty"`
	Children int    `json:"children,omitempty"`
}

// Usage summarizes the tree
type Usage struct {
	Files       int   `json:"files"`
	Directories int   `json:"directories"`
	Bytes       int64 `json:"bytes"`
}

// Stat returns the node at path with its MIME type
func (fs *FileSystem) Stat(path string) (Info, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, ok := fs.lookup(path)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	info := Info{Node: e.node, Path: JoinPath(path)}
	if e.isDir() {
		info.MimeType = DirectoryMimeType
		info.Children = len(e.children)
		info.Content = ""
		return info, nil
	}
	content := []byte(e.node.Content)
	info.MimeType = mimetype.Detect(content).String()
	info.Charset = detectCharset(content)
	return info, nil
}

// detectCharset guesses the encoding of non-empty content
func detectCharset(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	best, err := chardet.NewTextDetector().DetectBest(content)
	if err != nil {
		return ""
	}
	return best.Charset
}

// Glob returns the sorted absolute paths matching pattern. Relative patterns are
// anchored at root and the root itself never matches.
func (fs *FileSystem) Glob(pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var matches []string
	fs.walk(fs.nodes[fs.root], "", func(rel string, _ *entry) {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, "/"+rel)
		}
	})
	sort.Strings(matches)
	return matches, nil
}

// Usage counts files, directories (root included) and content bytes
func (fs *FileSystem) Usage() Usage {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var u Usage
	for _, e := range fs.nodes {
		if e.isDir() {
			u.Directories++
			continue
		}
		u.Files++
		u.Bytes += e.node.Size
	}
	return u
}

// walk visits every descendant of e with its path relative to root (must hold lock)
func (fs *FileSystem) walk(e *entry, rel string, visit func(rel string, e *entry)) {
	for _, childID := range e.children {
		c := fs.nodes[childID]
		childRel := c.node.Name
		if rel != "" {
			childRel = rel + "/" + c.node.Name
		}
		visit(childRel, c)
		if c.isDir() {
			fs.walk(c, childRel, visit)
		}
	}
}
