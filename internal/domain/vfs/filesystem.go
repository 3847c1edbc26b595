package vfs

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// FileSystem is an arena-backed tree of nodes rooted at "/"
type FileSystem struct {
	mu    sync.RWMutex
	nodes map[id.NodeID]*entry // Protected by mu
	root  id.NodeID            // Protected by mu
	clock clockwork.Clock
	newID func() id.NodeID
}

// Option configures a FileSystem
type Option func(*FileSystem)

// WithClock sets the clock used for created/modified timestamps
func WithClock(clock clockwork.Clock) Option {
	return func(fs *FileSystem) {
		fs.clock = clock
	}
}

// WithIDGenerator overrides node id generation
func WithIDGenerator(gen func() id.NodeID) Option {
	return func(fs *FileSystem) {
		fs.newID = gen
	}
}

// New creates a file store holding only an empty root directory
func New(opts ...Option) *FileSystem {
	fs := &FileSystem{
		nodes: make(map[id.NodeID]*entry),
		clock: clockwork.NewRealClock(),
		newID: id.NewNodeID,
	}
	for _, opt := range opts {
		opt(fs)
	}

	now := fs.clock.Now()
	root := &entry{node: Node{
		ID:       fs.newID(),
		Name:     RootPath,
		Kind:     KindDirectory,
		Created:  now,
		Modified: now,
	}}
	fs.nodes[root.node.ID] = root
	fs.root = root.node.ID
	return fs
}

// Resolve walks the tree from root. It reports false as soon as a segment is
// missing or a non-directory is reached while segments remain.
func (fs *FileSystem) Resolve(path string) (Node, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, ok := fs.lookup(path)
	if !ok {
		return Node{}, false
	}
	return e.node, true
}

// Exists reports whether path resolves to any node
func (fs *FileSystem) Exists(path string) bool {
	_, ok := fs.Resolve(path)
	return ok
}

// CreateFile creates a file named name under dirPath
func (fs *FileSystem) CreateFile(dirPath, name, content string) (Node, error) {
	return fs.create(dirPath, name, KindFile, content)
}

// CreateDirectory creates an empty directory named name under dirPath
func (fs *FileSystem) CreateDirectory(dirPath, name string) (Node, error) {
	return fs.create(dirPath, name, KindDirectory, "")
}

// WriteFile overwrites the content of an existing file. It never creates files.
func (fs *FileSystem) WriteFile(path, content string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.file(path)
	if err != nil {
		return err
	}
	e.node.Content = content
	e.node.Size = int64(len(content))
	e.node.Modified = fs.clock.Now()
	return nil
}

// ReadFile returns the content of the file at path. Directories are never readable.
func (fs *FileSystem) ReadFile(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	e, err := fs.file(path)
	if err != nil {
		return "", err
	}
	return e.node.Content, nil
}

// ListDirectory returns the immediate children of path in insertion order
func (fs *FileSystem) ListDirectory(path string) ([]Node, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, err := fs.directory(path)
	if err != nil {
		return nil, err
	}
	children := make([]Node, 0, len(dir.children))
	for _, childID := range dir.children {
		children = append(children, fs.nodes[childID].node)
	}
	return children, nil
}

// DeleteNode removes name from dirPath together with its whole subtree
func (fs *FileSystem) DeleteNode(dirPath, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, err := fs.directory(dirPath)
	if err != nil {
		return err
	}
	idx, child := fs.child(parent, name)
	if child == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, JoinPath(dirPath, name))
	}

	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	parent.node.Modified = fs.clock.Now()
	fs.release(child)
	return nil
}

// RenameNode renames oldName to newName inside dirPath, keeping its position
func (fs *FileSystem) RenameNode(dirPath, oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return fmt.Errorf("%w: %q", err, newName)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, err := fs.directory(dirPath)
	if err != nil {
		return err
	}
	_, child := fs.child(parent, oldName)
	if child == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, JoinPath(dirPath, oldName))
	}
	if _, taken := fs.child(parent, newName); taken != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, JoinPath(dirPath, newName))
	}

	child.node.Name = newName
	parent.node.Modified = fs.clock.Now()
	return nil
}

// CopyNode deep-copies the node at sourcePath into destDirPath under name.
// Every copied node gets a fresh id and fresh timestamps.
func (fs *FileSystem) CopyNode(sourcePath, destDirPath, name string) (Node, error) {
	if err := ValidateName(name); err != nil {
		return Node{}, fmt.Errorf("%w: %q", err, name)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	source, ok := fs.lookup(sourcePath)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNotFound, sourcePath)
	}
	dest, err := fs.directory(destDirPath)
	if err != nil {
		return Node{}, err
	}
	if _, taken := fs.child(dest, name); taken != nil {
		return Node{}, fmt.Errorf("%w: %s", ErrAlreadyExists, JoinPath(destDirPath, name))
	}

	now := fs.clock.Now()
	copied := fs.clone(source, dest.node.ID, now)
	copied.node.Name = name
	dest.children = append(dest.children, copied.node.ID)
	dest.node.Modified = now
	return copied.node, nil
}

// MoveNode copies sourcePath into destDirPath as name, then deletes the source
// from sourceParentPath. The two steps are not atomic: if the delete fails the
// copy is left in place and the error is returned.
func (fs *FileSystem) MoveNode(sourcePath, sourceParentPath, destDirPath, name string) error {
	if fs.isWithin(destDirPath, sourcePath) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTarget, sourcePath, destDirPath)
	}
	if _, err := fs.CopyNode(sourcePath, destDirPath, name); err != nil {
		return err
	}
	if err := fs.DeleteNode(sourceParentPath, FileName(sourcePath)); err != nil {
		return fmt.Errorf("copied to %s but source not removed: %w", JoinPath(destDirPath, name), err)
	}
	return nil
}

// Root returns the root directory node
func (fs *FileSystem) Root() Node {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.nodes[fs.root].node
}

// Len returns the number of nodes in the tree, root included
func (fs *FileSystem) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return len(fs.nodes)
}

func (fs *FileSystem) create(dirPath, name string, kind Kind, content string) (Node, error) {
	if err := ValidateName(name); err != nil {
		return Node{}, fmt.Errorf("%w: %q", err, name)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, err := fs.directory(dirPath)
	if err != nil {
		return Node{}, err
	}
	if _, taken := fs.child(parent, name); taken != nil {
		return Node{}, fmt.Errorf("%w: %s", ErrAlreadyExists, JoinPath(dirPath, name))
	}

	now := fs.clock.Now()
	e := &entry{
		node: Node{
			ID:       fs.newID(),
			Name:     name,
			Kind:     kind,
			Created:  now,
			Modified: now,
		},
		parent: parent.node.ID,
	}
	if kind == KindFile {
		e.node.Content = content
		e.node.Size = int64(len(content))
	}

	fs.nodes[e.node.ID] = e
	parent.children = append(parent.children, e.node.ID)
	parent.node.Modified = now
	return e.node, nil
}

// lookup resolves an absolute path (must hold lock)
func (fs *FileSystem) lookup(path string) (*entry, bool) {
	if !IsAbs(path) {
		return nil, false
	}

	current := fs.nodes[fs.root]
	for _, segment := range Segments(path) {
		if !current.isDir() {
			return nil, false
		}
		_, next := fs.child(current, segment)
		if next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

// directory resolves path and requires a directory (must hold lock)
func (fs *FileSystem) directory(path string) (*entry, error) {
	e, ok := fs.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if !e.isDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return e, nil
}

// file resolves path and requires a file (must hold lock)
func (fs *FileSystem) file(path string) (*entry, error) {
	e, ok := fs.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if e.isDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, path)
	}
	return e, nil
}

// child finds a direct child by name (must hold lock)
func (fs *FileSystem) child(dir *entry, name string) (int, *entry) {
	for i, childID := range dir.children {
		if c := fs.nodes[childID]; c.node.Name == name {
			return i, c
		}
	}
	return -1, nil
}

// clone copies e and its subtree into fresh, not yet linked entries (must hold lock)
func (fs *FileSystem) clone(e *entry, parent id.NodeID, now time.Time) *entry {
	copied := &entry{node: e.node, parent: parent}
	copied.node.ID = fs.newID()
	copied.node.Created = now
	copied.node.Modified = now

	// Snapshot the child list first: dest may live inside the copied subtree.
	children := append([]id.NodeID(nil), e.children...)
	fs.nodes[copied.node.ID] = copied
	for _, childID := range children {
		c := fs.clone(fs.nodes[childID], copied.node.ID, now)
		copied.children = append(copied.children, c.node.ID)
	}
	return copied
}

// release drops e and its subtree from the arena (must hold lock)
func (fs *FileSystem) release(e *entry) {
	stack := []*entry{e}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, childID := range top.children {
			stack = append(stack, fs.nodes[childID])
		}
		delete(fs.nodes, top.node.ID)
	}
}

// isWithin reports whether path resolves to ancestor or one of its descendants
func (fs *FileSystem) isWithin(path, ancestor string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	target, ok := fs.lookup(path)
	if !ok {
		return false
	}
	anc, ok := fs.lookup(ancestor)
	if !ok || !anc.isDir() {
		return false
	}
	for cur := target; cur != nil; cur = fs.nodes[cur.parent] {
		if cur == anc {
			return true
		}
		if cur.node.ID == fs.root {
			break
		}
	}
	return false
}
