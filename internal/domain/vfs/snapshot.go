package vfs

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// SnapshotNode is the serialized form of a node and its subtree.
// Timestamps are Unix milliseconds; children keep insertion order.
type SnapshotNode struct {
	ID       id.NodeID      `json:"id"`
	Name     string         `json:"name"`
	Kind     Kind           `json:"type"`
	Content  *string        `json:"content,omitempty"`
	Children []SnapshotNode `json:"children,omitempty"`
	Created  int64          `json:"created"`
	Modified int64          `json:"modified"`
	Size     int64          `json:"size"`
}

// Snapshot captures the whole tree
func (fs *FileSystem) Snapshot() SnapshotNode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.snapshot(fs.nodes[fs.root])
}

func (fs *FileSystem) snapshot(e *entry) SnapshotNode {
	out := SnapshotNode{
		ID:       e.node.ID,
		Name:     e.node.Name,
		Kind:     e.node.Kind,
		Created:  e.node.Created.UnixMilli(),
		Modified: e.node.Modified.UnixMilli(),
		Size:     e.node.Size,
	}
	if e.isDir() {
		out.Children = make([]SnapshotNode, 0, len(e.children))
		for _, childID := range e.children {
			out.Children = append(out.Children, fs.snapshot(fs.nodes[childID]))
		}
	} else {
		content := e.node.Content
		out.Content = &content
	}
	return out
}

// Restore replaces the whole tree with snapshot. An invalid snapshot is
// rejected with ErrCorruptSnapshot and the current tree is left untouched.
func (fs *FileSystem) Restore(snapshot SnapshotNode) error {
	if snapshot.Kind != KindDirectory || snapshot.Name != RootPath {
		return fmt.Errorf("%w: root must be a directory named %q", ErrCorruptSnapshot, RootPath)
	}

	nodes := make(map[id.NodeID]*entry)
	if err := load(nodes, snapshot, "", true); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.nodes = nodes
	fs.root = snapshot.ID
	return nil
}

func load(nodes map[id.NodeID]*entry, s SnapshotNode, parent id.NodeID, isRoot bool) error {
	if s.ID == "" {
		return fmt.Errorf("%w: node %q has no id", ErrCorruptSnapshot, s.Name)
	}
	if _, dup := nodes[s.ID]; dup {
		return fmt.Errorf("%w: duplicate id %s", ErrCorruptSnapshot, s.ID)
	}
	if !isRoot {
		if err := ValidateName(s.Name); err != nil {
			return fmt.Errorf("%w: %v %q", ErrCorruptSnapshot, err, s.Name)
		}
	}

	e := &entry{
		node: Node{
			ID:       s.ID,
			Name:     s.Name,
			Kind:     s.Kind,
			Created:  time.UnixMilli(s.Created),
			Modified: time.UnixMilli(s.Modified),
			Size:     s.Size,
		},
		parent: parent,
	}

	switch s.Kind {
	case KindFile:
		if len(s.Children) > 0 {
			return fmt.Errorf("%w: file %q has children", ErrCorruptSnapshot, s.Name)
		}
		if s.Content != nil {
			e.node.Content = *s.Content
		}
		e.node.Size = int64(len(e.node.Content))
	case KindDirectory:
		if s.Content != nil {
			return fmt.Errorf("%w: directory %q has content", ErrCorruptSnapshot, s.Name)
		}
		seen := make(map[string]bool, len(s.Children))
		for _, child := range s.Children {
			if seen[child.Name] {
				return fmt.Errorf("%w: duplicate name %q in %q", ErrCorruptSnapshot, child.Name, s.Name)
			}
			seen[child.Name] = true
			e.children = append(e.children, child.ID)
		}
	default:
		return fmt.Errorf("%w: unknown node type %q", ErrCorruptSnapshot, s.Kind)
	}

	nodes[s.ID] = e
	for _, child := range s.Children {
		if err := load(nodes, child, s.ID, false); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes a snapshot as JSON
func Marshal(snapshot SnapshotNode) ([]byte, error) {
	data, err := sonic.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON snapshot
func Unmarshal(data []byte) (SnapshotNode, error) {
	var snapshot SnapshotNode
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		return SnapshotNode{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return snapshot, nil
}

// Load builds a file store from an encoded snapshot
func Load(data []byte, opts ...Option) (*FileSystem, error) {
	snapshot, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	fs := New(opts...)
	if err := fs.Restore(snapshot); err != nil {
		return nil, err
	}
	return fs, nil
}
