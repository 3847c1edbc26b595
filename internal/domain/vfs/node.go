package vfs

import (
	"time"

	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// Kind distinguishes files from directories. It never changes after creation.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Node is a copy of one file or directory entry. Mutating it does not touch the store.
type Node struct {
	ID       id.NodeID `json:"id"`
	Name     string    `json:"name"`
	Kind     Kind      `json:"type"`
	Content  string    `json:"content,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// IsDir reports whether the node is a directory
func (n Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// entry is the arena cell that owns a node and its links
type entry struct {
	node     Node
	parent   id.NodeID
	children []id.NodeID
}

func (e *entry) isDir() bool {
	return e.node.Kind == KindDirectory
}
