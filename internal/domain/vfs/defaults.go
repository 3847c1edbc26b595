package vfs

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

//go:embed seed/default.yaml
var defaultSeed []byte

// HomePath is the default home directory of the desktop user
const HomePath = "/home/user"

// seedNode is one entry of a YAML seed tree
type seedNode struct {
	Name     string     `yaml:"name"`
	Type     Kind       `yaml:"type"`
	Content  string     `yaml:"content"`
	Children []seedNode `yaml:"children"`
}

// Default builds the tree every new session starts from
func Default(opts ...Option) (*FileSystem, error) {
	return Seed(defaultSeed, opts...)
}

// Seed builds a tree from a YAML document describing the root directory
func Seed(data []byte, opts ...Option) (*FileSystem, error) {
	var root seedNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if root.Type != KindDirectory {
		return nil, fmt.Errorf("%w: seed root must be a directory", ErrCorruptSnapshot)
	}

	fs := New(opts...)
	if err := fs.plant(RootPath, root.Children); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileSystem) plant(dir string, nodes []seedNode) error {
	for _, n := range nodes {
		switch n.Type {
		case KindFile:
			if _, err := fs.CreateFile(dir, n.Name, n.Content); err != nil {
				return fmt.Errorf("failed to seed %s: %w", JoinPath(dir, n.Name), err)
			}
		case KindDirectory:
			if _, err := fs.CreateDirectory(dir, n.Name); err != nil {
				return fmt.Errorf("failed to seed %s: %w", JoinPath(dir, n.Name), err)
			}
			if err := fs.plant(JoinPath(dir, n.Name), n.Children); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown seed type %q for %s", ErrCorruptSnapshot, n.Type, n.Name)
		}
	}
	return nil
}
