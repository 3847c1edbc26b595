package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
)

var errMissingPath = errors.New("query parameter 'path' is required")

type writeRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

type createRequest struct {
	Dir     string `json:"dir" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
}

type renameRequest struct {
	Dir  string `json:"dir" binding:"required"`
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type transferRequest struct {
	Source string `json:"source" binding:"required"`
	Dest   string `json:"dest" binding:"required"`
	// Name defaults to the source's own name
	Name string `json:"name"`
}

func (r transferRequest) target() string {
	if r.Name != "" {
		return r.Name
	}
	return vfs.FileName(r.Source)
}

// fileSystem resolves the session and returns its tree
func (h *Handlers) fileSystem(c *gin.Context) (*vfs.FileSystem, bool) {
	s, ok := h.session(c)
	if !ok {
		return nil, false
	}
	return s.FileSystem(), true
}

// pathQuery reads the required ?path= parameter
func (h *Handlers) pathQuery(c *gin.Context) (string, bool) {
	p := c.Query("path")
	if p == "" {
		h.invalid(c, errMissingPath)
		return "", false
	}
	return p, true
}

// Stat describes one node
func (h *Handlers) Stat(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	p, ok := h.pathQuery(c)
	if !ok {
		return
	}
	info, err := fs.Stat(p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListDirectory lists a directory's children in insertion order
func (h *Handlers) ListDirectory(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	p, ok := h.pathQuery(c)
	if !ok {
		return
	}
	entries, err := fs.ListDirectory(p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": p, "entries": entries})
}

// ReadFile returns a file's content
func (h *Handlers) ReadFile(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	p, ok := h.pathQuery(c)
	if !ok {
		return
	}
	content, err := fs.ReadFile(p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": p, "content": content})
}

// Search globs the tree, e.g. ?pattern=home/**/*.txt
func (h *Handlers) Search(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	matches, err := fs.Glob(c.Query("pattern"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if matches == nil {
		matches = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"pattern": c.Query("pattern"), "matches": matches})
}

// Usage summarizes the tree
func (h *Handlers) Usage(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fs.Usage())
}

// WriteFile overwrites an existing file
func (h *Handlers) WriteFile(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	if err := fs.WriteFile(req.Path, req.Content); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": req.Path})
}

// CreateFile creates a file
func (h *Handlers) CreateFile(c *gin.Context) {
	h.create(c, func(fs *vfs.FileSystem, req createRequest) (vfs.Node, error) {
		return fs.CreateFile(req.Dir, req.Name, req.Content)
	})
}

// CreateDirectory creates a directory
func (h *Handlers) CreateDirectory(c *gin.Context) {
	h.create(c, func(fs *vfs.FileSystem, req createRequest) (vfs.Node, error) {
		return fs.CreateDirectory(req.Dir, req.Name)
	})
}

func (h *Handlers) create(c *gin.Context, fn func(*vfs.FileSystem, createRequest) (vfs.Node, error)) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	node, err := fn(fs, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

// Rename renames a node in place
func (h *Handlers) Rename(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	if err := fs.RenameNode(req.Dir, req.From, req.To); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": vfs.JoinPath(req.Dir, req.To)})
}

// Copy deep-copies a node
func (h *Handlers) Copy(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	node, err := fs.CopyNode(req.Source, req.Dest, req.target())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

// Move relocates a node
func (h *Handlers) Move(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	if err := fs.MoveNode(req.Source, vfs.ParentPath(req.Source), req.Dest, req.target()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": vfs.JoinPath(req.Dest, req.target())})
}

// DeleteNode removes a node and its subtree
func (h *Handlers) DeleteNode(c *gin.Context) {
	fs, ok := h.fileSystem(c)
	if !ok {
		return
	}
	p, ok := h.pathQuery(c)
	if !ok {
		return
	}
	if err := fs.DeleteNode(vfs.ParentPath(p), vfs.FileName(p)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": p})
}
