package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"wampcore/pkg/common/compress"
)

// FileSystem stores capture archives as objects under <runtime>/objects,
// compressing them with the configured compressor.
type FileSystem struct {
	fs          afero.Fs
	runtimePath string
	objectsPath string
	compressor  compress.Compressor
}

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithFs swaps the backing filesystem, e.g. afero.NewMemMapFs() in tests.
func WithFs(f afero.Fs) Option { return func(fsys *FileSystem) { fsys.fs = f } }

// WithRuntimePath sets the runtime directory (default ".runtime").
func WithRuntimePath(p string) Option { return func(fsys *FileSystem) { fsys.runtimePath = p } }

// WithCompressor sets the compressor applied on write.
func WithCompressor(c compress.Compressor) Option {
	return func(fsys *FileSystem) { fsys.compressor = c }
}

// New creates the runtime and objects directories and returns the store.
func New(opts ...Option) (*FileSystem, error) {
	fsys := &FileSystem{
		fs:          afero.NewOsFs(),
		runtimePath: ".runtime",
		compressor:  compress.NewDefaultCompressor(),
	}
	for _, opt := range opts {
		opt(fsys)
	}
	fsys.objectsPath = filepath.Join(fsys.runtimePath, "objects")

	if err := fsys.fs.MkdirAll(fsys.objectsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directories: %w", err)
	}
	return fsys, nil
}

// GetFs returns the underlying Afero filesystem
func (fsys *FileSystem) GetFs() afero.Fs { return fsys.fs }

// GetRuntimePath returns the runtime directory path
func (fsys *FileSystem) GetRuntimePath() string { return fsys.runtimePath }

// GetObjectsPath returns the objects directory path
func (fsys *FileSystem) GetObjectsPath() string { return fsys.objectsPath }

// GetCompressor returns the current compressor
func (fsys *FileSystem) GetCompressor() compress.Compressor { return fsys.compressor }

func (fsys *FileSystem) objectPath(name string) (string, error) {
	clean := filepath.Clean(name)
	if name == "" || clean != filepath.Base(clean) || strings.HasPrefix(clean, ".") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(fsys.objectsPath, clean), nil
}

// WriteObject writes data to the objects directory, compressing it unless it
// already carries a compression header.
func (fsys *FileSystem) WriteObject(name string, data []byte) error {
	p, err := fsys.objectPath(name)
	if err != nil {
		return err
	}
	if compress.IsCompressed(data) == compress.None {
		data, err = fsys.compressor.Compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress data: %w", err)
		}
	}
	return afero.WriteFile(fsys.fs, p, data, 0644)
}

// ReadObjectRaw returns an object as stored on disk.
func (fsys *FileSystem) ReadObjectRaw(name string) ([]byte, error) {
	p, err := fsys.objectPath(name)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(fsys.fs, p)
}

// ReadObject reads an object and undoes its compression.
func (fsys *FileSystem) ReadObject(name string) ([]byte, error) {
	data, err := fsys.ReadObjectRaw(name)
	if err != nil {
		return nil, err
	}
	return compress.Decode(data)
}

// DeleteObject deletes a file from the objects directory
func (fsys *FileSystem) DeleteObject(name string) error {
	p, err := fsys.objectPath(name)
	if err != nil {
		return err
	}
	return fsys.fs.Remove(p)
}

// ListObjects lists object names, sorted.
func (fsys *FileSystem) ListObjects() ([]string, error) {
	entries, err := afero.ReadDir(fsys.fs, fsys.objectsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ObjectExists checks if an object file exists
func (fsys *FileSystem) ObjectExists(name string) (bool, error) {
	p, err := fsys.objectPath(name)
	if err != nil {
		return false, err
	}
	return afero.Exists(fsys.fs, p)
}

// GetObjectInfo returns file info for an object
func (fsys *FileSystem) GetObjectInfo(name string) (os.FileInfo, error) {
	p, err := fsys.objectPath(name)
	if err != nil {
		return nil, err
	}
	return fsys.fs.Stat(p)
}

// GetObjectSize returns the size of an object file (compressed size on disk)
func (fsys *FileSystem) GetObjectSize(name string) (int64, error) {
	info, err := fsys.GetObjectInfo(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CleanObjects removes all files from the objects directory
func (fsys *FileSystem) CleanObjects() error {
	entries, err := afero.ReadDir(fsys.fs, fsys.objectsPath)
	if err != nil {
		return fmt.Errorf("failed to read objects directory: %w", err)
	}
	for _, entry := range entries {
		entryPath := filepath.Join(fsys.objectsPath, entry.Name())
		if err := fsys.fs.RemoveAll(entryPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}
