package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/metalagman/todo/internal/task"
	"github.com/spf13/afero"
)

// DefaultPath is the tasks file used when nothing else is configured.
const DefaultPath = "tasks.txt"

// File loads and saves the whole task list at a single path.
type File struct {
	fs    afero.Fs
	path  string
	codec *Codec
}

// NewFile creates a task file backed by fsys.
func NewFile(fsys afero.Fs, path string, codec *Codec) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{fs: fsys, path: path, codec: codec}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load reads all tasks. A missing file yields no tasks; any other failure is
// logged and also yields no tasks.
func (f *File) Load() []task.Task {
	file, err := f.fs.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.codec.logger.Debug().Str("path", f.path).Msg("tasks file not found, starting empty")
			return []task.Task{}
		}
		f.codec.logger.Warn().Err(err).Str("path", f.path).Msg("could not load tasks")
		return []task.Task{}
	}
	defer func() { _ = file.Close() }()

	tasks, err := f.codec.Decode(file)
	if err != nil {
		f.codec.logger.Warn().Err(err).Str("path", f.path).Msg("could not load tasks")
		return []task.Task{}
	}
	f.codec.logger.Debug().Str("path", f.path).Int("tasks", len(tasks)).Msg("tasks loaded")
	return tasks
}

// Save rewrites the file with tasks.
func (f *File) Save(tasks []task.Task) error {
	var buf bytes.Buffer
	if err := f.codec.Encode(&buf, tasks); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tasks dir: %w", err)
		}
	}
	if err := afero.WriteFile(f.fs, f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}
