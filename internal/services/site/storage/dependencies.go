// Package storage loads site content from a file tree.
//
// The store never touches the os, path or locale packages directly: it
// reads through a Dependencies bundle built once at startup and passed in
// by the caller.
package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/text/language"
)

// FileSystem is the read-only file access the store needs.
type FileSystem interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

// PathJoiner joins path elements for the matching FileSystem.
type PathJoiner interface {
	Join(elem ...string) string
}

// LocaleFunc returns the active locale for a request.
type LocaleFunc func(context.Context) language.Tag

// Dependencies groups the platform accessors used by the store.
type Dependencies struct {
	System FileSystem
	Path   PathJoiner
	Locale LocaleFunc
}

// Validate reports missing accessors.
func (d Dependencies) Validate() error {
	var errs []error
	if d.System == nil {
		errs = append(errs, errors.New("file system is required"))
	}
	if d.Path == nil {
		errs = append(errs, errors.New("path joiner is required"))
	}
	if d.Locale == nil {
		errs = append(errs, errors.New("locale accessor is required"))
	}
	return errors.Join(errs...)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }

// FSFileSystem adapts an fs.FS, such as an embed.FS or fstest.MapFS.
type FSFileSystem struct {
	FS fs.FS
}

func (f FSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return fs.ReadDir(f.FS, name) }
func (f FSFileSystem) ReadFile(name string) ([]byte, error)       { return fs.ReadFile(f.FS, name) }

// FilePath joins OS paths.
type FilePath struct{}

func (FilePath) Join(elem ...string) string { return filepath.Join(elem...) }

// SlashPath joins slash-separated fs.FS paths.
type SlashPath struct{}

func (SlashPath) Join(elem ...string) string { return path.Join(elem...) }
