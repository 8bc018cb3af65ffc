package storage

import (
	"context"
	"io/fs"

	"golang.org/x/text/language"

	"github.com/louisbranch/notebook/internal/platform/requestctx"
)

// ContextLocale returns a LocaleFunc reading the request locale from context
// and falling back to fallback.
func ContextLocale(fallback language.Tag) LocaleFunc {
	return func(ctx context.Context) language.Tag {
		if tag, ok := requestctx.LocaleFromContext(ctx); ok {
			return tag
		}
		return fallback
	}
}

// NewDependencies builds the disk-backed bundle used in production.
func NewDependencies(fallback language.Tag) Dependencies {
	return Dependencies{
		System: OSFileSystem{},
		Path:   FilePath{},
		Locale: ContextLocale(fallback),
	}
}

// NewFSDependencies builds a bundle over an fs.FS.
func NewFSDependencies(fsys fs.FS, fallback language.Tag) Dependencies {
	return Dependencies{
		System: FSFileSystem{FS: fsys},
		Path:   SlashPath{},
		Locale: ContextLocale(fallback),
	}
}
