package textdb

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/props"
)

// stripExt removes a supported document extension from a name; other
// extensions are left alone so they stay part of the item id.
func stripExt(name string) string {
	ext := filepath.Ext(name)
	if slices.Contains(props.Extensions, ext) {
		return strings.TrimSuffix(name, ext)
	}

	return name
}

// hasSupportedExt reports whether name ends in one of the document
// extensions.
func hasSupportedExt(name string) bool {
	return slices.Contains(props.Extensions, filepath.Ext(name))
}

// hiddenName reports whether a single path component is dot-prefixed.
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// relativeTo normalizes item to a slash-separated path relative to root.
// Absolute paths are accepted as long as they stay inside root; anything
// escaping it fails with ErrInvalidPath.
func relativeTo(root, item string) (string, error) {
	if item == "" {
		return ".", nil
	}

	cleaned := filepath.ToSlash(filepath.Clean(item))
	if filepath.IsAbs(item) {
		rel, err := filepath.Rel(root, item)
		if err != nil {
			return "", data.ErrInvalidPath
		}
		cleaned = filepath.ToSlash(rel)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", data.ErrInvalidPath
	}

	return cleaned, nil
}
