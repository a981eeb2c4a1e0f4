package validate

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mwantia/textdb/catalog"
	"github.com/mwantia/textdb/props"
)

// Validity checks one validity specification file: it must build into a
// consistent catalog, and every file it references must resolve somewhere
// under its directory. Structural defects fail with an error; unresolvable
// references are collected in the report.
func Validity(path string) (Report, error) {
	if _, err := catalog.Read(path); err != nil {
		return nil, err
	}

	records, err := catalog.ReadRecords(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)

	var report Report
	for _, record := range records {
		for _, name := range record.Apply {
			found, err := referenceExists(dir, name)
			if err != nil {
				return nil, err
			}
			if !found {
				report = append(report, Problem{
					Kind:   KindMissingFile,
					Path:   "/" + name,
					Detail: "referenced from " + record.Timestamp,
				})
			}
		}
	}

	return report, nil
}

// referenceExists resolves an apply reference the way queries do: the
// first file anywhere under dir matching the name exactly, or, for a bare
// name, matching its stem against any supported document extension.
func referenceExists(dir, name string) (bool, error) {
	bare := !slices.Contains(props.Extensions, filepath.Ext(name))

	found := false
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		base := d.Name()
		ext := filepath.Ext(base)
		if base == name || (bare && slices.Contains(props.Extensions, ext) && strings.TrimSuffix(base, ext) == name) {
			found = true
			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}
