// Package validate lints documents against structural templates. A
// template is itself a document: nested objects prescribe structure,
// scalar values prescribe the expected type, and a non-empty string value
// doubles as a regular expression the checked value must match.
package validate

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/mwantia/textdb/data"
)

// Kind classifies a single validation finding.
type Kind int

const (
	// KindMissingKey marks a template key absent from the document.
	KindMissingKey Kind = iota
	// KindNotObject marks a value that should be an object but is not.
	KindNotObject
	// KindWrongType marks a scalar whose type differs from the template's.
	KindWrongType
	// KindRegexMismatch marks a string rejected by the template pattern.
	KindRegexMismatch
	// KindExtraKey marks a document key the template does not allow.
	KindExtraKey
	// KindMissingFile marks a referenced file that does not exist.
	KindMissingFile
)

func (k Kind) String() string {
	switch k {
	case KindMissingKey:
		return "missing key"
	case KindNotObject:
		return "not an object"
	case KindWrongType:
		return "wrong type"
	case KindRegexMismatch:
		return "pattern mismatch"
	case KindExtraKey:
		return "key not allowed"
	case KindMissingFile:
		return "missing file"
	default:
		return "unknown"
	}
}

// Problem is one validation finding at a slash-separated document path.
type Problem struct {
	Kind   Kind
	Path   string
	Detail string
}

func (p Problem) String() string {
	if p.Detail == "" {
		return fmt.Sprintf("%s: %s", p.Path, p.Kind)
	}

	return fmt.Sprintf("%s: %s (%s)", p.Path, p.Kind, p.Detail)
}

// Report collects the findings of one validation run. An empty report
// means the document is valid.
type Report []Problem

func (r Report) Valid() bool {
	return len(r) == 0
}

// Options steers the strictness of a schema check.
type Options struct {
	// Greedy rejects document keys the template does not mention.
	Greedy bool
	// TypeCheck compares scalar types against the template values.
	TypeCheck bool
}

// Schema checks a document against a template and reports every
// deviation. It never stops at the first finding.
func Schema(doc, template *data.Document, opts Options) Report {
	var report Report
	checkSchema(&report, "", doc, template, opts)

	if opts.Greedy {
		checkExtraKeys(&report, "", doc, template)
	}

	return report
}

func checkSchema(report *Report, root string, doc, template *data.Document, opts Options) {
	for _, key := range template.Keys() {
		want, _ := template.Get(key)
		path := root + "/" + key

		got, ok := doc.Get(key)
		if !ok {
			*report = append(*report, Problem{Kind: KindMissingKey, Path: path})
			continue
		}

		if wantDoc, isDoc := want.(*data.Document); isDoc {
			gotDoc, ok := got.(*data.Document)
			if !ok {
				*report = append(*report, Problem{Kind: KindNotObject, Path: path})
				continue
			}
			checkSchema(report, path, gotDoc, wantDoc, opts)
			continue
		}

		if opts.TypeCheck && !typeMatches(got, want) {
			*report = append(*report, Problem{
				Kind:   KindWrongType,
				Path:   path,
				Detail: fmt.Sprintf("expected %T, got %T", want, got),
			})
			continue
		}

		if pattern, isStr := want.(string); isStr && pattern != "" {
			value, ok := got.(string)
			if !ok {
				continue
			}
			if matched, err := regexp.MatchString("^(?:"+pattern+")", value); err != nil || !matched {
				*report = append(*report, Problem{
					Kind:   KindRegexMismatch,
					Path:   path,
					Detail: fmt.Sprintf("%q does not match %q", value, pattern),
				})
			}
		}
	}
}

func checkExtraKeys(report *Report, root string, doc, template *data.Document) {
	for _, key := range doc.Keys() {
		path := root + "/" + key

		want, ok := template.Get(key)
		if !ok {
			*report = append(*report, Problem{Kind: KindExtraKey, Path: path})
			continue
		}

		gotDoc, gotOk := doc.Get(key)
		if nested, isDoc := gotDoc.(*data.Document); gotOk && isDoc {
			if wantDoc, isDoc := want.(*data.Document); isDoc {
				checkExtraKeys(report, path, nested, wantDoc)
			}
		}
	}
}

// typeMatches compares value classes rather than concrete Go types, so
// the two parser stacks' integer widths are interchangeable. A float
// template accepts integers; a null value passes any template.
func typeMatches(got, want any) bool {
	if got == nil {
		return true
	}

	gotKind := scalarKind(got)
	wantKind := scalarKind(want)

	if wantKind == reflect.Float64 && gotKind == reflect.Int64 {
		return true
	}

	return gotKind == wantKind
}

func scalarKind(value any) reflect.Kind {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.Int64
	case reflect.Float32, reflect.Float64:
		return reflect.Float64
	default:
		return reflect.ValueOf(value).Kind()
	}
}
