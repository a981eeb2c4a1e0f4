package catalog

import (
	"fmt"

	"github.com/mwantia/textdb/data"
)

// DefaultCategory is the universal fallback category.
const DefaultCategory = "all"

// Mode describes how a validity record changes the set of applicable
// files relative to the previous record of its category.
type Mode int

const (
	// ModeAppend adds files to the previous set. Default.
	ModeAppend Mode = iota
	// ModeReset replaces the previous set entirely. The first record of
	// a category is always treated as a reset.
	ModeReset
	// ModeRemove drops files from the previous set.
	ModeRemove
	// ModeReplace swaps exactly one file for another.
	ModeReplace
)

func (m Mode) String() string {
	switch m {
	case ModeAppend:
		return "append"
	case ModeReset:
		return "reset"
	case ModeRemove:
		return "remove"
	case ModeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

func parseMode(value string) (Mode, error) {
	switch value {
	case "", "append":
		return ModeAppend, nil
	case "reset":
		return ModeReset, nil
	case "remove":
		return ModeRemove, nil
	case "replace":
		return ModeReplace, nil
	default:
		return 0, fmt.Errorf("%w: unknown validity mode %q", data.ErrFormat, value)
	}
}

// Record is one parsed validity rule: from ValidFrom onward the files in
// Apply are combined into the category's running file set according to
// Mode. Immutable once parsed.
type Record struct {
	Timestamp string
	ValidFrom int64
	Category  string
	Mode      Mode
	Apply     []string

	// Scalar marks records whose apply value was a single plain string
	// rather than a list. Resolutions reproducing such a record verbatim
	// return a single-file result.
	Scalar bool
}

// ParseRecord builds a Record from a raw decoded validity entry.
func ParseRecord(raw map[string]any) (Record, error) {
	record := Record{
		Category: DefaultCategory,
	}

	timestamp, ok := raw["valid_from"].(string)
	if !ok {
		return record, fmt.Errorf("%w: validity record without valid_from: %v", data.ErrFormat, raw)
	}

	validFrom, err := data.ParseTimestamp(timestamp)
	if err != nil {
		return record, err
	}
	record.Timestamp = timestamp
	record.ValidFrom = validFrom

	// "select" is the historical name of the category field
	for _, field := range []string{"category", "select"} {
		if value, ok := raw[field]; ok {
			category, ok := value.(string)
			if !ok {
				return record, fmt.Errorf("%w: validity record category must be a string: %v", data.ErrFormat, value)
			}
			record.Category = category
			break
		}
	}

	if value, ok := raw["mode"]; ok {
		mode, ok := value.(string)
		if !ok {
			return record, fmt.Errorf("%w: validity record mode must be a string: %v", data.ErrFormat, value)
		}
		record.Mode, err = parseMode(mode)
		if err != nil {
			return record, err
		}
	}

	switch apply := raw["apply"].(type) {
	case string:
		record.Apply = []string{apply}
		record.Scalar = true
	case []any:
		record.Apply = make([]string, 0, len(apply))
		for _, el := range apply {
			name, ok := el.(string)
			if !ok {
				return record, fmt.Errorf("%w: validity record apply must contain strings: %v", data.ErrFormat, el)
			}
			record.Apply = append(record.Apply, name)
		}
	default:
		return record, fmt.Errorf("%w: validity record without apply: %v", data.ErrFormat, raw)
	}

	return record, nil
}
