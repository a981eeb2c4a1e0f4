package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mwantia/textdb/data"
)

// ReadRecords parses a validity specification file into its raw record
// stream, in file order. Supported forms are line-delimited JSON
// (".jsonl") and a YAML sequence (".yaml"/".yml").
func ReadRecords(path string) ([]Record, error) {
	switch filepath.Ext(path) {
	case ".jsonl":
		return readJSONLines(path)
	case ".yaml", ".yml":
		return readYAMLSequence(path)
	default:
		return nil, fmt.Errorf("%w: unsupported validity file format %s", data.ErrParse, path)
	}
}

func readJSONLines(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}
	defer file.Close()

	var records []Record

	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		value, err := oj.ParseString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", data.ErrParse, path, line, err)
		}

		raw, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s line %d is not an object", data.ErrParse, path, line)
		}

		record, err := ParseRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", data.ErrParse, path, err)
	}

	return records, nil
}

func readYAMLSequence(path string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, path)
	}

	var sequence []map[string]any
	if err := yaml.Unmarshal(content, &sequence); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", data.ErrParse, path, err)
	}

	records := make([]Record, 0, len(sequence))
	for _, raw := range sequence {
		record, err := ParseRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
