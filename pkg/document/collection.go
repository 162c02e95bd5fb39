package document

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the on-disk encoding of a collection.
type Format string

// Supported collection formats.
const (
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatJSONL:
		return FormatJSONL, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported collection format %q", raw)
	}
}

// WriteCollection serializes documents to path in the given format:
// newline-delimited JSON (one object per document, in emission order) or a
// single indented JSON array. Best effort: whatever is in memory is written.
func WriteCollection(docs []Document, path string, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create collection file %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		payload, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal collection: %w", err)
		}
		if _, err := f.Write(payload); err != nil {
			return fmt.Errorf("write collection %s: %w", path, err)
		}
	case FormatJSONL:
		w := bufio.NewWriter(f)
		enc := json.NewEncoder(w)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode document %s: %w", doc.URL, err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush collection %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported collection format %q", format)
	}

	return f.Sync()
}

// ReadCollection loads a collection written in either format. The format is
// sniffed from the first non-space byte: a JSON array opens with '[', while
// JSONL records open with '{'.
func ReadCollection(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var docs []Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("decode collection array %s: %w", path, err)
		}
		return docs, nil
	}

	var docs []Document
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return nil, fmt.Errorf("decode document line %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan collection %s: %w", path, err)
	}
	return docs, nil
}
