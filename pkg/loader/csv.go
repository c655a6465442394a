package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var separatorCandidates = []rune{',', ';', '|', '\t'}

func loadCSV(path string, opts Options) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	text, err := decodeBytes(raw, opts.Charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}

	sep := opts.Separator
	if sep == 0 {
		sep = detectSeparator(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeaders, path)
	}

	headers := rows[0]
	records := make([]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeBytes returns the file content as UTF-8 text. Without an
// explicit charset, valid UTF-8 passes through and anything else is
// read as Windows-1252, which covers the usual spreadsheet exports.
func decodeBytes(raw []byte, charset string) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	switch strings.ToLower(charset) {
	case "":
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		return charmap.Windows1252.NewDecoder().String(string(raw))
	case "utf-8", "utf8":
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("content is not valid UTF-8")
		}
		return string(raw), nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return charmap.Windows1252.NewDecoder().String(string(raw))
	default:
		return "", fmt.Errorf("unknown charset %q", charset)
	}
}

// detectSeparator picks the candidate occurring most often in the first
// non-empty line, defaulting to a comma on a tie or no occurrences.
func detectSeparator(text string) rune {
	var line string
	for l := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best := ','
	bestCount := 0
	for _, candidate := range separatorCandidates {
		if n := strings.Count(line, string(candidate)); n > bestCount {
			best = candidate
			bestCount = n
		}
	}
	return best
}
