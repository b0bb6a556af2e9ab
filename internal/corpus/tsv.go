package corpus

import (
	"bufio"
	"io"
	"strings"
)

const maxLineBytes = 4 << 20

// FileStats describes how one source file was read.
type FileStats struct {
	Path          string         `json:"path"`
	Rows          int            `json:"rows"`
	Malformed     int            `json:"malformed"`
	HeaderSkipped bool           `json:"header_skipped"`
	Missing       map[string]int `json:"missing,omitempty"`
}

func (s *FileStats) missing(column string) {
	if s.Missing == nil {
		s.Missing = map[string]int{}
	}
	s.Missing[column]++
}

// readRows splits r into tab-separated rows and calls fn for each row that has
// exactly len(columns) fields. A leading row whose first field equals the first
// column name is treated as a header and every name in it must match. The
// first data row fixes the schema: a column count mismatch there is a
// SchemaError, later mismatches are counted as malformed and skipped. When
// maxSplit is true the last column absorbs any further tabs.
func readRows(r io.Reader, path string, columns []string, maxSplit bool, stats *FileStats, fn func([]string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	want := len(columns)
	line := 0
	seenData := false
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		var fields []string
		if maxSplit {
			fields = strings.SplitN(text, "\t", want)
		} else {
			fields = strings.Split(text, "\t")
		}
		if !seenData && !stats.HeaderSkipped && strings.EqualFold(strings.TrimSpace(fields[0]), columns[0]) {
			if err := checkHeader(fields, columns); err != nil {
				err.Path, err.Line = path, line
				return &DataLoadError{Path: path, Err: err}
			}
			stats.HeaderSkipped = true
			continue
		}
		if len(fields) != want {
			if !seenData {
				return &DataLoadError{Path: path, Err: &SchemaError{Path: path, Line: line, Expected: want, Got: len(fields)}}
			}
			stats.Malformed++
			continue
		}
		seenData = true
		stats.Rows++
		fn(fields)
	}
	if err := sc.Err(); err != nil {
		return &DataLoadError{Path: path, Err: err}
	}
	return nil
}

func checkHeader(fields, columns []string) *SchemaError {
	if len(fields) != len(columns) {
		return &SchemaError{Expected: len(columns), Got: len(fields)}
	}
	for i, f := range fields {
		if !strings.EqualFold(strings.TrimSpace(f), columns[i]) {
			return &SchemaError{Expected: len(columns), Got: len(fields), Column: strings.TrimSpace(f)}
		}
	}
	return nil
}
