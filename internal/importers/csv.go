package importers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/exporters"
)

// ErrUnsupportedVersion is returned for documents written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported csv format version")

// MalformedRowError describes one skipped input row.
type MalformedRowError struct {
	Line   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Reason)
}

// ParsedRow is a movie read from one CSV row.
type ParsedRow struct {
	Line  int
	Movie entities.Movie
}

// utf8BOM is written by some spreadsheet tools ahead of the header.
var utf8BOM = []byte("\ufeff")

// ParseMoviesCSV parses a movie CSV document. It returns the parsed rows,
// one MalformedRowError per skipped row, and a fatal error when the document
// itself cannot be read (missing header, unsupported version).
//
// A malformed record that runs over several physical lines, such as one with
// an unclosed quote, is reported at its first line and parsing resumes on the
// line after it.
func ParseMoviesCSV(r io.Reader) ([]ParsedRow, []*MalformedRowError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	data, lineOffset, err := readVersionLine(data)
	if err != nil {
		return nil, nil, err
	}

	starts := lineStarts(data)
	from, base := 0, 0 // byte offset and line count where the current reader begins
	reader := newCSVReader(data)

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int, len(header))
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := headerIndex[exporters.ColumnTitle]; !ok {
		return nil, nil, fmt.Errorf("missing required header: %s", exporters.ColumnTitle)
	}

	var rows []ParsedRow
	var rowErrors []*MalformedRowError

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		// start is the 1-based line within data where the record begins
		start := base + 1
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				start = base + parseErr.StartLine
			}
		} else {
			l, _ := reader.FieldPos(0)
			start = base + l
			if isBlank(record) {
				continue
			}
		}
		line := start + lineOffset

		var reason string
		switch {
		case err != nil:
			reason = err.Error()
		case len(record) != len(header):
			reason = fmt.Sprintf("expected %d fields, got %d", len(header), len(record))
		}
		if reason != "" {
			rowErrors = append(rowErrors, &MalformedRowError{Line: line, Reason: reason})

			end := from + int(reader.InputOffset())
			if err != nil || end > lineEnd(starts, start, len(data)) {
				if start >= len(starts) {
					break
				}
				from, base = starts[start], start
				reader = newCSVReader(data[from:])
			}
			continue
		}

		movie, reason := parseMovie(record, headerIndex)
		if reason != "" {
			rowErrors = append(rowErrors, &MalformedRowError{Line: line, Reason: reason})
			continue
		}
		rows = append(rows, ParsedRow{Line: line, Movie: movie})
	}

	return rows, rowErrors, nil
}

func newCSVReader(data []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Checked per row against the header
	reader.LazyQuotes = true    // Legacy positional exports never quoted
	return reader
}

// lineStarts returns the byte offset of every line in data; starts[i] is
// where line i+1 begins.
func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineEnd is the offset just past the newline ending the 1-based line.
func lineEnd(starts []int, line, size int) int {
	if line < len(starts) {
		return starts[line]
	}
	return size
}

// readVersionLine strips an optional "# mediatracker-csv vN" first line and
// returns the remaining data and how many lines it consumed.
func readVersionLine(data []byte) ([]byte, int, error) {
	if len(data) == 0 || data[0] != '#' {
		return data, 0, nil
	}

	first, rest, _ := bytes.Cut(data, []byte("\n"))
	line := strings.TrimSpace(string(first))

	if strings.HasPrefix(line, exporters.CSVVersionPrefix) {
		version, convErr := strconv.Atoi(strings.TrimPrefix(line, exporters.CSVVersionPrefix))
		if convErr != nil {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, line)
		}
		if version > exporters.CSVFormatVersion {
			return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		}
	}
	return rest, 1, nil
}

func parseMovie(record []string, headerIndex map[string]int) (entities.Movie, string) {
	m := entities.Movie{
		Title:    getCSVValue(record, headerIndex, exporters.ColumnTitle),
		Director: getCSVValue(record, headerIndex, exporters.ColumnDirector),
		Body:     getCSVValue(record, headerIndex, exporters.ColumnBody),
		Tagline:  getCSVValue(record, headerIndex, exporters.ColumnTagline),
		Note:     getCSVValue(record, headerIndex, exporters.ColumnNote),
		Poster:   getCSVValue(record, headerIndex, exporters.ColumnPoster),
	}

	ints := []struct {
		column string
		dst    *int
	}{
		{exporters.ColumnYear, &m.Year},
		{exporters.ColumnRuntime, &m.Runtime},
		{exporters.ColumnRating, &m.Rating},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(getCSVValue(record, headerIndex, f.column))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return m, fmt.Sprintf("invalid %s %q", f.column, raw)
		}
		*f.dst = v
	}
	if err := entities.ValidateRating(m.Rating); err != nil {
		return m, err.Error()
	}

	bools := []struct {
		column string
		dst    *bool
	}{
		{exporters.ColumnOwnPhysical, &m.OwnPhysical},
		{exporters.ColumnOwnDigital, &m.OwnDigital},
		{exporters.ColumnWatchlist, &m.Watchlist},
		{exporters.ColumnCompleted, &m.Completed},
	}
	for _, f := range bools {
		raw := strings.TrimSpace(getCSVValue(record, headerIndex, f.column))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return m, fmt.Sprintf("invalid %s %q", f.column, raw)
		}
		*f.dst = v
	}

	return m, ""
}

// getCSVValue safely gets a value from a CSV record by header name.
func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
