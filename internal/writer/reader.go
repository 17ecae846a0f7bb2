package writer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"antmart/pkg/errors"
	"antmart/pkg/models"
)

// ReadCSV returns the header and data rows of a CSV file
func ReadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path) // #nosec G304 - paths come from the resolved layout
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return DecodeCSV(f)
}

// DecodeCSV splits CSV input into header and data rows
func DecodeCSV(in io.Reader) ([]string, [][]string, error) {
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("missing header row")
	}
	return records[0], records[1:], nil
}

// ReadJSONL reads one event per line
func ReadJSONL(path string) (models.Events, error) {
	f, err := os.Open(path) // #nosec G304 - paths come from the resolved layout
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeJSONL(f)
}

// DecodeJSONL decodes newline-delimited events, skipping blank lines
func DecodeJSONL(in io.Reader) (models.Events, error) {
	events := models.Events{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e models.Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, e)
	}
	return events, scanner.Err()
}

// MaxID returns the largest integer in the named column of a CSV file.
// A file with no data rows yields 0.
func MaxID(path, column string) (int64, error) {
	header, rows, err := ReadCSV(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeReadFailure, fmt.Sprintf("failed to read %s", path)).
			WithContext("path", path)
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, errors.New(errors.ErrCodeReadFailure, fmt.Sprintf("column %s not found in %s", column, path)).
			WithContext("path", path)
	}

	var max int64
	for i, r := range rows {
		if idx >= len(r) {
			continue
		}
		v, err := strconv.ParseInt(r[idx], 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeReadFailure, fmt.Sprintf("row %d of %s has invalid %s", i+1, path, column)).
				WithContext("path", path)
		}
		if v > max {
			max = v
		}
	}
	return max, nil
}
