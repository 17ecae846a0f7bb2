// Package writer persists generated tables to the raw landing area and the
// seed directory read by the transformation tool.
package writer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"antmart/internal/common"
	"antmart/internal/config"
	"antmart/internal/generator"
	"antmart/pkg/errors"
	"antmart/pkg/models"
)

// Writer writes every table to two destinations. The two writes are not
// transactional: a failure on the second leaves the first in place.
type Writer struct {
	layout *config.Layout
	logger zerolog.Logger
}

// New creates a writer for the given layout
func New(layout *config.Layout, logger zerolog.Logger) *Writer {
	return &Writer{layout: layout, logger: logger}
}

// Result records the files produced by a write
type Result struct {
	Table string
	Rows  int
	Paths []string
}

// WriteDataset writes users, products, orders, campaigns and events, stopping
// at the first failure. Files written before the failure are kept.
func (w *Writer) WriteDataset(d *generator.Dataset) ([]Result, error) {
	results := make([]Result, 0, len(d.Tables())+1)
	for _, t := range d.Tables() {
		res, err := w.WriteTable(t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	res, err := w.WriteEvents(d.Events)
	if err != nil {
		return results, err
	}
	return append(results, res), nil
}

// WriteTable writes identical CSV content to <raw_batch>/<name>.csv and
// <seeds>/<name>.csv
func (w *Writer) WriteTable(t models.Table) (Result, error) {
	res := Result{Table: t.Name(), Rows: t.Len()}
	for _, dest := range []string{config.DestRawBatch, config.DestSeeds} {
		path := filepath.Join(w.layout.MustDir(dest), t.Name()+".csv")
		if err := writeFileAtomic(path, func(out io.Writer) error { return EncodeCSV(out, t) }); err != nil {
			return res, errors.WriteFailure(path, err).WithContext("table", t.Name())
		}
		res.Paths = append(res.Paths, path)
	}

	w.logger.Info().Str("table", t.Name()).Int("rows", t.Len()).Strs("paths", res.Paths).Msg("table written")
	return res, nil
}

// WriteEvents writes the event seed as CSV to both destinations and as JSONL
// under the raw events seed directory
func (w *Writer) WriteEvents(events models.Events) (Result, error) {
	res, err := w.WriteTable(events)
	if err != nil {
		return res, err
	}

	path := filepath.Join(w.layout.MustDir(config.DestRawEventsSeed), events.Name()+".jsonl")
	if err := writeFileAtomic(path, func(out io.Writer) error { return EncodeJSONL(out, events) }); err != nil {
		return res, errors.WriteFailure(path, err).WithContext("table", events.Name())
	}
	res.Paths = append(res.Paths, path)

	w.logger.Info().Str("path", path).Int("rows", len(events)).Msg("event records written")
	return res, nil
}

// EncodeCSV writes a header line followed by one line per row
func EncodeCSV(out io.Writer, t models.Table) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// EncodeJSONL writes one JSON object per line. Null fields are omitted.
func EncodeJSONL(out io.Writer, events models.Events) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for i := range events {
		if err := enc.Encode(&events[i]); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place
func writeFileAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := encode(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(common.FilePermissionNormal); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
