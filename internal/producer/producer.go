// Package producer appends small batches of clickstream events, each as a
// new independently named JSONL file.
package producer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"antmart/internal/common"
	"antmart/internal/config"
	"antmart/internal/generator"
	"antmart/internal/writer"
	"antmart/pkg/errors"
	"antmart/pkg/models"
)

// fileTimeLayout names micro-batch files to the second
const fileTimeLayout = "20060102150405"

// maxCollisions bounds the suffix search for files created in the same second
const maxCollisions = 1000

// Bounds are the id ranges events are drawn from
type Bounds struct {
	Users    int64
	Products int64
	// UsersFromSeed and ProductsFromSeed are false when the default was used
	UsersFromSeed    bool
	ProductsFromSeed bool
}

// Producer generates micro-batches without touching users, products or orders
type Producer struct {
	layout    *config.Layout
	defaults  config.Micro
	generator *generator.Generator
	now       func() time.Time
	logger    zerolog.Logger
}

// New creates a producer
func New(layout *config.Layout, defaults config.Micro, gen *generator.Generator, logger zerolog.Logger) *Producer {
	return &Producer{
		layout:    layout,
		defaults:  defaults,
		generator: gen,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the clock used for file names
func (p *Producer) WithClock(now func() time.Time) *Producer {
	p.now = now
	return p
}

// Bounds reads the largest user and product ids from the seed directory.
// A missing or unreadable seed falls back to the configured default.
func (p *Producer) Bounds() Bounds {
	seeds := p.layout.MustDir(config.DestSeeds)
	b := Bounds{Users: p.defaults.DefaultUsers, Products: p.defaults.DefaultProducts}

	if v, ok := p.seedMax(filepath.Join(seeds, models.TableUsers+".csv"), "user_id"); ok {
		b.Users, b.UsersFromSeed = v, true
	}
	if v, ok := p.seedMax(filepath.Join(seeds, models.TableProducts+".csv"), "product_id"); ok {
		b.Products, b.ProductsFromSeed = v, true
	}
	return b
}

func (p *Producer) seedMax(path, column string) (int64, bool) {
	if _, err := os.Stat(path); err != nil {
		dep := errors.MissingDependency(column+" seed", path)
		p.logger.Warn().Str("code", string(dep.Code)).Str("path", path).Msg("seed file absent, using default bound")
		return 0, false
	}

	v, err := writer.MaxID(path, column)
	if err != nil {
		p.logger.Warn().Err(err).Str("code", string(errors.ErrCodeMissingDependency)).Str("path", path).Msg("seed file unreadable, using default bound")
		return 0, false
	}
	if v < 1 {
		p.logger.Warn().Str("code", string(errors.ErrCodeMissingDependency)).Str("path", path).Msg("seed file has no rows, using default bound")
		return 0, false
	}
	return v, true
}

// Produce generates count events stamped now and writes them to a new file
// under the micro-batch landing path. It returns the file path.
func (p *Producer) Produce(count int) (string, error) {
	if count < 1 {
		return "", errors.InvalidParameter("count", count, "must be at least 1")
	}

	b := p.Bounds()
	events := p.generator.MicroEvents(count, b.Users, b.Products)

	dir := p.layout.MustDir(config.DestRawEventsMicro)
	if err := os.MkdirAll(dir, common.DirPermissionNormal); err != nil {
		return "", errors.WriteFailure(dir, err)
	}

	f, path, err := createUnique(dir, p.now())
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(f)
	if err := writer.EncodeJSONL(bw, events); err != nil {
		f.Close()
		return "", errors.WriteFailure(path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", errors.WriteFailure(path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.WriteFailure(path, err)
	}

	p.logger.Info().
		Str("path", path).
		Int("events", len(events)).
		Int64("user_bound", b.Users).
		Int64("product_bound", b.Products).
		Msg("micro-batch written")
	return path, nil
}

// createUnique creates events_<ts>.jsonl, or events_<ts>_<n>.jsonl when
// earlier files from the same second exist. It never opens an existing file.
func createUnique(dir string, now time.Time) (*os.File, string, error) {
	stamp := now.Format(fileTimeLayout)
	for n := 0; n < maxCollisions; n++ {
		name := fmt.Sprintf("events_%s.jsonl", stamp)
		if n > 0 {
			name = fmt.Sprintf("events_%s_%d.jsonl", stamp, n)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, common.FilePermissionNormal) // #nosec G304 - name is generated
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", errors.WriteFailure(path, err)
		}
	}
	return nil, "", errors.WriteFailure(filepath.Join(dir, "events_"+stamp+".jsonl"),
		fmt.Errorf("more than %d files for the same second", maxCollisions))
}
