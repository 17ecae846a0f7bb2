// Package report runs the read-only aggregate queries the dashboard shows
// against the analytical store built by the transformation tool.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	"antmart/internal/config"
	"antmart/pkg/errors"
)

const dailyRevenueQuery = `
select cast(o.order_date as varchar) as order_date,
	cast(sum(o.quantity) as bigint) as items_sold,
	cast(sum(o.quantity * p.price) as double precision) as revenue
from fct_orders o
join dim_product p on o.product_id = p.product_id
group by o.order_date
order by o.order_date`

const eventCountsQuery = `
select event_type, cast(count(*) as bigint) as event_count
from fct_events
group by event_type
order by event_count desc, event_type`

// DailyRevenue is one row of the revenue report
type DailyRevenue struct {
	OrderDate string
	ItemsSold int64
	Revenue   float64
}

// EventCount is one row of the event breakdown
type EventCount struct {
	EventType string
	Count     int64
}

// Reader queries the analytical store
type Reader struct {
	db *sql.DB
}

// NewReader wraps an open database
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Open connects to the configured store. File-backed stores (duckdb, sqlite)
// are opened read-only and must already exist.
func Open(ctx context.Context, wh config.Warehouse, baseDir string) (*Reader, error) {
	driver, dsn := wh.Driver, wh.DSN

	if driver == config.DriverDuckDB || driver == config.DriverSQLite {
		path, err := wh.ResolvedPath(baseDir)
		if err != nil {
			return nil, errors.ConfigError(err.Error(), "warehouse.path")
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.MissingDependency("analytical store", path).
				WithSeverity(errors.SeverityError).
				WithSuggestions("Run the generator and the transformation tool first, e.g. 'antmart run batch'")
		}
		dsn = fileDSN(driver, path)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQuery, fmt.Sprintf("failed to open %s store", driver))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeQuery, fmt.Sprintf("failed to connect to %s store", driver))
	}
	return NewReader(db), nil
}

// Close releases the connection
func (r *Reader) Close() error {
	return r.db.Close()
}

// DailyRevenue returns items sold and revenue per order date
func (r *Reader) DailyRevenue(ctx context.Context) ([]DailyRevenue, error) {
	rows, err := r.db.QueryContext(ctx, dailyRevenueQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQuery, "daily revenue query failed")
	}
	defer rows.Close()

	out := []DailyRevenue{}
	for rows.Next() {
		var d DailyRevenue
		if err := rows.Scan(&d.OrderDate, &d.ItemsSold, &d.Revenue); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeQuery, "failed to scan daily revenue row")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQuery, "daily revenue query failed")
	}
	return out, nil
}

// EventCounts returns the number of events per type, most frequent first
func (r *Reader) EventCounts(ctx context.Context) ([]EventCount, error) {
	rows, err := r.db.QueryContext(ctx, eventCountsQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQuery, "event counts query failed")
	}
	defer rows.Close()

	out := []EventCount{}
	for rows.Next() {
		var c EventCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeQuery, "failed to scan event count row")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQuery, "event counts query failed")
	}
	return out, nil
}

// fileDSN builds a read-only DSN for a file-backed store
func fileDSN(driver, path string) string {
	if driver == config.DriverDuckDB {
		return path + "?access_mode=read_only"
	}
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&_pragma=query_only(1)"
}
