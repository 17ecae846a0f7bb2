package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antmart/internal/config"
	"antmart/internal/generator"
	"antmart/internal/testutil"
	"antmart/pkg/errors"
	"antmart/pkg/models"
)

func newDataset(t *testing.T, counts generator.Counts) *generator.Dataset {
	t.Helper()
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	g := generator.New(generator.WithSeed(21), generator.WithClock(testutil.FixedClock(now)))
	d, err := g.Generate(counts)
	require.NoError(t, err)
	return d
}

func TestWriteDatasetToBothDestinations(t *testing.T) {
	layout := testutil.Layout(t, nil)
	w := New(layout, zerolog.Nop())
	d := newDataset(t, generator.Counts{Users: 10, Products: 5, Orders: 20, Events: 40})

	results, err := w.WriteDataset(d)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, name := range []string{"users", "products", "orders", "campaigns", "events_seed"} {
		raw, err := os.ReadFile(filepath.Join(layout.MustDir(config.DestRawBatch), name+".csv"))
		require.NoError(t, err, name)
		seed, err := os.ReadFile(filepath.Join(layout.MustDir(config.DestSeeds), name+".csv"))
		require.NoError(t, err, name)
		assert.Equal(t, raw, seed, name)
	}

	jsonl := filepath.Join(layout.MustDir(config.DestRawEventsSeed), "events_seed.jsonl")
	assert.FileExists(t, jsonl)
	assert.Equal(t, []string{
		filepath.Join(layout.MustDir(config.DestRawBatch), "events_seed.csv"),
		filepath.Join(layout.MustDir(config.DestSeeds), "events_seed.csv"),
		jsonl,
	}, results[4].Paths)
}

func TestCSVRoundTrip(t *testing.T) {
	layout := testutil.Layout(t, nil)
	w := New(layout, zerolog.Nop())
	d := newDataset(t, generator.Counts{Users: 12, Products: 6, Orders: 30, Events: 50})

	_, err := w.WriteDataset(d)
	require.NoError(t, err)
	seeds := layout.MustDir(config.DestSeeds)

	header, rows, err := ReadCSV(filepath.Join(seeds, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, models.Users{}.Header(), header)
	users, err := models.ParseUsers(rows)
	require.NoError(t, err)
	assert.Equal(t, d.Users, users)

	_, rows, err = ReadCSV(filepath.Join(seeds, "products.csv"))
	require.NoError(t, err)
	products, err := models.ParseProducts(rows)
	require.NoError(t, err)
	assert.Equal(t, d.Products, products)

	_, rows, err = ReadCSV(filepath.Join(seeds, "campaigns.csv"))
	require.NoError(t, err)
	campaigns, err := models.ParseCampaigns(rows)
	require.NoError(t, err)
	assert.Equal(t, d.Campaigns, campaigns)

	_, rows, err = ReadCSV(filepath.Join(seeds, "orders.csv"))
	require.NoError(t, err)
	orders, err := models.ParseOrders(rows)
	require.NoError(t, err)
	assert.Equal(t, d.Orders, orders)

	_, rows, err = ReadCSV(filepath.Join(seeds, "events_seed.csv"))
	require.NoError(t, err)
	events, err := models.ParseEvents(rows)
	require.NoError(t, err)
	assert.Equal(t, d.Events, events)
}

func TestJSONLRoundTripOmitsNulls(t *testing.T) {
	layout := testutil.Layout(t, nil)
	w := New(layout, zerolog.Nop())
	d := newDataset(t, generator.Counts{Users: 8, Products: 4, Orders: 10, Events: 80})

	_, err := w.WriteEvents(d.Events)
	require.NoError(t, err)

	path := filepath.Join(layout.MustDir(config.DestRawEventsSeed), "events_seed.jsonl")
	events, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, d.Events, events)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 80)
	for i, line := range lines {
		assert.NotContains(t, line, "null")
		if d.Events[i].EventType == models.EventPageView {
			assert.NotContains(t, line, "cart_id")
		}
	}
}

func TestZeroEventsProducesEmptyJSONL(t *testing.T) {
	layout := testutil.Layout(t, nil)
	w := New(layout, zerolog.Nop())

	res, err := w.WriteEvents(models.Events{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)

	data, err := os.ReadFile(filepath.Join(layout.MustDir(config.DestRawEventsSeed), "events_seed.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, data)

	header, rows, err := ReadCSV(filepath.Join(layout.MustDir(config.DestSeeds), "events_seed.csv"))
	require.NoError(t, err)
	assert.Equal(t, models.Events{}.Header(), header)
	assert.Empty(t, rows)
}

func TestWriteFailureNamesThePath(t *testing.T) {
	var blocker string
	layout := testutil.Layout(t, func(p *config.Paths) {
		blocker = filepath.Join(p.BaseDir, "blocker")
		p.Seeds = filepath.Join("blocker", "seeds")
	})
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0644))

	w := New(layout, zerolog.Nop())
	d := newDataset(t, generator.Counts{Users: 2, Products: 2, Orders: 2, Events: 2})

	results, err := w.WriteDataset(d)
	require.Error(t, err)
	assert.Empty(t, results)
	assert.Equal(t, errors.ErrCodeWriteFailure, errors.GetErrorCode(err))
	assert.Equal(t, filepath.Join(layout.MustDir(config.DestSeeds), "users.csv"), errors.PathOf(err))

	// the raw copy written before the failure is kept
	assert.FileExists(t, filepath.Join(layout.MustDir(config.DestRawBatch), "users.csv"))
	assert.NoFileExists(t, filepath.Join(layout.MustDir(config.DestRawBatch), "products.csv"))
}

func TestOverwriteLeavesNoTempFiles(t *testing.T) {
	layout := testutil.Layout(t, nil)
	w := New(layout, zerolog.Nop())

	_, err := w.WriteTable(models.Users{{UserID: 1, Email: "a@example.com", SignupDate: "2026-01-01", PlanTier: "free", Region: "EU"}})
	require.NoError(t, err)
	_, err = w.WriteTable(models.Users{{UserID: 1, Email: "b@example.com", SignupDate: "2026-01-02", PlanTier: "basic", Region: "NA"}})
	require.NoError(t, err)

	entries, err := os.ReadDir(layout.MustDir(config.DestSeeds))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, rows, err := ReadCSV(filepath.Join(layout.MustDir(config.DestSeeds), "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", rows[0][1])
}

func TestEncodeCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, models.Products{{ProductID: 1, Category: "home", Price: 9.99, Supplier: "Smith, Jones & Co"}}))

	assert.Equal(t, "product_id,category,price,supplier\n1,home,9.99,\"Smith, Jones & Co\"\n", buf.String())
}

func TestMaxID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("user_id,email\n3,a@x.io\n17,b@x.io\n9,c@x.io\n"), 0644))

	max, err := MaxID(path, "user_id")
	require.NoError(t, err)
	assert.Equal(t, int64(17), max)

	_, err = MaxID(path, "product_id")
	assert.Error(t, err)

	_, err = MaxID(filepath.Join(dir, "missing.csv"), "user_id")
	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeReadFailure, errors.GetErrorCode(err))
}

func TestDecodeJSONLRejectsGarbage(t *testing.T) {
	_, err := DecodeJSONL(strings.NewReader("{\"event_type\":\"page_view\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
