// Package generator produces synthetic users, products, campaigns, orders and
// clickstream events whose foreign keys always point at generated rows.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	"antmart/pkg/errors"
	"antmart/pkg/models"
)

// Generator draws every random value from a single seeded source, so a fixed
// seed and clock reproduce a run exactly.
type Generator struct {
	seed   int64
	rng    *rand.Rand
	faker  *gofakeit.Faker
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed fixes the random seed
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithClock overrides the time source used for dates and timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger attaches a logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a generator. Without WithSeed the seed is taken from the clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:   time.Now().UnixNano(),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	g.faker = gofakeit.New(g.seed)
	return g
}

// Seed returns the seed in use
func (g *Generator) Seed() int64 {
	return g.seed
}

// Counts holds the requested table sizes
type Counts struct {
	Users    int
	Products int
	Orders   int
	Events   int
}

// Validate rejects counts before any generation starts. Events may be zero,
// which yields an empty event table.
func (c Counts) Validate() error {
	checks := []struct {
		field string
		value int
		min   int
	}{
		{"users", c.Users, 1},
		{"products", c.Products, 1},
		{"orders", c.Orders, 1},
		{"events", c.Events, 0},
	}
	for _, chk := range checks {
		if chk.value < chk.min {
			return errors.InvalidParameter(chk.field, chk.value, fmt.Sprintf("must be at least %d", chk.min))
		}
	}
	return nil
}

// Dataset is the output of a full batch run
type Dataset struct {
	Users     models.Users
	Products  models.Products
	Campaigns models.Campaigns
	Orders    models.Orders
	Events    models.Events
}

// Tables returns the tabular entities in write order. Events are handled
// separately by the writer because they have an extra JSONL destination.
func (d *Dataset) Tables() []models.Table {
	return []models.Table{d.Users, d.Products, d.Orders, d.Campaigns}
}

// Generate validates counts and produces all five tables
func (g *Generator) Generate(c Counts) (*Dataset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d := &Dataset{}
	d.Users = g.Users(c.Users)
	d.Products = g.Products(c.Products)
	d.Campaigns = g.Campaigns()
	d.Orders = g.Orders(c.Orders, int64(c.Users), int64(c.Products))
	d.Events = g.Events(c.Events, int64(c.Users), int64(c.Products), d.Orders)

	g.logger.Debug().
		Int64("seed", g.seed).
		Int("users", len(d.Users)).
		Int("products", len(d.Products)).
		Int("campaigns", len(d.Campaigns)).
		Int("orders", len(d.Orders)).
		Int("events", len(d.Events)).
		Msg("dataset generated")
	return d, nil
}

// Users generates n users with ids 1..n
func (g *Generator) Users(n int) models.Users {
	now := g.now()
	out := make(models.Users, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.User{
			UserID:     int64(i),
			Email:      g.faker.Email(),
			SignupDate: models.FormatDate(now.AddDate(0, 0, -g.intn(0, 730))),
			PlanTier:   g.pick(models.PlanTiers),
			Region:     g.pick(models.Regions),
		})
	}
	return out
}

// Products generates n products with ids 1..n
func (g *Generator) Products(n int) models.Products {
	out := make(models.Products, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Product{
			ProductID: int64(i),
			Category:  g.pick(models.Categories),
			Price:     g.money(5, 2000),
			Supplier:  g.faker.Company(),
		})
	}
	return out
}

// Campaigns generates the fixed set of campaigns. Each starts 30 to 180 days
// ago and runs for 15 to 60 days.
func (g *Generator) Campaigns() models.Campaigns {
	now := g.now()
	out := make(models.Campaigns, 0, models.CampaignCount)
	for i := 1; i <= models.CampaignCount; i++ {
		start := now.AddDate(0, 0, -g.intn(30, 180))
		end := start.AddDate(0, 0, g.intn(15, 60))
		out = append(out, models.Campaign{
			CampaignID: int64(i),
			Channel:    g.pick(models.CampaignChannels),
			StartDate:  models.FormatDate(start),
			EndDate:    models.FormatDate(end),
			Spend:      g.money(1000, 50000),
		})
	}
	return out
}

// Orders generates n orders referencing users 1..users and products
// 1..products. The campaign is drawn from {none, 1..10} with equal weight.
func (g *Generator) Orders(n int, users, products int64) models.Orders {
	now := g.now()
	out := make(models.Orders, 0, n)
	for i := 1; i <= n; i++ {
		o := models.Order{
			OrderID:     int64(i),
			UserID:      g.int64n(1, users),
			ProductID:   g.int64n(1, products),
			OrderDate:   models.FormatDate(now.AddDate(0, 0, -g.intn(0, 60))),
			Quantity:    g.intn(1, 5),
			OrderStatus: g.pick(models.OrderStatuses),
			Channel:     g.pick(models.OrderChannels),
		}
		if k := g.rng.Intn(models.CampaignCount + 1); k > 0 {
			o.CampaignID = models.Int64(int64(k))
		}
		out = append(out, o)
	}
	return out
}

// Events generates n batch events backdated up to 24 hours. Purchases copy
// user, product and order ids from a sampled order when orders exist.
func (g *Generator) Events(n int, users, products int64, orders models.Orders) models.Events {
	now := g.now()
	out := make(models.Events, 0, n)
	for i := 0; i < n; i++ {
		e := g.event(users, products)
		if e.EventType == models.EventPurchase && len(orders) > 0 {
			o := orders[g.rng.Intn(len(orders))]
			e.UserID = o.UserID
			e.ProductID = o.ProductID
			e.OrderID = models.Int64(o.OrderID)
		}
		e.Timestamp = models.FormatTimestamp(now.Add(-time.Duration(g.intn(0, 1440)) * time.Minute))
		out = append(out, e)
	}
	return out
}

// MicroEvents generates n events stamped with the current instant. No order
// pool is available, so purchases carry no order id.
func (g *Generator) MicroEvents(n int, users, products int64) models.Events {
	ts := models.FormatTimestamp(g.now())
	out := make(models.Events, 0, n)
	for i := 0; i < n; i++ {
		e := g.event(users, products)
		e.Timestamp = ts
		out = append(out, e)
	}
	return out
}

func (g *Generator) event(users, products int64) models.Event {
	e := models.Event{
		EventType: g.pick(models.EventTypes),
		UserID:    g.int64n(1, users),
		ProductID: g.int64n(1, products),
	}
	if e.EventType != models.EventPageView {
		e.CartID = models.String(fmt.Sprintf("C%d", g.int64n(1, users*2)))
	}
	return e
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// intn returns a uniform integer in [lo, hi]
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) int64n(lo, hi int64) int64 {
	return lo + g.rng.Int63n(hi-lo+1)
}

// money returns a uniform amount in [lo, hi] rounded to cents
func (g *Generator) money(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}
