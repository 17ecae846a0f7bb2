package models

import (
	"fmt"
	"strconv"
)

// Logical table names; each maps to <name>.csv on disk
const (
	TableUsers     = "users"
	TableProducts  = "products"
	TableCampaigns = "campaigns"
	TableOrders    = "orders"
	TableEvents    = "events_seed"
)

// Table is a generated entity table in delimited-row form
type Table interface {
	Name() string
	Header() []string
	Records() [][]string
	Len() int
}

// Users is the users table
type Users []User

func (Users) Name() string { return TableUsers }

func (Users) Header() []string {
	return []string{"user_id", "email", "signup_date", "plan_tier", "region"}
}

func (t Users) Len() int { return len(t) }

func (t Users) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, u := range t {
		out = append(out, []string{formatInt(u.UserID), u.Email, u.SignupDate, u.PlanTier, u.Region})
	}
	return out
}

// Products is the products table
type Products []Product

func (Products) Name() string { return TableProducts }

func (Products) Header() []string {
	return []string{"product_id", "category", "price", "supplier"}
}

func (t Products) Len() int { return len(t) }

func (t Products) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, p := range t {
		out = append(out, []string{formatInt(p.ProductID), p.Category, formatMoney(p.Price), p.Supplier})
	}
	return out
}

// Campaigns is the campaigns table
type Campaigns []Campaign

func (Campaigns) Name() string { return TableCampaigns }

func (Campaigns) Header() []string {
	return []string{"campaign_id", "channel", "start_date", "end_date", "spend"}
}

func (t Campaigns) Len() int { return len(t) }

func (t Campaigns) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, c := range t {
		out = append(out, []string{formatInt(c.CampaignID), c.Channel, c.StartDate, c.EndDate, formatMoney(c.Spend)})
	}
	return out
}

// Orders is the orders table
type Orders []Order

func (Orders) Name() string { return TableOrders }

func (Orders) Header() []string {
	return []string{"order_id", "user_id", "product_id", "order_date", "quantity", "order_status", "channel", "campaign_id"}
}

func (t Orders) Len() int { return len(t) }

func (t Orders) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, o := range t {
		out = append(out, []string{
			formatInt(o.OrderID),
			formatInt(o.UserID),
			formatInt(o.ProductID),
			o.OrderDate,
			strconv.Itoa(o.Quantity),
			o.OrderStatus,
			o.Channel,
			formatOptInt(o.CampaignID),
		})
	}
	return out
}

// Events is the event seed table
type Events []Event

func (Events) Name() string { return TableEvents }

func (Events) Header() []string {
	return []string{"event_type", "user_id", "product_id", "cart_id", "order_id", "timestamp"}
}

func (t Events) Len() int { return len(t) }

func (t Events) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, e := range t {
		out = append(out, []string{
			e.EventType,
			formatInt(e.UserID),
			formatInt(e.ProductID),
			formatOptString(e.CartID),
			formatOptInt(e.OrderID),
			e.Timestamp,
		})
	}
	return out
}

// ParseUsers converts CSV data rows (header excluded) into users
func ParseUsers(records [][]string) (Users, error) {
	out := make(Users, 0, len(records))
	for i, r := range records {
		if err := checkWidth(TableUsers, i, r, 5); err != nil {
			return nil, err
		}
		id, err := parseInt(TableUsers, i, "user_id", r[0])
		if err != nil {
			return nil, err
		}
		out = append(out, User{UserID: id, Email: r[1], SignupDate: r[2], PlanTier: r[3], Region: r[4]})
	}
	return out, nil
}

// ParseProducts converts CSV data rows into products
func ParseProducts(records [][]string) (Products, error) {
	out := make(Products, 0, len(records))
	for i, r := range records {
		if err := checkWidth(TableProducts, i, r, 4); err != nil {
			return nil, err
		}
		id, err := parseInt(TableProducts, i, "product_id", r[0])
		if err != nil {
			return nil, err
		}
		price, err := parseFloat(TableProducts, i, "price", r[2])
		if err != nil {
			return nil, err
		}
		out = append(out, Product{ProductID: id, Category: r[1], Price: price, Supplier: r[3]})
	}
	return out, nil
}

// ParseCampaigns converts CSV data rows into campaigns
func ParseCampaigns(records [][]string) (Campaigns, error) {
	out := make(Campaigns, 0, len(records))
	for i, r := range records {
		if err := checkWidth(TableCampaigns, i, r, 5); err != nil {
			return nil, err
		}
		id, err := parseInt(TableCampaigns, i, "campaign_id", r[0])
		if err != nil {
			return nil, err
		}
		spend, err := parseFloat(TableCampaigns, i, "spend", r[4])
		if err != nil {
			return nil, err
		}
		out = append(out, Campaign{CampaignID: id, Channel: r[1], StartDate: r[2], EndDate: r[3], Spend: spend})
	}
	return out, nil
}

// ParseOrders converts CSV data rows into orders
func ParseOrders(records [][]string) (Orders, error) {
	out := make(Orders, 0, len(records))
	for i, r := range records {
		if err := checkWidth(TableOrders, i, r, 8); err != nil {
			return nil, err
		}
		var o Order
		var err error
		if o.OrderID, err = parseInt(TableOrders, i, "order_id", r[0]); err != nil {
			return nil, err
		}
		if o.UserID, err = parseInt(TableOrders, i, "user_id", r[1]); err != nil {
			return nil, err
		}
		if o.ProductID, err = parseInt(TableOrders, i, "product_id", r[2]); err != nil {
			return nil, err
		}
		qty, err := parseInt(TableOrders, i, "quantity", r[4])
		if err != nil {
			return nil, err
		}
		if o.CampaignID, err = parseOptInt(TableOrders, i, "campaign_id", r[7]); err != nil {
			return nil, err
		}
		o.OrderDate = r[3]
		o.Quantity = int(qty)
		o.OrderStatus = r[5]
		o.Channel = r[6]
		out = append(out, o)
	}
	return out, nil
}

// ParseEvents converts CSV data rows into events
func ParseEvents(records [][]string) (Events, error) {
	out := make(Events, 0, len(records))
	for i, r := range records {
		if err := checkWidth(TableEvents, i, r, 6); err != nil {
			return nil, err
		}
		var e Event
		var err error
		e.EventType = r[0]
		if e.UserID, err = parseInt(TableEvents, i, "user_id", r[1]); err != nil {
			return nil, err
		}
		if e.ProductID, err = parseInt(TableEvents, i, "product_id", r[2]); err != nil {
			return nil, err
		}
		if r[3] != "" {
			e.CartID = String(r[3])
		}
		if e.OrderID, err = parseOptInt(TableEvents, i, "order_id", r[4]); err != nil {
			return nil, err
		}
		e.Timestamp = r[5]
		out = append(out, e)
	}
	return out, nil
}

func checkWidth(table string, row int, r []string, want int) error {
	if len(r) != want {
		return fmt.Errorf("%s row %d: expected %d columns, got %d", table, row+1, want, len(r))
	}
	return nil
}

func parseInt(table string, row int, column, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: invalid %s %q: %w", table, row+1, column, s, err)
	}
	return v, nil
}

func parseOptInt(table string, row int, column, s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseInt(table, row, column, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(table string, row int, column, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: invalid %s %q: %w", table, row+1, column, s, err)
	}
	return v, nil
}
