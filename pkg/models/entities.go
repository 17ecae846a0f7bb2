// Package models defines the synthetic users, products, campaigns, orders and
// events, and their fixed-column CSV rendering.
package models

import (
	"strconv"
	"time"
)

// Layouts used for every serialized date and timestamp
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
)

// Value sets for categorical columns
var (
	PlanTiers        = []string{"free", "basic", "premium"}
	Regions          = []string{"NA", "EU", "APAC"}
	Categories       = []string{"electronics", "home", "accessories"}
	CampaignChannels = []string{"email", "ads", "social", "affiliates"}
	OrderStatuses    = []string{"completed", "cancelled", "returned"}
	OrderChannels    = []string{"web", "mobile", "referral", "organic"}
	EventTypes       = []string{EventPageView, EventAddToCart, EventCheckoutStart, EventPurchase}
)

// Event types
const (
	EventPageView      = "page_view"
	EventAddToCart     = "add_to_cart"
	EventCheckoutStart = "checkout_start"
	EventPurchase      = "purchase"
)

// CampaignCount is the fixed number of campaigns generated per run
const CampaignCount = 10

// User is a row of users.csv
type User struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	SignupDate string `json:"signup_date"`
	PlanTier   string `json:"plan_tier"`
	Region     string `json:"region"`
}

// Product is a row of products.csv
type Product struct {
	ProductID int64   `json:"product_id"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Supplier  string  `json:"supplier"`
}

// Campaign is a row of campaigns.csv
type Campaign struct {
	CampaignID int64   `json:"campaign_id"`
	Channel    string  `json:"channel"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Spend      float64 `json:"spend"`
}

// Order is a row of orders.csv. CampaignID is nil when no campaign is attached.
type Order struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	ProductID   int64  `json:"product_id"`
	OrderDate   string `json:"order_date"`
	Quantity    int    `json:"quantity"`
	OrderStatus string `json:"order_status"`
	Channel     string `json:"channel"`
	CampaignID  *int64 `json:"campaign_id,omitempty"`
}

// Event is a clickstream record. CartID is nil for page views, OrderID is set
// only on purchases.
type Event struct {
	EventType string  `json:"event_type"`
	UserID    int64   `json:"user_id"`
	ProductID int64   `json:"product_id"`
	CartID    *string `json:"cart_id,omitempty"`
	OrderID   *int64  `json:"order_id,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// FormatDate renders t in the date layout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp renders t at second precision
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v
func String(v string) *string {
	return &v
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptInt(v *int64) string {
	if v == nil {
		return ""
	}
	return formatInt(*v)
}

func formatOptString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
