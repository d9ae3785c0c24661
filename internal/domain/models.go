package domain

import "time"

type Product struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	SalePriceCents int64  `json:"sale_price_cents"`
	CostPriceCents int64  `json:"cost_price_cents"`
	Category       string `json:"category,omitempty"`
	Stock          int    `json:"stock"`
	Image          string `json:"image,omitempty"`
}

type ProductCreateRequest struct {
	Name           string `json:"name"`
	SalePriceCents int64  `json:"sale_price_cents"`
	CostPriceCents int64  `json:"cost_price_cents"`
	Category       string `json:"category"`
	Stock          int    `json:"stock"`
	Image          string `json:"image"`
}

type ProductUpdateRequest struct {
	Name           *string `json:"name,omitempty"`
	SalePriceCents *int64  `json:"sale_price_cents,omitempty"`
	CostPriceCents *int64  `json:"cost_price_cents,omitempty"`
	Category       *string `json:"category,omitempty"`
	Stock          *int    `json:"stock,omitempty"`
	Image          *string `json:"image,omitempty"`
}

// Sale is an immutable ledger row. SalePriceCents and CostPriceCents are
// copied from the product at recording time and never follow later product
// edits; TotalPriceCents is computed once at insert.
type Sale struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	Quantity        int       `json:"quantity"`
	SalePriceCents  int64     `json:"sale_price_cents"`
	CostPriceCents  int64     `json:"cost_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Date            time.Time `json:"date"`
}

// ProfitCents derives profit from the sale's own frozen values only.
func (s Sale) ProfitCents() int64 {
	return s.TotalPriceCents - s.CostPriceCents*int64(s.Quantity)
}

type SaleCreateRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type RollingStats struct {
	TodayCents int64 `json:"today_cents"`
	WeekCents  int64 `json:"week_cents"`
	MonthCents int64 `json:"month_cents"`
}

type ReportPeriod string

const (
	PeriodAll   ReportPeriod = "all"
	PeriodWeek  ReportPeriod = "week"
	PeriodMonth ReportPeriod = "month"
)

type ReportRow struct {
	SaleID          int64     `json:"sale_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Date            time.Time `json:"date"`
}

type ReportTotals struct {
	RevenueCents int64 `json:"revenue_cents"`
	CostCents    int64 `json:"cost_cents"`
	ProfitCents  int64 `json:"profit_cents"`
}

type SalesReport struct {
	GeneratedBy string       `json:"generated_by"`
	Period      ReportPeriod `json:"period"`
	GeneratedAt time.Time    `json:"generated_at"`
	Rows        []ReportRow  `json:"rows"`
	Totals      ReportTotals `json:"totals"`
}

type ReportExportRequest struct {
	Period          ReportPeriod `json:"period"`
	SelectedSaleIDs []int64      `json:"selected_sale_ids,omitempty"`
}

type ReportMessage struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURL string `json:"mailto_url"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserAccount is the internal persistence model for auth credentials.
// PasswordHash is always a bcrypt hash; plaintext never reaches the store.
type UserAccount struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	User        User   `json:"user"`
}

type Actor struct {
	UserID int64
	Name   string
	Email  string
}

// Error kinds surfaced to API clients alongside the message.
const (
	ErrKindValidation      = "validation_failure"
	ErrKindDuplicateEmail  = "duplicate_email"
	ErrKindAuthentication  = "authentication_failure"
	ErrKindProductNotFound = "product_not_found"
	ErrKindPersistence     = "persistence_failure"
)
