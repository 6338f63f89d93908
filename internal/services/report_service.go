// internal/services/report_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
)

// ReportService is read-only rollups over orders, users and products for
// the admin dashboards. Every method is a single aggregate query.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type DailySalesRow struct {
	Date          string          `json:"date"`
	OrderCount    int64           `json:"order_count"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	UniqueUsers   int64           `json:"unique_users"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

type MonthlySalesRow struct {
	Month         string          `json:"month"`
	OrderCount    int64           `json:"order_count"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	UniqueUsers   int64           `json:"unique_users"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

type TopUserRow struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	OrderCount    int64           `json:"order_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	LastOrderDate AggregateTime   `json:"last_order_date"`
}

// AggregateTime scans a datetime column that went through an aggregate
// function. Postgres hands back a timestamp, but sqlite aggregates lose
// the column's declared type and the driver returns the stored text form.
type AggregateTime time.Time

var aggregateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *AggregateTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = AggregateTime(time.Time{})
		return nil
	case time.Time:
		*t = AggregateTime(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into AggregateTime", value)
	}
}

func (t *AggregateTime) parse(s string) error {
	for _, layout := range aggregateTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = AggregateTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as a timestamp", s)
}

func (t AggregateTime) Time() time.Time { return time.Time(t) }

func (t AggregateTime) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

type ProductSalesRow struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SummaryReport struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalOrders      int64           `json:"total_orders"`
	TotalUsers       int64           `json:"total_users"`
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	TodayOrders      int64           `json:"today_orders"`
	ThisMonthRevenue decimal.Decimal `json:"this_month_revenue"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
}

type RecentOrderRow struct {
	ID          uuid.UUID          `json:"id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      models.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UserName    string             `json:"user_name"`
	UserEmail   string             `json:"user_email"`
}

type RevenueByDateRow struct {
	Date         string          `json:"date"`
	OrderCount   int64           `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	UniqueUsers  int64           `json:"unique_users"`
}

func (s *ReportService) DailySales(ctx context.Context, days int) ([]DailySalesRow, error) {
	if days < 1 || days > 365 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var rows []DailySalesRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			DATE(created_at) AS date,
			COUNT(id) AS order_count,
			COALESCE(SUM(total_amount), 0) AS total_sales,
			COUNT(DISTINCT user_id) AS unique_users,
			COALESCE(AVG(total_amount), 0) AS avg_order_value
		FROM orders
		WHERE created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY date DESC`, cutoff).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily sales report: %w", err)
	}
	return rows, nil
}

func (s *ReportService) MonthlySales(ctx context.Context) ([]MonthlySalesRow, error) {
	cutoff := time.Now().AddDate(-1, 0, 0)

	var rows []MonthlySalesRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			to_char(created_at, 'YYYY-MM') AS month,
			COUNT(id) AS order_count,
			COALESCE(SUM(total_amount), 0) AS total_sales,
			COUNT(DISTINCT user_id) AS unique_users,
			COALESCE(AVG(total_amount), 0) AS avg_order_value
		FROM orders
		WHERE created_at >= ?
		GROUP BY to_char(created_at, 'YYYY-MM')
		ORDER BY month DESC
		LIMIT 12`, cutoff).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly sales report: %w", err)
	}
	return rows, nil
}

func (s *ReportService) TopUsers(ctx context.Context, limit int) ([]TopUserRow, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var rows []TopUserRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.name,
			u.email,
			COUNT(o.id) AS order_count,
			COALESCE(SUM(o.total_amount), 0) AS total_spent,
			COALESCE(AVG(o.total_amount), 0) AS avg_order_value,
			MAX(o.created_at) AS last_order_date
		FROM users u
		INNER JOIN orders o ON u.id = o.user_id
		GROUP BY u.id, u.name, u.email
		ORDER BY total_spent DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top users report: %w", err)
	}
	return rows, nil
}

func (s *ReportService) ProductSales(ctx context.Context, limit int) ([]ProductSalesRow, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var rows []ProductSalesRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.name,
			p.price,
			COALESCE(SUM(oi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_revenue
		FROM products p
		INNER JOIN order_items oi ON p.id = oi.product_id
		GROUP BY p.id, p.name, p.price
		ORDER BY total_revenue DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("product sales report: %w", err)
	}
	return rows, nil
}

func (s *ReportService) Summary(ctx context.Context) (*SummaryReport, error) {
	summary := &SummaryReport{}
	db := s.db.WithContext(ctx)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	orders := func() *gorm.DB { return db.Model(&models.Order{}) }

	if err := orders().Select("COALESCE(SUM(total_amount), 0)").Scan(&summary.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := orders().Count(&summary.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := orders().Where("created_at >= ?", dayStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&summary.TodayRevenue).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := orders().Where("created_at >= ?", dayStart).Count(&summary.TodayOrders).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := orders().Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&summary.ThisMonthRevenue).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}
	if err := orders().Select("COALESCE(AVG(total_amount), 0)").Scan(&summary.AvgOrderValue).Error; err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}

	return summary, nil
}

func (s *ReportService) RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var rows []RecentOrderRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.total_amount,
			o.status,
			o.created_at,
			u.name AS user_name,
			u.email AS user_email
		FROM orders o
		INNER JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent orders report: %w", err)
	}
	return rows, nil
}

func (s *ReportService) RevenueByDateRange(ctx context.Context, start, end time.Time) ([]RevenueByDateRow, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.Validationf("start date and end date are required")
	}
	if end.Before(start) {
		return nil, apperrors.Validationf("end date must not be before start date")
	}

	var rows []RevenueByDateRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			DATE(o.created_at) AS date,
			COUNT(o.id) AS order_count,
			COALESCE(SUM(o.total_amount), 0) AS total_revenue,
			COUNT(DISTINCT o.user_id) AS unique_users
		FROM orders o
		WHERE o.created_at >= ? AND o.created_at < ?
		GROUP BY DATE(o.created_at)
		ORDER BY date ASC`, start, end.AddDate(0, 0, 1)).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("revenue by date report: %w", err)
	}
	return rows, nil
}
