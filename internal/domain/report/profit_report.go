package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductProfit is the per-product line of a profit report
type ProductProfit struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// ProfitReport aggregates revenue against FIFO-attributed cost of goods sold
// over a reporting window. COGS comes from the cost stored on OUT movements
// at consumption time.
type ProfitReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Products      []ProductProfit `json:"products"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCOGS     decimal.Decimal `json:"total_cogs"`
	PackagingCost decimal.Decimal `json:"packaging_cost"`
	OrderCount    int64           `json:"order_count"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
}

// MarginPercent returns profit over revenue as a percentage, zero when
// revenue is zero
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}
