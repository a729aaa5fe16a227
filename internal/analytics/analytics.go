// Package analytics aggregates delivered orders into revenue, profit and
// customer figures. Every function is total: empty input yields a zero
// result, never an error or a NaN.
package analytics

import (
	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
)

// Delivered filters orders down to those that count as revenue.
func Delivered(orders []bakery.Order) []bakery.Order {
	out := make([]bakery.Order, 0, len(orders))
	for _, o := range orders {
		if o.Delivered() {
			out = append(out, o)
		}
	}
	return out
}

// Summary is the headline card of the dashboard.
type Summary struct {
	HasData           bool    `json:"hasData"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProfit       float64 `json:"totalProfit"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	ProfitMargin      float64 `json:"profitMargin"`
	TotalCustomers    int     `json:"totalCustomers"`
}

// SummaryStats totals delivered orders. HasData reflects whether any order
// exists at all, delivered or not.
func SummaryStats(orders []bakery.Order) Summary {
	delivered := Delivered(orders)

	var revenue, profit float64
	customers := make(map[string]struct{})
	for _, o := range delivered {
		revenue += o.Total()
		profit += o.Profit()
		customers[customerKey(o)] = struct{}{}
	}

	s := Summary{
		HasData:        len(orders) > 0,
		TotalRevenue:   money.RoundCents(revenue),
		TotalProfit:    money.RoundCents(profit),
		TotalOrders:    len(delivered),
		TotalCustomers: len(customers),
	}
	if len(delivered) > 0 {
		s.AverageOrderValue = money.RoundCents(revenue / float64(len(delivered)))
	}
	s.ProfitMargin = ratioPercent(profit, revenue)
	return s
}

func customerKey(o bakery.Order) string {
	if o.CustomerID != "" {
		return o.CustomerID
	}
	return "name:" + o.CustomerName
}

// ratioPercent is num/den*100, 0 when den is 0.
func ratioPercent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
