package analytics

import (
	"math"
	"time"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
)

// Trend is the direction of revenue between two windows.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

const (
	// PerformanceWindow is the length of each compared window.
	PerformanceWindow = 7 * 24 * time.Hour
	// FlatTrendThreshold is the absolute percentage change below which the
	// trend is flat.
	FlatTrendThreshold = 1.0
)

// Performance compares the trailing window with the one before it.
type Performance struct {
	CurrentRevenue   float64 `json:"currentRevenue"`
	PreviousRevenue  float64 `json:"previousRevenue"`
	CurrentOrders    int     `json:"currentOrders"`
	PreviousOrders   int     `json:"previousOrders"`
	Change           float64 `json:"change"`
	ChangePercentage float64 `json:"changePercentage"`
	Trend            Trend   `json:"trend"`
}

// RecentPerformance compares delivered revenue in (now-7d, now] with
// (now-14d, now-7d]. Growth from nothing counts as +100%.
func RecentPerformance(orders []bakery.Order, now time.Time) Performance {
	currentFrom := now.Add(-PerformanceWindow)
	previousFrom := currentFrom.Add(-PerformanceWindow)

	var p Performance
	var current, previous float64
	for _, o := range Delivered(orders) {
		d := o.DeliveryDate
		switch {
		case d.After(currentFrom) && !d.After(now):
			current += o.Total()
			p.CurrentOrders++
		case d.After(previousFrom) && !d.After(currentFrom):
			previous += o.Total()
			p.PreviousOrders++
		}
	}

	p.CurrentRevenue = money.RoundCents(current)
	p.PreviousRevenue = money.RoundCents(previous)
	p.Change = money.RoundCents(p.CurrentRevenue - p.PreviousRevenue)
	switch {
	case p.PreviousRevenue != 0:
		p.ChangePercentage = p.Change / p.PreviousRevenue * 100
	case p.CurrentRevenue > 0:
		p.ChangePercentage = 100
	}
	p.Trend = trendOf(p.ChangePercentage)
	return p
}

func trendOf(changePercentage float64) Trend {
	switch {
	case math.Abs(changePercentage) < FlatTrendThreshold:
		return TrendFlat
	case changePercentage > 0:
		return TrendUp
	default:
		return TrendDown
	}
}
