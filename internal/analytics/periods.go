package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
)

// Granularity is the bucket size of a revenue series.
type Granularity string

const (
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts "week" or "month".
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(raw) {
	case Week, Month:
		return Granularity(raw), nil
	}
	return "", fmt.Errorf("unknown granularity %q", raw)
}

// PeriodRevenue is one bucket of the revenue series.
type PeriodRevenue struct {
	Period  string    `json:"period"`
	Start   time.Time `json:"start"`
	Revenue float64   `json:"revenue"`
	Profit  float64   `json:"profit"`
	Orders  int       `json:"orders"`
}

// PeriodStart returns the start of the bucket containing t.
func PeriodStart(t time.Time, g Granularity, weekStart time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if g == Month {
		return day.AddDate(0, 0, 1-day.Day())
	}
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func periodLabel(start time.Time, g Granularity) string {
	if g == Month {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// RevenueByPeriod buckets delivered orders by their UTC delivery date. Weeks
// begin on weekStart and are labelled by their first day; months are labelled
// YYYY-MM. Only periods with at least one order appear, oldest first.
func RevenueByPeriod(orders []bakery.Order, g Granularity, weekStart time.Weekday) []PeriodRevenue {
	buckets := make(map[string]*PeriodRevenue)
	for _, o := range Delivered(orders) {
		start := PeriodStart(o.DeliveryDate.UTC(), g, weekStart)
		label := periodLabel(start, g)
		b, ok := buckets[label]
		if !ok {
			b = &PeriodRevenue{Period: label, Start: start}
			buckets[label] = b
		}
		b.Revenue += o.Total()
		b.Profit += o.Profit()
		b.Orders++
	}

	out := make([]PeriodRevenue, 0, len(buckets))
	for _, b := range buckets {
		b.Revenue = money.RoundCents(b.Revenue)
		b.Profit = money.RoundCents(b.Profit)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].Period < out[j].Period
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// FillPeriodGaps inserts zero buckets between the first and last period of
// a sorted series so charts stay continuous.
func FillPeriodGaps(series []PeriodRevenue, g Granularity) []PeriodRevenue {
	if len(series) < 2 {
		return series
	}
	byLabel := make(map[string]PeriodRevenue, len(series))
	for _, p := range series {
		byLabel[p.Period] = p
	}

	last := series[len(series)-1].Start
	out := make([]PeriodRevenue, 0, len(series))
	for cur := series[0].Start; !cur.After(last); cur = step(cur, g) {
		label := periodLabel(cur, g)
		if p, ok := byLabel[label]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, PeriodRevenue{Period: label, Start: cur})
	}
	return out
}

func step(t time.Time, g Granularity) time.Time {
	if g == Month {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 7)
}
