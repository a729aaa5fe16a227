package analytics

import (
	"sort"
	"time"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
)

// NewCustomerWindow is how far back a first order makes a customer new.
const NewCustomerWindow = 30 * 24 * time.Hour

// CustomerStats aggregates one customer's delivered orders.
type CustomerStats struct {
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Orders     int       `json:"orders"`
	TotalSpent float64   `json:"totalSpent"`
	FirstOrder time.Time `json:"firstOrder"`
	LastOrder  time.Time `json:"lastOrder"`
}

// CustomerSummary is the customer panel of the dashboard.
type CustomerSummary struct {
	TotalCustomers    int             `json:"totalCustomers"`
	RepeatCustomers   int             `json:"repeatCustomers"`
	NewCustomers      int             `json:"newCustomers"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	TopSpenders       []CustomerStats `json:"topSpenders"`
}

// CustomerAnalytics recomputes customer counters from delivered orders.
// TotalCustomers counts the known customers plus any buyer only seen on
// orders. A customer is new when their first delivered order falls within
// NewCustomerWindow before now. TopSpenders holds buyers with at least one
// delivered order, by spend descending then name; limit <= 0 keeps all.
func CustomerAnalytics(orders []bakery.Order, customers []bakery.Customer, now time.Time, limit int) CustomerSummary {
	names := make(map[string]string, len(customers))
	known := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
		known[c.ID] = struct{}{}
	}

	stats := make(map[string]*CustomerStats)
	delivered := Delivered(orders)
	var revenue float64
	for _, o := range delivered {
		key := customerKey(o)
		s, ok := stats[key]
		if !ok {
			name, found := names[o.CustomerID]
			if !found || name == "" {
				name = o.CustomerName
			}
			s = &CustomerStats{CustomerID: o.CustomerID, Name: name, FirstOrder: o.DeliveryDate, LastOrder: o.DeliveryDate}
			stats[key] = s
		}
		total := o.Total()
		revenue += total
		s.Orders++
		s.TotalSpent += total
		if o.DeliveryDate.Before(s.FirstOrder) {
			s.FirstOrder = o.DeliveryDate
		}
		if o.DeliveryDate.After(s.LastOrder) {
			s.LastOrder = o.DeliveryDate
		}
	}

	summary := CustomerSummary{TopSpenders: make([]CustomerStats, 0, len(stats))}
	all := make(map[string]struct{}, len(known)+len(stats))
	for id := range known {
		all[id] = struct{}{}
	}
	cutoff := now.Add(-NewCustomerWindow)
	for key, s := range stats {
		all[key] = struct{}{}
		if s.Orders >= 2 {
			summary.RepeatCustomers++
		}
		if s.FirstOrder.After(cutoff) && !s.FirstOrder.After(now) {
			summary.NewCustomers++
		}
		s.TotalSpent = money.RoundCents(s.TotalSpent)
		summary.TopSpenders = append(summary.TopSpenders, *s)
	}
	summary.TotalCustomers = len(all)
	if len(delivered) > 0 {
		summary.AverageOrderValue = money.RoundCents(revenue / float64(len(delivered)))
	}

	sort.Slice(summary.TopSpenders, func(i, j int) bool {
		a, b := summary.TopSpenders[i], summary.TopSpenders[j]
		if a.TotalSpent != b.TotalSpent {
			return a.TotalSpent > b.TotalSpent
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CustomerID < b.CustomerID
	})
	if limit > 0 && len(summary.TopSpenders) > limit {
		summary.TopSpenders = summary.TopSpenders[:limit]
	}
	return summary
}
