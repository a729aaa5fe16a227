package main

import (
	"net/http"
	"time"

	"github.com/Simplici0/o.bakery/internal/analytics"
	"github.com/Simplici0/o.bakery/internal/bakery"
)

const (
	defaultTopSellersLimit = 5
	defaultCustomersLimit  = 10
)

type revenueResponse struct {
	Granularity analytics.Granularity     `json:"granularity"`
	Series      []analytics.PeriodRevenue `json:"series"`
}

func (s *server) loadOrders(w http.ResponseWriter, r *http.Request) ([]bakery.Order, bool) {
	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return orders, true
}

func (s *server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	orders, ok := s.loadOrders(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.SummaryStats(orders))
}

// handleAnalyticsRevenue buckets delivered revenue by week or month. Weeks
// start on the weekday from the appearance settings. fill=1 adds empty
// periods between the first and last bucket.
func (s *server) handleAnalyticsRevenue(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("granularity")
	if raw == "" {
		raw = string(analytics.Month)
	}
	g, err := analytics.ParseGranularity(raw)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}

	appearance, err := s.settings.Appearance(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	orders, ok := s.loadOrders(w, r)
	if !ok {
		return
	}

	series := analytics.RevenueByPeriod(orders, g, time.Weekday(appearance.WeekStartsOn))
	if fill := r.URL.Query().Get("fill"); fill == "1" || fill == "true" {
		series = analytics.FillPeriodGaps(series, g)
	}
	writeJSON(w, http.StatusOK, revenueResponse{Granularity: g, Series: series})
}

func (s *server) handleAnalyticsTopSellers(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("by")
	if raw == "" {
		raw = string(analytics.ByQuantity)
	}
	metric, err := analytics.ParseMetric(raw)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", defaultTopSellersLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	orders, ok := s.loadOrders(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.TopSellers(orders, metric, limit))
}

func (s *server) handleAnalyticsCustomers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultCustomersLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	orders, ok := s.loadOrders(w, r)
	if !ok {
		return
	}
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.CustomerAnalytics(orders, customers, s.now(), limit))
}

func (s *server) handleAnalyticsRecent(w http.ResponseWriter, r *http.Request) {
	orders, ok := s.loadOrders(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.RecentPerformance(orders, s.now()))
}
