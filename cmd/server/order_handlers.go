package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/invoice"
	"github.com/Simplici0/o.bakery/internal/pricing"
	"github.com/Simplici0/o.bakery/internal/store"
)

type orderLineRequest struct {
	RecipeID  string   `json:"recipeId"`
	Quantity  float64  `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
}

type orderRequest struct {
	CustomerID        string             `json:"customerId"`
	DeliveryDate      *time.Time         `json:"deliveryDate,omitempty"`
	ProductionDate    *time.Time         `json:"productionDate,omitempty"`
	ProductionMinutes int                `json:"productionMinutes"`
	CalendarEventID   string             `json:"calendarEventId,omitempty"`
	Notes             string             `json:"notes"`
	Lines             []orderLineRequest `json:"lines"`
}

type statusRequest struct {
	Status bakery.OrderStatus `json:"status" validate:"required,oneof=new in-progress ready delivered cancelled"`
}

type calendarEventRequest struct {
	CalendarEventID string `json:"calendarEventId"`
}

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// handleOrdersCreate snapshots each line's recipe name, price and per-batch
// cost at creation time. A line without a unit price gets the recipe's
// suggested price rounded per the recipe settings.
func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	orderSettings, err := s.settings.Order(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	order := bakery.Order{
		CustomerID:        req.CustomerID,
		ProductionDate:    req.ProductionDate,
		ProductionMinutes: req.ProductionMinutes,
		CalendarEventID:   req.CalendarEventID,
		Notes:             strings.TrimSpace(req.Notes),
		Status:            bakery.StatusNew,
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate.UTC()
	} else {
		order.DeliveryDate = s.now().UTC().AddDate(0, 0, orderSettings.DefaultLeadTimeDays)
	}
	if orderSettings.AutoConfirm {
		order.Status = bakery.StatusInProgress
	}

	order.Lines, err = s.snapshotLines(ctx, req.Lines)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.store.CreateOrder(ctx, order, orderSettings.OrderNumberPrefix)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) snapshotLines(ctx context.Context, reqs []orderLineRequest) ([]bakery.OrderLine, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one line", bakery.ErrInvalid)
	}

	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	index := pricing.IndexIngredients(ingredients)
	biz, err := s.settings.Business(ctx)
	if err != nil {
		return nil, err
	}
	recipeSettings, err := s.settings.Recipe(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]bakery.OrderLine, 0, len(reqs))
	for i, req := range reqs {
		recipe, err := s.store.GetRecipe(ctx, req.RecipeID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: line %d references unknown recipe %q", bakery.ErrInvalid, i, req.RecipeID)
		}
		if err != nil {
			return nil, err
		}

		line := bakery.OrderLine{
			RecipeID:   recipe.ID,
			RecipeName: recipe.Name,
			Quantity:   req.Quantity,
		}

		b, costErr := pricing.ComputeBreakdown(recipe, index, biz)
		if costErr == nil {
			cost := b.TotalCost
			line.UnitCost = &cost
		} else {
			s.log.WithError(costErr).WithField("recipeId", recipe.ID).Warn("order line stored without cost snapshot")
		}

		switch {
		case req.UnitPrice != nil:
			line.UnitPrice = *req.UnitPrice
		case costErr == nil:
			line.UnitPrice = pricing.RoundPrice(b.SuggestedPrice, recipeSettings.PriceRounding)
		default:
			return nil, fmt.Errorf("line %d: unit price required: %w", i, costErr)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := bakery.Validate(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	order, err := s.store.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *server) handleOrderCalendarEvent(w http.ResponseWriter, r *http.Request) {
	var req calendarEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	order, err := s.store.SetCalendarEventID(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.CalendarEventID))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// handleOrderInvoice renders plain text unless format=json is requested.
func (s *server) handleOrderInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order, err := s.store.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	biz, err := s.settings.Business(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	orderSettings, err := s.settings.Order(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	inv := invoice.Build(order, biz, orderSettings)
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, inv)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(invoice.Text(inv)))
}
