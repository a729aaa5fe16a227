package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/o.bakery/internal/bakery"
)

// CreateOrder stores an order and its line snapshots. The order number is
// prefix-NNNNN drawn from a monotonic sequence inside the same transaction.
func (s *Store) CreateOrder(ctx context.Context, o bakery.Order, prefix string) (bakery.Order, error) {
	if o.Status == "" {
		o.Status = bakery.StatusNew
	}
	if err := bakery.Validate(o); err != nil {
		return bakery.Order{}, err
	}
	customer, err := s.GetCustomer(ctx, o.CustomerID)
	if err != nil {
		return bakery.Order{}, err
	}
	o.ID = uuid.NewString()
	o.CustomerName = customer.Name
	o.CreatedAt = s.now().UTC()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_sequence (id, last_value) VALUES (1, 1)
			ON CONFLICT(id) DO UPDATE SET last_value = last_value + 1
			RETURNING last_value
		`).Scan(&seq); err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		o.OrderNumber = fmt.Sprintf("%s-%05d", prefix, seq)

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (
				id, order_number, customer_id, customer_name, status, delivery_date,
				production_date, production_minutes, calendar_event_id, notes, created_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, o.ID, o.OrderNumber, o.CustomerID, o.CustomerName, string(o.Status), formatTime(o.DeliveryDate),
			nullableTime(o.ProductionDate), o.ProductionMinutes, nullableString(o.CalendarEventID), o.Notes,
			formatTime(o.CreatedAt)); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, line := range o.Lines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_lines (order_id, position, recipe_id, recipe_name, quantity, unit_price, unit_cost)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, o.ID, i, line.RecipeID, line.RecipeName, line.Quantity, line.UnitPrice, nullableFloat(line.UnitCost)); err != nil {
				return fmt.Errorf("insert order line %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return bakery.Order{}, err
	}
	return o, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Disallowed moves
// return ErrConflict.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, to bakery.OrderStatus) (bakery.Order, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("query order status: %w", err)
		}
		if !bakery.CanTransition(bakery.OrderStatus(current), to) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w", id, current, to, ErrConflict)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, string(to), id); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return bakery.Order{}, err
	}
	return s.GetOrder(ctx, id)
}

// SetCalendarEventID records the external calendar event linked to an order.
// An empty id clears the link.
func (s *Store) SetCalendarEventID(ctx context.Context, id, eventID string) (bakery.Order, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE orders SET calendar_event_id = ? WHERE id = ?`, nullableString(eventID), id)
	if err != nil {
		return bakery.Order{}, fmt.Errorf("update calendar event: %w", err)
	}
	if err := requireAffected(result, "update calendar event"); err != nil {
		return bakery.Order{}, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) GetOrder(ctx context.Context, id string) (bakery.Order, error) {
	orders, err := s.queryOrders(ctx, `WHERE id = ?`, id)
	if err != nil {
		return bakery.Order{}, err
	}
	if len(orders) == 0 {
		return bakery.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return orders[0], nil
}

// ListOrders returns every order, newest delivery first.
func (s *Store) ListOrders(ctx context.Context) ([]bakery.Order, error) {
	return s.queryOrders(ctx, ``)
}

func (s *Store) queryOrders(ctx context.Context, where string, args ...any) ([]bakery.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, order_number, customer_id, customer_name, status, delivery_date,
			production_date, production_minutes, COALESCE(calendar_event_id, ''), COALESCE(notes, ''), created_at
		FROM orders
		`+where+`
		ORDER BY delivery_date DESC, order_number DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orders := make([]bakery.Order, 0)
	index := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return orders, nil
	}
	if err := s.attachOrderLines(ctx, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row rowScanner) (bakery.Order, error) {
	var o bakery.Order
	var status, delivery, created string
	var production sql.NullString
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &status, &delivery,
		&production, &o.ProductionMinutes, &o.CalendarEventID, &o.Notes, &created); err != nil {
		return bakery.Order{}, err
	}
	o.Status = bakery.OrderStatus(status)
	var err error
	if o.DeliveryDate, err = parseTime(delivery); err != nil {
		return bakery.Order{}, err
	}
	if o.CreatedAt, err = parseTime(created); err != nil {
		return bakery.Order{}, err
	}
	if production.Valid {
		t, err := parseTime(production.String)
		if err != nil {
			return bakery.Order{}, err
		}
		o.ProductionDate = &t
	}
	o.Lines = []bakery.OrderLine{}
	return o, nil
}

func (s *Store) attachOrderLines(ctx context.Context, orders []bakery.Order, index map[string]int) error {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	in, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, recipe_id, recipe_name, quantity, unit_price, unit_cost
		FROM order_lines
		WHERE order_id IN `+in+`
		ORDER BY order_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var line bakery.OrderLine
		var cost sql.NullFloat64
		if err := rows.Scan(&orderID, &line.RecipeID, &line.RecipeName, &line.Quantity, &line.UnitPrice, &cost); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		i, ok := index[orderID]
		if !ok {
			continue
		}
		line.UnitCost = floatPtr(cost)
		orders[i].Lines = append(orders[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order lines: %w", err)
	}
	return nil
}
