package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/o.bakery/internal/bakery"
)

func (s *Store) CreateCustomer(ctx context.Context, c bakery.Customer) (bakery.Customer, error) {
	if err := bakery.Validate(c); err != nil {
		return bakery.Customer{}, err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, nullableString(c.Email), nullableString(c.Phone), nullableString(c.Address), formatTime(c.CreatedAt))
	if err != nil {
		return bakery.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

const customerColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), created_at`

func scanCustomer(row rowScanner) (bakery.Customer, error) {
	var c bakery.Customer
	var created string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &created); err != nil {
		return bakery.Customer{}, err
	}
	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return bakery.Customer{}, err
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (bakery.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return bakery.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return bakery.Customer{}, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]bakery.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]bakery.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}
