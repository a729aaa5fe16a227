// Package bakery holds the entities shared by the costing, analytics and
// storage layers.
package bakery

import (
	"time"

	"github.com/Simplici0/o.bakery/internal/units"
)

// Ingredient is a purchasable raw material. Stock and reorder level are in
// the package unit.
type Ingredient struct {
	ID            string     `json:"id"`
	Name          string     `json:"name" validate:"required,max=120"`
	PackageSize   float64    `json:"packageSize" validate:"gt=0"`
	PackageUnit   units.Unit `json:"packageUnit" validate:"required,unit"`
	PackageCost   float64    `json:"packageCost" validate:"gte=0"`
	StockQuantity float64    `json:"stockQuantity" validate:"gte=0"`
	ReorderLevel  float64    `json:"reorderLevel" validate:"gte=0"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CostPerBaseUnit is the package cost divided by the package size expressed
// in the family base unit (g, ml or pc). Returns 0 for unusable packages.
func (i Ingredient) CostPerBaseUnit() float64 {
	size, err := units.ToBase(i.PackageSize, i.PackageUnit)
	if err != nil || size <= 0 {
		return 0
	}
	return i.PackageCost / size
}

// LowOnStock reports whether stock has dropped to the reorder level.
func (i Ingredient) LowOnStock() bool {
	return i.ReorderLevel > 0 && i.StockQuantity <= i.ReorderLevel
}

// RecipeLine is one ingredient consumed by a recipe.
type RecipeLine struct {
	IngredientID string     `json:"ingredientId" validate:"required"`
	Quantity     float64    `json:"quantity" validate:"gt=0"`
	Unit         units.Unit `json:"unit" validate:"required,unit"`
}

// Recipe is a batch formula. Costs derived from it are per batch.
type Recipe struct {
	ID               string       `json:"id"`
	Name             string       `json:"name" validate:"required,max=120"`
	Lines            []RecipeLine `json:"lines" validate:"dive"`
	Servings         int          `json:"servings" validate:"gt=0"`
	LaborMinutes     float64      `json:"laborMinutes" validate:"gte=0"`
	OverheadOverride *float64     `json:"overheadOverride,omitempty" validate:"omitempty,gte=0"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Customer is a buyer. Order counters are computed by analytics, not stored.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=120"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" validate:"max=40"`
	Address   string    `json:"address" validate:"max=240"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "in-progress"
	StatusReady      OrderStatus = "ready"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderLine is a snapshot of a recipe sold on an order. UnitCost is the
// recipe's per-unit cost when the line was created; nil when unknown.
type OrderLine struct {
	RecipeID   string   `json:"recipeId" validate:"required"`
	RecipeName string   `json:"recipeName"`
	Quantity   float64  `json:"quantity" validate:"gt=0"`
	UnitPrice  float64  `json:"unitPrice" validate:"gte=0"`
	UnitCost   *float64 `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
}

// Total is quantity times unit price.
func (l OrderLine) Total() float64 {
	return l.Quantity * l.UnitPrice
}

// Profit is the line margin in money, 0 when no cost snapshot exists.
func (l OrderLine) Profit() float64 {
	if l.UnitCost == nil {
		return 0
	}
	return (l.UnitPrice - *l.UnitCost) * l.Quantity
}

// Order is a customer order with denormalized line snapshots.
type Order struct {
	ID                string      `json:"id"`
	OrderNumber       string      `json:"orderNumber"`
	CustomerID        string      `json:"customerId" validate:"required"`
	CustomerName      string      `json:"customerName"`
	Lines             []OrderLine `json:"lines" validate:"required,min=1,dive"`
	Status            OrderStatus `json:"status" validate:"required,oneof=new in-progress ready delivered cancelled"`
	DeliveryDate      time.Time   `json:"deliveryDate" validate:"required"`
	ProductionDate    *time.Time  `json:"productionDate,omitempty"`
	ProductionMinutes int         `json:"productionMinutes" validate:"gte=0"`
	CalendarEventID   string      `json:"calendarEventId,omitempty"`
	Notes             string      `json:"notes"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// Total sums the order's line totals.
func (o Order) Total() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Total()
	}
	return total
}

// Profit sums the order's line profits.
func (o Order) Profit() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Profit()
	}
	return total
}

// Delivered reports whether the order counts toward financial analytics.
func (o Order) Delivered() bool {
	return o.Status == StatusDelivered
}
