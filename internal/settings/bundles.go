package settings

// Storage keys, one per bundle.
const (
	KeyBusiness     = "businessSettings"
	KeyOrder        = "orderSettings"
	KeyRecipe       = "recipeSettings"
	KeyCalendar     = "calendarSettings"
	KeyAppearance   = "appearanceSettings"
	KeyNotification = "notificationSettings"
)

// Business defaults.
const (
	DefaultCurrency           = "USD"
	DefaultMarkupPercent      = 150.0
	DefaultTaxRate            = 0.0
	DefaultLaborCostPerHour   = 15.0
	DefaultOverheadPercentage = 20.0
)

// Business holds the rates the costing engine needs.
//
// DefaultMarkupPercent is the percentage added on top of cost: 150 means
// cost + 150% of cost, a 2.5x multiplier.
type Business struct {
	BusinessName         string  `json:"businessName" validate:"max=120"`
	Email                string  `json:"email" validate:"omitempty,email"`
	Phone                string  `json:"phone" validate:"max=40"`
	Address              string  `json:"address" validate:"max=240"`
	Currency             string  `json:"currency" validate:"required,iso4217"`
	DefaultMarkupPercent float64 `json:"defaultMarkupPercent" validate:"gte=0,lte=1000"`
	TaxRate              float64 `json:"taxRate" validate:"gte=0,lte=100"`
	LaborCostPerHour     float64 `json:"laborCostPerHour" validate:"gte=0"`
	OverheadPercentage   float64 `json:"overheadPercentage" validate:"gte=0,lte=100"`
}

// DefaultBusiness returns the complete default business bundle.
func DefaultBusiness() Business {
	return Business{
		BusinessName:         "My Bakery",
		Currency:             DefaultCurrency,
		DefaultMarkupPercent: DefaultMarkupPercent,
		TaxRate:              DefaultTaxRate,
		LaborCostPerHour:     DefaultLaborCostPerHour,
		OverheadPercentage:   DefaultOverheadPercentage,
	}
}

// Order holds order-taking preferences.
type Order struct {
	OrderNumberPrefix   string  `json:"orderNumberPrefix" validate:"required,max=10"`
	DefaultLeadTimeDays int     `json:"defaultLeadTimeDays" validate:"gte=0,lte=365"`
	RequireDeposit      bool    `json:"requireDeposit"`
	DepositPercentage   float64 `json:"depositPercentage" validate:"gte=0,lte=100"`
	AutoConfirm         bool    `json:"autoConfirm"`
}

// DefaultOrder returns the complete default order bundle.
func DefaultOrder() Order {
	return Order{
		OrderNumberPrefix:   "ORD",
		DefaultLeadTimeDays: 3,
		RequireDeposit:      false,
		DepositPercentage:   50,
	}
}

// Recipe holds recipe editor preferences.
type Recipe struct {
	DefaultServings    int    `json:"defaultServings" validate:"gte=1"`
	DefaultUnitSystem  string `json:"defaultUnitSystem" validate:"oneof=metric imperial"`
	ShowCostPerServing bool   `json:"showCostPerServing"`
	PriceRounding      string `json:"priceRounding" validate:"oneof=none psychological whole"`
}

// DefaultRecipe returns the complete default recipe bundle.
func DefaultRecipe() Recipe {
	return Recipe{
		DefaultServings:    12,
		DefaultUnitSystem:  "metric",
		ShowCostPerServing: true,
		PriceRounding:      "psychological",
	}
}

// Calendar holds external calendar sync preferences. Only the event id on an
// order crosses into the core.
type Calendar struct {
	Enabled                     bool   `json:"enabled"`
	CalendarID                  string `json:"calendarId" validate:"max=255"`
	DefaultEventDurationMinutes int    `json:"defaultEventDurationMinutes" validate:"gte=0"`
	ReminderMinutesBefore       int    `json:"reminderMinutesBefore" validate:"gte=0"`
	SyncProductionEvents        bool   `json:"syncProductionEvents"`
	SyncDeliveryEvents          bool   `json:"syncDeliveryEvents"`
}

// DefaultCalendar returns the complete default calendar bundle.
func DefaultCalendar() Calendar {
	return Calendar{
		CalendarID:                  "primary",
		DefaultEventDurationMinutes: 60,
		ReminderMinutesBefore:       30,
		SyncProductionEvents:        true,
		SyncDeliveryEvents:          true,
	}
}

// Appearance holds display preferences.
type Appearance struct {
	Theme        string `json:"theme" validate:"oneof=light dark system"`
	WeekStartsOn int    `json:"weekStartsOn" validate:"gte=0,lte=6"`
	DateFormat   string `json:"dateFormat" validate:"required"`
}

// DefaultAppearance returns the complete default appearance bundle.
func DefaultAppearance() Appearance {
	return Appearance{
		Theme:        "light",
		WeekStartsOn: 1,
		DateFormat:   "2006-01-02",
	}
}

// Notification holds reminder and alert toggles.
type Notification struct {
	EmailNotifications  bool `json:"emailNotifications"`
	OrderReminders      bool `json:"orderReminders"`
	LowStockAlerts      bool `json:"lowStockAlerts"`
	ReminderHoursBefore int  `json:"reminderHoursBefore" validate:"gte=0,lte=720"`
}

// DefaultNotification returns the complete default notification bundle.
func DefaultNotification() Notification {
	return Notification{
		EmailNotifications:  true,
		OrderReminders:      true,
		LowStockAlerts:      true,
		ReminderHoursBefore: 24,
	}
}

// Defaults returns every default bundle keyed by its storage key.
func Defaults() map[string]any {
	return map[string]any{
		KeyBusiness:     DefaultBusiness(),
		KeyOrder:        DefaultOrder(),
		KeyRecipe:       DefaultRecipe(),
		KeyCalendar:     DefaultCalendar(),
		KeyAppearance:   DefaultAppearance(),
		KeyNotification: DefaultNotification(),
	}
}
