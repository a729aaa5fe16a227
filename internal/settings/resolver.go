package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Bundle names accepted by Resolver.Get and Resolver.Put.
const (
	BundleBusiness     = "business"
	BundleOrder        = "order"
	BundleRecipe       = "recipe"
	BundleCalendar     = "calendar"
	BundleAppearance   = "appearance"
	BundleNotification = "notification"
)

// ErrUnknownBundle is returned for bundle names outside the fixed set.
var ErrUnknownBundle = errors.New("settings: unknown bundle")

// Resolver is the single entry point for reading and writing settings.
// Reads never fail on bad stored data; they fall back to the defaults.
type Resolver struct {
	store Store
	log   logrus.FieldLogger
}

func NewResolver(store Store, log logrus.FieldLogger) *Resolver {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Resolver{store: store, log: log}
}

func load[T any](ctx context.Context, r *Resolver, key string, def T) (T, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	out, err := Decode[T](raw)
	if err != nil {
		r.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("stored settings unusable, using defaults")
		return def, nil
	}
	return out, nil
}

func save[T any](ctx context.Context, r *Resolver, key string, v T) error {
	if err := Validate(v); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("settings: encode %s: %w", key, err)
	}
	return r.store.Set(ctx, key, raw)
}

func (r *Resolver) Business(ctx context.Context) (Business, error) {
	return load(ctx, r, KeyBusiness, DefaultBusiness())
}

func (r *Resolver) Order(ctx context.Context) (Order, error) {
	return load(ctx, r, KeyOrder, DefaultOrder())
}

func (r *Resolver) Recipe(ctx context.Context) (Recipe, error) {
	return load(ctx, r, KeyRecipe, DefaultRecipe())
}

func (r *Resolver) Calendar(ctx context.Context) (Calendar, error) {
	return load(ctx, r, KeyCalendar, DefaultCalendar())
}

func (r *Resolver) Appearance(ctx context.Context) (Appearance, error) {
	return load(ctx, r, KeyAppearance, DefaultAppearance())
}

func (r *Resolver) Notification(ctx context.Context) (Notification, error) {
	return load(ctx, r, KeyNotification, DefaultNotification())
}

func (r *Resolver) SaveBusiness(ctx context.Context, v Business) error {
	return save(ctx, r, KeyBusiness, v)
}

func (r *Resolver) SaveOrder(ctx context.Context, v Order) error {
	return save(ctx, r, KeyOrder, v)
}

func (r *Resolver) SaveRecipe(ctx context.Context, v Recipe) error {
	return save(ctx, r, KeyRecipe, v)
}

func (r *Resolver) SaveCalendar(ctx context.Context, v Calendar) error {
	return save(ctx, r, KeyCalendar, v)
}

func (r *Resolver) SaveAppearance(ctx context.Context, v Appearance) error {
	return save(ctx, r, KeyAppearance, v)
}

func (r *Resolver) SaveNotification(ctx context.Context, v Notification) error {
	return save(ctx, r, KeyNotification, v)
}

// Get resolves a bundle by name.
func (r *Resolver) Get(ctx context.Context, bundle string) (any, error) {
	switch bundle {
	case BundleBusiness:
		return r.Business(ctx)
	case BundleOrder:
		return r.Order(ctx)
	case BundleRecipe:
		return r.Recipe(ctx)
	case BundleCalendar:
		return r.Calendar(ctx)
	case BundleAppearance:
		return r.Appearance(ctx)
	case BundleNotification:
		return r.Notification(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBundle, bundle)
}

// Put strictly decodes raw as the named bundle and persists it.
func (r *Resolver) Put(ctx context.Context, bundle string, raw []byte) (any, error) {
	switch bundle {
	case BundleBusiness:
		return put[Business](ctx, r, KeyBusiness, raw)
	case BundleOrder:
		return put[Order](ctx, r, KeyOrder, raw)
	case BundleRecipe:
		return put[Recipe](ctx, r, KeyRecipe, raw)
	case BundleCalendar:
		return put[Calendar](ctx, r, KeyCalendar, raw)
	case BundleAppearance:
		return put[Appearance](ctx, r, KeyAppearance, raw)
	case BundleNotification:
		return put[Notification](ctx, r, KeyNotification, raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBundle, bundle)
}

func put[T any](ctx context.Context, r *Resolver, key string, raw []byte) (T, error) {
	v, err := Decode[T](raw)
	if err != nil {
		return v, err
	}
	if err := save(ctx, r, key, v); err != nil {
		return v, err
	}
	return v, nil
}
