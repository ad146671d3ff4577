package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/metrics"
)

const (
	DefaultMaxRetries      = 5
	DefaultMaxLineQuantity = 99

	maxPetIDLength = 64
)

const (
	opGet    = "get"
	opAdd    = "add_item"
	opUpdate = "update_quantity"
	opRemove = "remove_item"
	opClear  = "clear"
)

// Service is the cart ledger. Every operation is scoped to the authenticated
// user id and line items are addressed by pet id.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Quantity(ctx context.Context, userID uuid.UUID, petID string) (int, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, petID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, petID string) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AddItemInput is the pet snapshot supplied by the client. A nil Quantity
// means one.
type AddItemInput struct {
	PetID    string
	PetName  string
	PetPrice *decimal.Decimal
	PetImage string
	Quantity *int
}

// ServiceParams wires the ledger. Cache, Metrics and Logger are optional.
type ServiceParams struct {
	Repo            Repository
	Cache           Cache
	Metrics         *metrics.CartMetrics
	Logger          *logger.Logger
	MaxRetries      int
	MaxLineQuantity int
	Now             func() time.Time
}

type service struct {
	repo            Repository
	cache           Cache
	metrics         *metrics.CartMetrics
	logg            *logger.Logger
	maxRetries      int
	maxLineQuantity int
	now             func() time.Time
	reads           singleflight.Group
}

// NewService builds the cart ledger.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	svc := &service{
		repo:            params.Repo,
		cache:           params.Cache,
		metrics:         params.Metrics,
		logg:            params.Logger,
		maxRetries:      params.MaxRetries,
		maxLineQuantity: params.MaxLineQuantity,
		now:             params.Now,
	}
	if svc.maxRetries <= 0 {
		svc.maxRetries = DefaultMaxRetries
	}
	if svc.maxLineQuantity <= 0 {
		svc.maxLineQuantity = DefaultMaxLineQuantity
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.load(ctx, userID)
	s.record(opGet, err)
	return cart, err
}

func (s *service) Quantity(ctx context.Context, userID uuid.UUID, petID string) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	// Ids over the limit are rejected on add, so no line can carry one.
	if len(strings.TrimSpace(petID)) > maxPetIDLength {
		return 0, nil
	}
	petID, err := normalizePetID(petID)
	if err != nil {
		return 0, err
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	if i := cart.indexOf(petID); i >= 0 {
		return cart.Items[i].Quantity, nil
	}
	return 0, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := cart.Summary()
	return &summary, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Cart, error) {
	line, err := s.validateAdd(input)
	if err != nil {
		s.record(opAdd, err)
		return nil, err
	}

	cart, err := s.mutate(ctx, opAdd, userID, func(cart *Cart, _ bool) (bool, error) {
		if i := cart.indexOf(line.PetID); i >= 0 {
			merged := cart.Items[i].Quantity + line.Quantity
			if merged > s.maxLineQuantity {
				return false, quantityTooLarge(s.maxLineQuantity)
			}
			cart.Items[i].Quantity = merged
			return true, nil
		}
		item := line
		item.ID = uuid.New()
		item.AddedAt = s.now()
		cart.Items = append(cart.Items, item)
		return true, nil
	})
	s.record(opAdd, err)
	return cart, err
}

func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, petID string, quantity int) (*Cart, error) {
	petID, err := normalizePetID(petID)
	if err == nil {
		err = s.validateQuantity(quantity, true)
	}
	if err != nil {
		s.record(opUpdate, err)
		return nil, err
	}

	cart, err := s.mutate(ctx, opUpdate, userID, func(cart *Cart, exists bool) (bool, error) {
		if !exists {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		i := cart.indexOf(petID)
		if i < 0 {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		if quantity == 0 {
			cart.removeAt(i)
			return true, nil
		}
		if cart.Items[i].Quantity == quantity {
			return false, nil
		}
		cart.Items[i].Quantity = quantity
		return true, nil
	})
	s.record(opUpdate, err)
	return cart, err
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, petID string) (*Cart, error) {
	petID, err := normalizePetID(petID)
	if err != nil {
		s.record(opRemove, err)
		return nil, err
	}

	cart, err := s.mutate(ctx, opRemove, userID, func(cart *Cart, exists bool) (bool, error) {
		if !exists {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		i := cart.indexOf(petID)
		if i < 0 {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		cart.removeAt(i)
		return true, nil
	})
	s.record(opRemove, err)
	return cart, err
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := s.mutate(ctx, opClear, userID, func(cart *Cart, exists bool) (bool, error) {
		if !exists || len(cart.Items) == 0 {
			return false, nil
		}
		cart.Items = []LineItem{}
		return true, nil
	})
	s.record(opClear, err)
	return err
}

// mutate runs load, apply and conditional save, retrying the whole sequence
// when the save loses a version race. apply reports whether it changed the
// cart; unchanged carts are returned without a write.
func (s *service) mutate(ctx context.Context, op string, userID uuid.UUID, apply func(cart *Cart, exists bool) (bool, error)) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "cart update cancelled")
		}

		cart, err := s.repo.Get(ctx, userID)
		exists := true
		switch {
		case errors.Is(err, ErrCartNotFound):
			exists = false
			cart = emptyCart(userID)
		case err != nil:
			return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "loading cart")
		}
		if cart.Items == nil {
			cart.Items = []LineItem{}
		}

		expected := cart.Version
		changed, err := apply(cart, exists)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cart, nil
		}

		now := s.now()
		cart.UpdatedAt = now
		cart.Version = expected + 1
		if exists {
			err = s.repo.Save(ctx, cart, expected)
		} else {
			cart.CreatedAt = now
			err = s.repo.Create(ctx, cart)
		}

		if errors.Is(err, ErrVersionConflict) {
			s.metrics.IncConflict(op)
			s.debug(ctx, userID, "cart.version_conflict", map[string]any{"operation": op, "attempt": attempt + 1})
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "saving cart")
		}

		s.refresh(ctx, cart)
		return cart, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently, please retry")
}

// load reads through the cache. Concurrent misses for the same user share one
// repository read.
func (s *service) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			s.metrics.IncCache("error")
			s.warn(ctx, userID, "cart.cache_get_failed", err)
		case ok:
			s.metrics.IncCache("hit")
			return cached, nil
		default:
			s.metrics.IncCache("miss")
		}
	}

	// The read is shared, so one caller's cancellation must not fail the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.reads.Do(userID.String(), func() (any, error) {
		cart, err := s.repo.Get(shared, userID)
		if errors.Is(err, ErrCartNotFound) {
			cart = emptyCart(userID)
		} else if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "loading cart")
		}
		if cart.Items == nil {
			cart.Items = []LineItem{}
		}
		if s.cache != nil {
			if err := s.cache.Set(shared, cart); err != nil {
				s.warn(shared, userID, "cart.cache_set_failed", err)
			}
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	// singleflight shares the pointer between callers.
	return v.(*Cart).clone(), nil
}

// refresh writes the saved cart through to the cache. When that fails the
// snapshot is dropped instead, keeping the new version as the floor for
// in-flight readers.
func (s *service) refresh(ctx context.Context, cart *Cart) {
	if s.cache == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	err := s.cache.Set(ctx, cart)
	if err == nil {
		return
	}
	s.warn(ctx, cart.UserID, "cart.cache_set_failed", err)
	if err := s.cache.Invalidate(ctx, cart.UserID, cart.Version); err != nil {
		s.warn(ctx, cart.UserID, "cart.cache_invalidate_failed", err)
	}
}

func (s *service) validateAdd(input AddItemInput) (LineItem, error) {
	details := map[string]string{}

	petID, err := normalizePetID(input.PetID)
	if err != nil {
		details["petId"] = "is required"
	}
	name := strings.TrimSpace(input.PetName)
	if name == "" {
		details["petName"] = "is required"
	}
	switch {
	case input.PetPrice == nil:
		details["petPrice"] = "is required"
	case input.PetPrice.IsNegative():
		details["petPrice"] = "must be non-negative"
	}

	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
		if err := s.validateQuantity(quantity, false); err != nil {
			details["quantity"] = pkgerrors.As(err).Message()
		}
	}

	if len(details) > 0 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").WithDetails(details)
	}

	return LineItem{
		PetID:    petID,
		PetName:  name,
		PetPrice: *input.PetPrice,
		PetImage: strings.TrimSpace(input.PetImage),
		Quantity: quantity,
	}, nil
}

func (s *service) validateQuantity(quantity int, allowZero bool) error {
	switch {
	case quantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	case quantity == 0 && !allowZero:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	case quantity > s.maxLineQuantity:
		return quantityTooLarge(s.maxLineQuantity)
	}
	return nil
}

func quantityTooLarge(max int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must not exceed %d", max))
}

func normalizePetID(petID string) (string, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pet id is required")
	}
	if len(petID) > maxPetIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pet id is too long")
	}
	return petID, nil
}

func (s *service) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			outcome = string(typed.Code())
		}
	}
	s.metrics.IncOperation(op, outcome)
}

func (s *service) warn(ctx context.Context, userID uuid.UUID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "error": err.Error()})
	s.logg.Warn(ctx, msg)
}

func (s *service) debug(ctx context.Context, userID uuid.UUID, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	fields["user_id"] = userID.String()
	s.logg.Debug(s.logg.WithFields(ctx, fields), msg)
}
