package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/samber/lo"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
)

// Store keeps all sandbox state in process memory. OTP sessions expire on
// their own; profiles and carts live until the process exits.
type Store struct {
	ins      instrument.Instrumentation
	sessions *ttlcache.Cache[string, entity.OTPSession]

	mu       sync.Mutex
	profiles map[string]entity.Profile
	carts    map[string][]entity.CartItem
	packages []entity.Package
}

func New(ins instrument.Instrumentation, packages []entity.Package) *Store {
	sessions := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, entity.OTPSession](),
	)
	go sessions.Start()

	return &Store{
		ins:      ins,
		sessions: sessions,
		profiles: make(map[string]entity.Profile),
		carts:    make(map[string][]entity.CartItem),
		packages: packages,
	}
}

// Close stops the session expiry loop.
func (s *Store) Close() error {
	s.sessions.Stop()
	return nil
}

func (s *Store) SaveSession(ctx context.Context, key string, sess entity.OTPSession, ttl time.Duration) error {
	_, span := s.ins.Tracer("sandbox.outbound.memory").Start(ctx, "SaveSession")
	defer span.End()

	s.sessions.Set(key, sess, ttl)
	return nil
}

// GetSession returns goerror.ErrNotFound for unknown or expired sessions.
func (s *Store) GetSession(ctx context.Context, key string) (*entity.OTPSession, error) {
	_, span := s.ins.Tracer("sandbox.outbound.memory").Start(ctx, "GetSession")
	defer span.End()

	item := s.sessions.Get(key)
	if item == nil || item.IsExpired() {
		return nil, goerror.ErrNotFound
	}

	sess := item.Value()
	return &sess, nil
}

// IncrementAttempts records a failed verification and returns the new count.
func (s *Store) IncrementAttempts(ctx context.Context, key string) (int, error) {
	_, span := s.ins.Tracer("sandbox.outbound.memory").Start(ctx, "IncrementAttempts")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.sessions.Get(key)
	if item == nil || item.IsExpired() {
		return 0, goerror.ErrNotFound
	}

	remaining := time.Until(item.ExpiresAt())
	if remaining <= 0 {
		return 0, goerror.ErrNotFound
	}

	sess := item.Value()
	sess.Attempts++
	s.sessions.Set(key, sess, remaining)

	return sess.Attempts, nil
}

func (s *Store) DeleteSession(ctx context.Context, key string) error {
	_, span := s.ins.Tracer("sandbox.outbound.memory").Start(ctx, "DeleteSession")
	defer span.End()

	s.sessions.Delete(key)
	return nil
}

// GetProfile returns an empty profile for a phone that never saved one.
func (s *Store) GetProfile(_ context.Context, phone string) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[phone]
	if !ok {
		p = entity.Profile{Phone: phone}
	}
	return &p, nil
}

func (s *Store) SaveProfile(_ context.Context, p entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.Phone] = p
	return nil
}

func (s *Store) ListPackages(_ context.Context) ([]entity.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entity.Package(nil), s.packages...), nil
}

// GetPackage returns goerror.ErrNotFound for an unknown id.
func (s *Store) GetPackage(_ context.Context, id string) (*entity.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := lo.Find(s.packages, func(p entity.Package) bool { return p.ID == id })
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetCart(_ context.Context, phone string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return summarize(s.carts[phone]), nil
}

// AddCartItem merges qty of pkg into the phone's cart. It returns
// entity.ErrOutOfStock when the merged quantity would exceed pkg.Stock.
func (s *Store) AddCartItem(_ context.Context, phone string, pkg entity.Package, qty int) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[phone]
	_, idx, found := lo.FindIndexOf(items, func(it entity.CartItem) bool { return it.PackageID == pkg.ID })

	inCart := 0
	if found {
		inCart = items[idx].Qty
	}
	if inCart+qty > pkg.Stock {
		return nil, entity.ErrOutOfStock
	}

	if found {
		items[idx].Qty += qty
		items[idx].Subtotal = int64(items[idx].Qty) * pkg.Price
	} else {
		items = append(items, entity.CartItem{
			PackageID: pkg.ID,
			Name:      pkg.Name,
			Qty:       qty,
			Subtotal:  int64(qty) * pkg.Price,
		})
	}
	s.carts[phone] = items

	return summarize(items), nil
}

func summarize(items []entity.CartItem) *entity.Cart {
	return &entity.Cart{
		Items:    append([]entity.CartItem{}, items...),
		TotalQty: lo.SumBy(items, func(it entity.CartItem) int { return it.Qty }),
		Total:    lo.SumBy(items, func(it entity.CartItem) int64 { return it.Subtotal }),
	}
}
