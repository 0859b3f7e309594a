package session

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/persist"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Store struct {
	gw       gateway.Gateway
	identity *persist.Slice[*models.Identity]
	log      logging.Logger

	mu         sync.Mutex
	current    *models.Identity
	users      []models.UserRecord
	orders     []models.Order
	generation uint64
	// bumped by every local order mutation
	ordersRev  uint64
	refreshing bool
	lastErr    error

	// serialises identity persistence; taken before mu, never inside it
	writeMu sync.Mutex

	refreshCh chan struct{}
}

// Status describes the last registry refresh.
type Status struct {
	Refreshing bool
	Err        error
}

func validIdentity(id *models.Identity) bool {
	return id != nil && !id.ID.IsZero()
}

// New restores the persisted identity from store and follows identity
// changes made by other contexts. No network request is made until Run or
// an operation is called.
func New(ctx context.Context, gw gateway.Gateway, store persist.Store, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "session")

	s := &Store{
		gw:        gw,
		log:       log,
		refreshCh: make(chan struct{}, 1),
	}
	s.identity = persist.NewSlice(store, persist.KeyIdentity,
		func() *models.Identity { return nil }, validIdentity, log)
	s.current = s.identity.Load(ctx)

	if err := s.identity.SubscribeExternal(s.onExternalIdentity); err != nil {
		return nil, fmt.Errorf("subscribe identity: %w", err)
	}
	return s, nil
}

// Run performs the initial refresh and then serves refresh requests until
// ctx is done.
func (s *Store) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "initial refresh failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.refreshCh:
			if err := s.Refresh(ctx); err != nil {
				s.log.Warn(ctx, "refresh failed", "error", err)
			}
		}
	}
}

// Close stops following external identity changes.
func (s *Store) Close() {
	s.identity.Unsubscribe()
}

func (s *Store) requestRefresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

func (s *Store) onExternalIdentity(next *models.Identity) {
	s.mu.Lock()
	changed := s.setIdentityLocked(next)
	s.mu.Unlock()

	s.log.Debug(context.Background(), "identity changed externally", "id_changed", changed)
	if changed {
		s.requestRefresh()
	}
}

// setIdentityLocked replaces the identity. When the id changes the
// generation is bumped and the order registry emptied.
func (s *Store) setIdentityLocked(next *models.Identity) (idChanged bool) {
	if next != nil {
		cp := *next
		next = &cp
	}
	idChanged = idOf(s.current) != idOf(next)
	s.current = next
	if idChanged {
		s.generation++
		s.orders = nil
	}
	return idChanged
}

// persistIdentity writes the identity as it is now.
func (s *Store) persistIdentity(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	cur := cloneIdentity(s.current)
	s.mu.Unlock()

	if cur == nil {
		s.identity.Clear(ctx)
		return
	}
	s.identity.Save(ctx, cur)
}

// Identity returns the session identity.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Identity{}, false
	}
	return *s.current, true
}

// IsAdmin reports whether the session identity is an administrator.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && models.IsAdmin(s.current.Role)
}

// Users returns a copy of the user registry.
func (s *Store) Users() []models.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

// Orders returns the orders visible to the session, newest first.
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Visible(s.current, s.orders)
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Refreshing: s.refreshing, Err: s.lastErr}
}

func idOf(id *models.Identity) models.ID {
	if id == nil {
		return ""
	}
	return id.ID
}

func cloneIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}
