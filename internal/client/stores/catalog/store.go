// Package catalog caches the product list served by the backend.
package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Store struct {
	gw  gateway.Gateway
	log logging.Logger

	mu       sync.RWMutex
	products []models.Product
}

func New(gw gateway.Gateway, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{gw: gw, log: log.With("component", "catalog")}
}

// Load fetches the catalog. On failure the previous catalog is kept.
func (s *Store) Load(ctx context.Context) error {
	ps, err := s.gw.Products(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load catalog", "error", err)
		return err
	}
	s.mu.Lock()
	s.products = ps
	s.mu.Unlock()
	s.log.Debug(ctx, "catalog loaded", "products", len(ps))
	return nil
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Categories lists the distinct non-empty categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ByCategory returns the products of category, ignoring case. An empty
// category returns the whole catalog.
func (s *Store) ByCategory(category string) []models.Product {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.Products()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if strings.EqualFold(strings.TrimSpace(p.Category), category) {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a product up by its primary or alternate id.
func (s *Store) Find(id models.ID) (models.Product, bool) {
	if id.IsZero() {
		return models.Product{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id || p.AltID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
