package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

// backend is an in-memory storefront API served over httptest.
type backend struct {
	mu       sync.Mutex
	products []models.Product
	users    []models.UserRecord
	orders   []models.Order
	seq      int
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	discount := price("8.00")
	b := &backend{
		products: []models.Product{
			{ID: "p1", Name: "Teclado", Category: "Perifericos", Price: price("10.00")},
			{ID: "p2", Name: "Mouse", Category: "Perifericos", Price: price("10.00"), DiscountPrice: &discount, HasDiscount: true},
			{AltID: "p3", Name: "Monitor", Category: "Pantallas", Price: price("100.00")},
		},
		users: []models.UserRecord{
			{ID: "1", Name: "Ana", Surname: "Diaz", Email: "ana@x.com", Password: "pw1", Role: "user", Active: true},
			{ID: "2", Name: "Root", Surname: "Admin", Email: "root@x.com", Password: "pw2", Role: "admin", Active: true},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /productos", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.products)
	})
	mux.HandleFunc("GET /usuarios", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]models.UserRecord, len(b.users))
		for i, u := range b.users {
			u.Password = ""
			out[i] = u
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /usuarios", func(w http.ResponseWriter, r *http.Request) {
		var u models.UserRecord
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.seq++
		u.ID = models.ID(fmt.Sprintf("u%d", b.seq))
		b.users = append(b.users, u)
		u.Password = ""
		writeJSON(w, http.StatusCreated, u)
	})
	mux.HandleFunc("PUT /usuarios/{id}", func(w http.ResponseWriter, r *http.Request) {
		var u models.UserRecord
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.users {
			if b.users[i].ID.String() == r.PathValue("id") {
				u.ID = b.users[i].ID
				if u.Password == "" {
					u.Password = b.users[i].Password
				}
				b.users[i] = u
				u.Password = ""
				writeJSON(w, http.StatusOK, u)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
	})
	mux.HandleFunc("PUT /usuarios/{id}/password", func(w http.ResponseWriter, r *http.Request) {
		var pc models.PasswordChange
		_ = json.NewDecoder(r.Body).Decode(&pc)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.users {
			if b.users[i].ID.String() == r.PathValue("id") {
				if b.users[i].Password != pc.Current {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Contraseña actual incorrecta"})
					return
				}
				b.users[i].Password = pc.Next
				writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var c models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, u := range b.users {
			if u.Email == c.Email && u.Password == c.Password {
				writeJSON(w, http.StatusOK, u.Identity())
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
	})
	mux.HandleFunc("GET /ordenes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		uid := r.URL.Query().Get("usuarioId")
		out := []models.Order{}
		for _, o := range b.orders {
			if uid == "" || o.UserID.String() == uid {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /ordenes", func(w http.ResponseWriter, r *http.Request) {
		var o models.Order
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.seq++
		o.ID = models.ID(fmt.Sprintf("o%d", b.seq))
		o.Status = models.StatusPending
		o.CreatedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC).Format(time.RFC3339)
		b.orders = append([]models.Order{o}, b.orders...)
		writeJSON(w, http.StatusCreated, o)
	})
	mux.HandleFunc("GET /ordenes/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, o := range b.orders {
			if o.ID.String() == r.PathValue("id") {
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Orden no encontrada"})
	})
	mux.HandleFunc("DELETE /ordenes/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.orders {
			if b.orders[i].ID.String() == r.PathValue("id") {
				b.orders[i].Status = models.StatusCancelled
				writeJSON(w, http.StatusOK, b.orders[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Orden no encontrada"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) user(email string) models.UserRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == email {
			return u
		}
	}
	return models.UserRecord{}
}

func (b *backend) orderList() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Order(nil), b.orders...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
