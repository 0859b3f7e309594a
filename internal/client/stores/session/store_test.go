package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/persist"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = &common.Error{Kind: common.ErrNotFound, Status: 404, Message: "order not found"}

func newSession(t *testing.T, gw *fakeGateway, s persist.Store) *Store {
	t.Helper()
	st, err := New(context.Background(), gw, s, nil)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func seedIdentity(t *testing.T, s persist.Store, id models.Identity) {
	t.Helper()
	raw, err := json.Marshal(id)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), persist.KeyIdentity, raw))
}

func persistedIdentity(t *testing.T, s persist.Store) *models.Identity {
	t.Helper()
	raw, err := s.Get(context.Background(), persist.KeyIdentity)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var id models.Identity
	require.NoError(t, json.Unmarshal(raw, &id))
	return &id
}

func orderIDs(orders []models.Order) []models.ID {
	ids := make([]models.ID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "a", UserID: "7", Status: models.StatusPending, Total: decimal.NewFromInt(10)},
		{ID: "b", UserID: "8", Status: models.StatusPending, Total: decimal.NewFromInt(20)},
		{ID: "c", UserID: "7", Status: models.StatusCancelled, Total: decimal.NewFromInt(5)},
	}
}

func TestNew_RestoresPersistedIdentity(t *testing.T) {
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Email: "ana@x.com", Role: "user"})
	gw := &fakeGateway{}

	st := newSession(t, gw, s)

	id, ok := st.Identity()
	require.True(t, ok)
	assert.Equal(t, models.ID("7"), id.ID)
	assert.Empty(t, gw.Calls(), "construction does not touch the network")
}

func TestNew_MalformedIdentityIsAnonymous(t *testing.T) {
	for _, raw := range []string{`{"id":""}`, `"usuario"`, `{broken`, `null`} {
		t.Run(raw, func(t *testing.T) {
			s := persist.NewHub().Open()
			require.NoError(t, s.Set(context.Background(), persist.KeyIdentity, []byte(raw)))

			st := newSession(t, &fakeGateway{}, s)
			_, ok := st.Identity()
			assert.False(t, ok)
		})
	}
}

func TestRefresh_ReconcilesRoleBeforeDecidingScope(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "user"})

	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "admin"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, s)

	require.NoError(t, st.Refresh(ctx))

	assert.Equal(t, []string{"Users", "Orders"}, gw.Calls())
	assert.True(t, st.IsAdmin())
	assert.Equal(t, []models.ID{"a", "b", "c"}, orderIDs(st.Orders()))
	assert.Equal(t, "admin", persistedIdentity(t, s).Role)
}

func TestRefresh_UserScope(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})

	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "7", Role: "user"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, s)

	require.NoError(t, st.Refresh(ctx))
	assert.Equal(t, []string{"Users", "OrdersByUser 7"}, gw.Calls())
	assert.Equal(t, []models.ID{"a", "c"}, orderIDs(st.Orders()))
}

func TestRefresh_AdminDowngradeNarrowsScope(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "admin"})

	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "7", Role: "user"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, s)

	require.NoError(t, st.Refresh(ctx))
	assert.Equal(t, []string{"Users", "OrdersByUser 7"}, gw.Calls())
	assert.False(t, st.IsAdmin())
	assert.Equal(t, []models.ID{"a", "c"}, orderIDs(st.Orders()))
}

func TestRefresh_AnonymousFetchesUsersOnly(t *testing.T) {
	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "7", Email: "ana@x.com"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, persist.NewHub().Open())

	require.NoError(t, st.Refresh(context.Background()))
	assert.Equal(t, []string{"Users"}, gw.Calls())
	assert.Len(t, st.Users(), 1)
	assert.Empty(t, st.Orders())
}

func TestRefresh_FailureKeepsRegistries(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "7", Role: "user"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	gw.ordersErr = fmt.Errorf("%w: connection reset", common.ErrNetwork)
	err := st.Refresh(ctx)
	require.ErrorIs(t, err, common.ErrNetwork)

	assert.Len(t, st.Users(), 1)
	assert.Equal(t, []models.ID{"a", "c"}, orderIDs(st.Orders()))
	assert.ErrorIs(t, st.Status().Err, common.ErrNetwork)
	assert.False(t, st.Status().Refreshing)

	gw.ordersErr = nil
	require.NoError(t, st.Refresh(ctx))
	assert.NoError(t, st.Status().Err)
}

func TestRefresh_DiscardsResultsOfPreviousIdentity(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "1", Role: "admin"})

	gw := &fakeGateway{
		users:  []models.UserRecord{{ID: "1", Role: "admin"}},
		orders: sampleOrders(),
	}
	st := newSession(t, gw, s)

	gw.beforeUsers = func() {
		gw.beforeUsers = nil
		st.Logout(ctx)
	}

	require.NoError(t, st.Refresh(ctx))
	assert.Empty(t, st.Orders())
	assert.Empty(t, st.Users(), "stale registry is not committed")

	st.mu.Lock()
	assert.Nil(t, st.orders, "admin orders never reach the anonymous session")
	st.mu.Unlock()
}

func TestRefresh_KeepsOrderCreatedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "7", Role: "user"}}, orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	var created models.Order
	gw.beforeOrders = func() {
		var err error
		created, err = st.AddOrder(ctx, models.Order{Total: decimal.NewFromInt(4)})
		require.NoError(t, err)
		assert.Equal(t, []models.ID{created.ID, "a", "c"}, orderIDs(st.Orders()))
	}

	require.NoError(t, st.Refresh(ctx))
	assert.Equal(t, []models.ID{created.ID, "a", "c"}, orderIDs(st.Orders()))
}

func TestRefresh_KeepsCancellationMadeWhileInFlight(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "7", Role: "user"}}, orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	gw.beforeOrders = func() {
		_, err := st.CancelOrder(ctx, "a")
		require.NoError(t, err)
	}

	require.NoError(t, st.Refresh(ctx))
	orders := st.Orders()
	require.Equal(t, []models.ID{"a", "c"}, orderIDs(orders))
	assert.Equal(t, models.StatusCancelled, orders[0].Status)
}

func TestRefresh_ReplacesOrdersWithoutLocalChanges(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "7", Role: "user"}}, orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	gw.orders = gw.orders[1:]
	require.NoError(t, st.Refresh(ctx))
	assert.Equal(t, []models.ID{"c"}, orderIDs(st.Orders()))
}

func TestMergeOrders(t *testing.T) {
	fetched := []models.Order{
		{ID: "a", Status: models.StatusPending},
		{ID: "b", Status: models.StatusCancelled},
	}
	local := []models.Order{
		{ID: "n", Status: models.StatusPending},
		{ID: "a", Status: models.StatusCancelled},
		{ID: "b", Status: models.StatusPending},
	}

	got := mergeOrders(fetched, local)
	require.Equal(t, []models.ID{"n", "a", "b"}, orderIDs(got))
	assert.Equal(t, models.StatusCancelled, got[1].Status)
	assert.Equal(t, models.StatusCancelled, got[2].Status)
}

func TestLogin_CommitsIdentityAndRefreshes(t *testing.T) {
	s := persist.NewHub().Open()
	gw := &fakeGateway{
		loginIdentity: models.Identity{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "user"},
		users:         []models.UserRecord{{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "user"}},
		orders:        sampleOrders(),
	}
	st := newSession(t, gw, s)

	id, err := st.Login(context.Background(), " ana@x.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), id.ID)

	assert.Equal(t, []string{"Login", "Users", "OrdersByUser 7"}, gw.Calls())
	assert.Equal(t, "ana@x.com", persistedIdentity(t, s).Email)
	assert.Equal(t, []models.ID{"a", "c"}, orderIDs(st.Orders()))
}

func TestLogin_RefreshFailureDoesNotFailLogin(t *testing.T) {
	gw := &fakeGateway{
		loginIdentity: models.Identity{ID: "7", Role: "user"},
		usersErr:      fmt.Errorf("%w: offline", common.ErrNetwork),
	}
	st := newSession(t, gw, persist.NewHub().Open())

	_, err := st.Login(context.Background(), "ana@x.com", "pw")
	require.NoError(t, err)
	_, ok := st.Identity()
	assert.True(t, ok)
	assert.ErrorIs(t, st.Status().Err, common.ErrNetwork)
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", &common.Error{Kind: common.ErrRemote, Status: 401, Message: "Credenciales inválidas"}, "Credenciales inválidas"},
		{"no message", &common.Error{Kind: common.ErrRemote, Status: 400}, "login failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := persist.NewHub().Open()
			st := newSession(t, &fakeGateway{loginErr: tt.err}, s)

			_, err := st.Login(context.Background(), "ana@x.com", "bad")
			require.ErrorIs(t, err, common.ErrAuthentication)
			assert.Equal(t, tt.wantMsg, common.Message(err))

			_, ok := st.Identity()
			assert.False(t, ok)
			assert.Nil(t, persistedIdentity(t, s))
		})
	}
}

func TestLogin_NetworkErrorPassesThrough(t *testing.T) {
	st := newSession(t, &fakeGateway{loginErr: fmt.Errorf("%w: refused", common.ErrNetwork)}, persist.NewHub().Open())

	_, err := st.Login(context.Background(), "ana@x.com", "pw")
	require.ErrorIs(t, err, common.ErrNetwork)
	assert.NotErrorIs(t, err, common.ErrAuthentication)
}

func TestRegister_Validation(t *testing.T) {
	gw := &fakeGateway{}
	st := newSession(t, gw, persist.NewHub().Open())

	_, err := st.Register(context.Background(), Registration{Email: "", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = st.Register(context.Background(), Registration{Email: "a@b.com"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, gw.Calls())
}

func TestRegister_ConflictPerformsNoNetworkWrite(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{users: []models.UserRecord{{ID: "1", Email: "Ana@X.com"}}}
	st := newSession(t, gw, persist.NewHub().Open())
	require.NoError(t, st.Refresh(ctx))

	_, err := st.Register(ctx, Registration{Email: "ana@x.COM", Password: "pw"})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, []string{"Users"}, gw.Calls())
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	gw := &fakeGateway{}
	st := newSession(t, gw, s)

	id, err := st.Register(ctx, Registration{Name: "Ana", Surname: "Paz", Email: "ana@x.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, models.Identity{ID: "100", Name: "Ana", Surname: "Paz", Email: "ana@x.com", Role: "user", Active: true}, id)
	assert.Equal(t, []string{"CreateUser", "Users", "OrdersByUser 100"}, gw.Calls())

	raw, err := s.Get(ctx, persist.KeyIdentity)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	_, found := st.FindUserByEmail("ANA@x.com")
	assert.True(t, found)
}

func TestLogout_ClearsIdentityAndOrders(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	gw := &fakeGateway{
		loginIdentity: models.Identity{ID: "1", Role: "admin"},
		orders:        sampleOrders(),
	}
	st := newSession(t, gw, s)
	_, err := st.Login(ctx, "root@x.com", "pw")
	require.NoError(t, err)
	require.Len(t, st.Orders(), 3)

	st.Logout(ctx)

	_, ok := st.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.Orders())
	assert.Nil(t, persistedIdentity(t, s))
	st.mu.Lock()
	assert.Nil(t, st.orders)
	st.mu.Unlock()
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{}
	st := newSession(t, gw, s)

	assert.ErrorIs(t, st.ChangePassword(ctx, "7", "", "new"), common.ErrValidation)

	gw.passErr = &common.Error{Kind: common.ErrRemote, Status: 400, Message: "Contraseña actual incorrecta"}
	err := st.ChangePassword(ctx, "7", "wrong", "new")
	require.ErrorIs(t, err, common.ErrAuthentication)
	assert.Equal(t, "Contraseña actual incorrecta", common.Message(err))

	gw.passErr = &common.Error{Kind: common.ErrRemote, Status: 503}
	err = st.ChangePassword(ctx, "7", "old", "new")
	assert.NotErrorIs(t, err, common.ErrAuthentication)

	gw.passErr = nil
	require.NoError(t, st.ChangePassword(ctx, "7", "old", "new"))
	id, _ := st.Identity()
	assert.Equal(t, models.Identity{ID: "7", Role: "user"}, id)
}

func TestUpdateUser_UnknownIdIsSilentNoop(t *testing.T) {
	gw := &fakeGateway{}
	st := newSession(t, gw, persist.NewHub().Open())

	rec, err := st.UpdateUser(context.Background(), "404", models.UserPatch{})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, gw.Calls())
}

func TestUpdateUser_OtherUserLeavesIdentity(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "1", Name: "Root", Role: "admin"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "1", Name: "Root", Role: "admin"}, {ID: "7", Name: "Ana", Role: "user"}}}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	name := "Anita"
	rec, err := st.UpdateUser(ctx, "7", models.UserPatch{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Anita", rec.Name)
	assert.Equal(t, "user", rec.Role, "patch merges over the registry record")

	id, _ := st.Identity()
	assert.Equal(t, "Root", id.Name)
}

func TestUpdateUser_SessionUserPropagates(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "user"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "7", Name: "Ana", Email: "ana@x.com", Role: "user"}}}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	role := "admin"
	email := "ana@new.com"
	_, err := st.UpdateUser(ctx, "7", models.UserPatch{Role: &role, Email: &email})
	require.NoError(t, err)

	id, _ := st.Identity()
	assert.Equal(t, "admin", id.Role)
	assert.Equal(t, "ana@new.com", id.Email)
	assert.Equal(t, "admin", persistedIdentity(t, s).Role)
	assert.Len(t, st.refreshCh, 1, "scope change requests a refresh")
}

func TestAddOrder_RequiresSession(t *testing.T) {
	gw := &fakeGateway{}
	st := newSession(t, gw, persist.NewHub().Open())

	_, err := st.AddOrder(context.Background(), models.Order{})
	require.ErrorIs(t, err, common.ErrAuthentication)
	assert.Empty(t, gw.Calls())
}

func TestAddOrder_AttachesUserAndPrepends(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	created, err := st.AddOrder(ctx, models.Order{UserID: "999", Total: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), created.UserID)
	assert.Equal(t, []models.ID{created.ID, "a", "c"}, orderIDs(st.Orders()))
}

func TestCancelOrder_FallbackMarksCancelled(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	o, err := st.CancelOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, o.Status)
	assert.Equal(t, models.StatusCancelled, st.Orders()[0].Status)
}

func TestCancelOrder_UsesServerOrder(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	gw.cancelResult = &models.Order{ID: "a", UserID: "7", Status: models.StatusCancelled, CreatedAt: "2024-05-01T10:00:00Z"}
	_, err := st.CancelOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", st.Orders()[0].CreatedAt)
}

func TestCancelOrder_RefusesNonPending(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	_, err := st.CancelOrder(ctx, "c")
	require.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.NotContains(t, gw.Calls(), "CancelOrder c")
}

func TestCancelOrder_BackendFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	gw.cancelErr = &common.Error{Kind: common.ErrRemote, Status: 500, Message: "boom"}
	_, err := st.CancelOrder(ctx, "a")
	require.ErrorIs(t, err, common.ErrRemote)
	assert.Equal(t, models.StatusPending, st.Orders()[0].Status)
}

func TestOrderDetail_Visibility(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{orders: sampleOrders()}
	st := newSession(t, gw, s)

	o, err := st.OrderDetail(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.ID("a"), o.ID)

	_, err = st.OrderDetail(ctx, "b")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = st.OrderDetail(ctx, "zzz")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExternalIdentityChange(t *testing.T) {
	ctx := context.Background()
	hub := persist.NewHub()
	gwA := &fakeGateway{loginIdentity: models.Identity{ID: "7", Role: "user"}}
	a := newSession(t, gwA, hub.Open())
	b := newSession(t, &fakeGateway{}, hub.Open())

	_, err := a.Login(ctx, "ana@x.com", "pw")
	require.NoError(t, err)

	id, ok := b.Identity()
	require.True(t, ok)
	assert.Equal(t, models.ID("7"), id.ID)
	assert.Len(t, b.refreshCh, 1)

	a.Logout(ctx)
	_, ok = b.Identity()
	assert.False(t, ok)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	s := persist.NewHub().Open()
	seedIdentity(t, s, models.Identity{ID: "7", Role: "user"})
	gw := &fakeGateway{users: []models.UserRecord{{ID: "1", Role: "admin"}, {ID: "7", Role: "user", Active: true}}}
	st := newSession(t, gw, s)
	require.NoError(t, st.Refresh(ctx))

	_, err := st.ToggleActive("7")
	require.ErrorIs(t, err, common.ErrAuthentication)

	role := "admin"
	_, err = st.UpdateUser(ctx, "7", models.UserPatch{Role: &role})
	require.NoError(t, err)

	u, err := st.ToggleActive("7")
	require.NoError(t, err)
	assert.False(t, u.Active)
	assert.NotContains(t, gw.Calls(), "UpdateUser 1", "toggle is local only")

	_, err = st.ToggleActive("nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestForgotPassword(t *testing.T) {
	gw := &fakeGateway{users: []models.UserRecord{{ID: "1", Email: "Ana@X.com"}}}
	st := newSession(t, gw, persist.NewHub().Open())
	require.NoError(t, st.Refresh(context.Background()))

	assert.True(t, st.ForgotPassword("ana@x.com"))
	assert.False(t, st.ForgotPassword("bob@x.com"))
	assert.False(t, st.ForgotPassword(""))
}

func TestRun_ServesRefreshRequests(t *testing.T) {
	s := persist.NewHub().Open()
	gw := &fakeGateway{}
	st := newSession(t, gw, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = st.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(gw.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	st.requestRefresh()
	require.Eventually(t, func() bool { return len(gw.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
