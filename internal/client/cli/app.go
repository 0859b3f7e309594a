package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/client/stores/cart"
	"github.com/dmitrijs2005/storefront/internal/client/stores/catalog"
	"github.com/dmitrijs2005/storefront/internal/client/stores/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// rateBurst is the request burst allowed on top of the configured rate.
const rateBurst = 5

type App struct {
	config    *config.Config
	log       logging.Logger
	storage   *storage
	catalog   *catalog.Store
	cart      *cart.Store
	session   *session.Store
	checkout  services.CheckoutService
	passwords services.PasswordService
	reader    *bufio.Reader
	out       io.Writer
}

// NewLogger builds the logger selected by c.LogFormat: "text" writes slog
// text records to stderr, anything else uses zap.
func NewLogger(c *config.Config) (logging.Logger, error) {
	if c.LogFormat == "text" {
		return logging.NewText(os.Stderr, c.LogLevel), nil
	}
	z, err := logging.NewZap(c.Env, c.LogLevel)
	if err != nil {
		return nil, err
	}
	return z, nil
}

// NewApp opens the configured storage, connects the gateway and builds the
// stores. The caller must Run or Close the returned App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := openStorage(ctx, c, log)
	if err != nil {
		log.Error(ctx, "error opening storage", "storage", c.Storage, "error", err)
		return nil, err
	}

	gw := gateway.NewHTTPGateway(c.APIURL,
		gateway.WithRateLimit(c.RateLimit, rateBurst),
		gateway.WithLogger(log),
	)

	a, err := newApp(ctx, c, gw, st, log, os.Stdin, os.Stdout)
	if err != nil {
		_ = st.close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, gw gateway.Gateway, st *storage, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	cs, err := cart.New(ctx, st.store, log)
	if err != nil {
		return nil, fmt.Errorf("cart store: %w", err)
	}
	ss, err := session.New(ctx, gw, st.store, log)
	if err != nil {
		cs.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	return &App{
		config:    c,
		log:       log,
		storage:   st,
		catalog:   catalog.New(gw, log),
		cart:      cs,
		session:   ss,
		checkout:  services.NewCheckoutService(cs, ss, log),
		passwords: services.NewPasswordService(ss, log),
		reader:    bufio.NewReader(in),
		out:       out,
	}, nil
}

// Run starts the background loops, serves the REPL until the user leaves or
// ctx is cancelled, then stops the loops and closes the stores.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.session.Run(gctx) })
	if a.storage.watch != nil {
		g.Go(func() error {
			superviseWatch(gctx, a.storage.watch, a.log)
			return nil
		})
	}

	printlnFn("Storefront CLI (type 'help' for commands)")
	if err := a.catalog.Load(gctx); err != nil {
		printlnFn("Catalog unavailable:", err)
	}

	runREPL(gctx, a, a.status, a.reader)

	cancel()
	return g.Wait()
}

// Close releases the stores and the storage backend.
func (a *App) Close() {
	a.cart.Close()
	a.session.Close()
	if err := a.storage.close(); err != nil {
		a.log.Warn(context.Background(), "error closing storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Identity()
	return ok
}

func (a *App) isAdmin() bool {
	return a.session.IsAdmin()
}

// status renders the prompt badge: who is logged in and the cart size.
func (a *App) status() string {
	var b strings.Builder
	if id, ok := a.session.Identity(); ok {
		b.WriteString(id.Email)
		if a.session.IsAdmin() {
			b.WriteString(" [admin]")
		}
	} else {
		b.WriteString("guest")
	}
	if n := a.cart.Count(); n > 0 {
		fmt.Fprintf(&b, " cart:%d", n)
	}
	if st := a.session.Status(); st.Refreshing {
		b.WriteString(" ~")
	}
	return b.String()
}
