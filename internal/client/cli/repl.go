package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errUsage marks a command invoked with the wrong arguments; the REPL prints
// the message as is.
var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Products(ctx context.Context, args []string) error
	Categories(ctx context.Context) error

	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Quantity(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
	Unsave(ctx context.Context, args []string) error
	Cart(ctx context.Context) error
	Clear(ctx context.Context) error

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ForgotPassword(ctx context.Context) error

	Checkout(ctx context.Context) error
	Orders(ctx context.Context) error
	Order(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error

	Users(ctx context.Context) error
	Toggle(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
	Refresh(ctx context.Context) error
}

const (
	helpGuest = "Available commands: products [category], categories, add <id> [qty], remove <id>, qty <id> <n>, " +
		"save <id>, restore <id>, unsave <id>, cart, clear, register, login, forgot, exit"
	helpUser = "Available commands: products [category], categories, add <id> [qty], remove <id>, qty <id> <n>, " +
		"save <id>, restore <id>, unsave <id>, cart, clear, checkout, orders, order <id>, cancel <id>, " +
		"whoami, passwd, refresh, logout, exit"
	helpAdmin = helpUser + "\nAdmin commands: users, toggle <id>, dashboard"
)

// runREPL starts a read–eval–print loop for the storefront CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, on context
// cancellation, or when the user types "exit" or "quit". Handler errors are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("shop %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}

		case "products", "p":
			cmdErr = a.Products(ctx, args)
		case "categories":
			cmdErr = a.Categories(ctx)

		case "add":
			cmdErr = a.Add(ctx, args)
		case "remove", "rm":
			cmdErr = a.Remove(ctx, args)
		case "qty":
			cmdErr = a.Quantity(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)
		case "restore":
			cmdErr = a.Restore(ctx, args)
		case "unsave":
			cmdErr = a.Unsave(ctx, args)
		case "cart", "c":
			cmdErr = a.Cart(ctx)
		case "clear":
			cmdErr = a.Clear(ctx)

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)
		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "checkout":
			cmdErr = a.Checkout(ctx)
		case "orders", "o":
			cmdErr = a.Orders(ctx)
		case "order":
			cmdErr = a.Order(ctx, args)
		case "cancel":
			cmdErr = a.Cancel(ctx, args)

		case "users":
			cmdErr = a.Users(ctx)
		case "toggle":
			cmdErr = a.Toggle(ctx, args)
		case "dashboard":
			cmdErr = a.Dashboard(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			reportError(cmdErr)
		}
		if err != nil {
			return
		}
	}
}

func reportError(err error) {
	if errors.Is(err, errUsage) {
		printlnFn(strings.Replace(err.Error(), "usage: ", "Usage: ", 1))
		return
	}
	printlnFn("Error:", common.Message(err))
}
