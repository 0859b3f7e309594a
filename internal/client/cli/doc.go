// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the durable key/value store, the HTTP gateway, the
// cart, session and catalog stores, and an interactive REPL. Two loops run
// in the background while the REPL is open: the session refresh loop and the
// store watcher that delivers changes made by other client processes.
//
// Key features:
//   - Catalog browsing by category
//   - Cart and saved-for-later management
//   - Register / Login / Logout, password change and reset
//   - Checkout, order history and cancellation
//   - Administrator views: all orders, users, dashboard
package cli
