// Package session owns the authenticated identity, the user registry and the
// order registry of one client.
//
// Lifecycle: anonymous -> authenticated on Login or Register, back to
// anonymous on Logout. A persisted identity puts a new Store directly into
// the authenticated state; Run then reconciles it against the registry.
//
// Refresh is a two-step pipeline: the user registry is fetched and the cached
// identity reconciled first, and only then is the order scope decided from
// the reconciled role. Every change of identity id bumps a generation
// counter and empties the order registry, so results of requests started for
// a previous identity are dropped instead of leaking into the new one.
//
// Orders are never exposed directly: Orders applies Visible to the current
// identity on every call.
package session
