// Package gateway is the client's only path to the storefront backend.
//
// # Overview
//
// Gateway lists the REST operations the stores rely on; HTTPGateway
// implements them over net/http with JSON bodies:
//
//	GET    /productos                catalog
//	GET    /usuarios                 user registry
//	POST   /usuarios                 register
//	PUT    /usuarios/{id}            update user
//	PUT    /usuarios/{id}/password   change password
//	POST   /login                    authenticate
//	GET    /ordenes[?usuarioId=id]   all / scoped orders
//	POST   /ordenes                  create order
//	GET    /ordenes/{id}             order detail
//	DELETE /ordenes/{id}             cancel order (soft status change)
//
// # Error Handling
//
// Transport failures wrap common.ErrNetwork. Non-2xx answers become a
// *common.Error whose Message is the backend's {"error": "..."} text when
// present, or an operation-specific fallback; 404 and 409 are classified as
// common.ErrNotFound and common.ErrConflict, everything else as
// common.ErrRemote. All of them match common.ErrRemote.
//
// No retries and no built-in timeout: a request lives as long as its context.
package gateway
