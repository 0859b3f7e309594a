// Package common contains shared constants, the error taxonomy and small
// random-value helpers used across the storefront client.
package common

// ContentTypeJSON is the media type used for every request and response body
// exchanged with the storefront backend.
const ContentTypeJSON = "application/json"

// RoleAdmin is the role value granting the unfiltered order view.
const RoleAdmin = "admin"

// RoleUser is the role assigned to self-registered accounts.
const RoleUser = "user"
