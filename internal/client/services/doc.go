// Package services contains the storefront flows that combine several
// stores: checkout, password reset and the administrator dashboard.
//
// Each service depends on narrow interfaces satisfied by the cart and
// session stores, so flows can be tested with small fakes.
package services
