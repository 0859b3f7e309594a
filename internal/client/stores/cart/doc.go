// Package cart owns the shopping cart and the saved-for-later list.
//
// Both collections are keyed by product id: a given id appears at most once
// in the cart, at most once in the saved list, and never in both. Every
// mutation computes its result from the latest committed state under the
// store lock and then persists the affected collections in mutation order.
// Changes written by another context replace the local collections
// wholesale and are not written back.
package cart
