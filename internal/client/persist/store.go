package persist

import "context"

// Keys of the persisted client slices.
const (
	KeyCart     = "carrito"
	KeySaved    = "guardados"
	KeyIdentity = "usuarioLogueado"
)

// ChangeFunc receives the new raw value of a key. A nil value means the key
// was deleted.
type ChangeFunc func(value []byte)

// Store is a durable key/value store shared between execution contexts.
type Store interface {
	// Get returns the stored value, or nil without error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Watch registers fn for changes of key made by other contexts. Writes made
	// through this Store are never reported back to it.
	Watch(key string, fn ChangeFunc) (cancel func(), err error)

	// Origin identifies this Store among the contexts sharing the data.
	Origin() string
	Close() error
}
