package settings

import "context"

// KeyMaintenance holds a JSON boolean.
const KeyMaintenance = "maintenance"

// Repository is a key/value store of JSON-serialized scalars.
type Repository interface {
	// Get returns ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
