package interfaces

import (
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

//go:generate mockgen -package=mock -source=store.go -destination=mock/store.go

// Store is one named cache generation: a key-value store of cached HTTP
// exchanges. Writes are idempotent by identity, last write wins.
type Store interface {
	Get(key string) (*models.CachedExchange, bool) // returns exchange and found flag
	Put(key string, exchange *models.CachedExchange)
	Delete(key string)
}

// GenerationStore owns the set of named generations. Exactly one generation
// is current at any time; the proxy deletes all others on activation.
type GenerationStore interface {
	// Open returns the Store for the named generation, creating it if absent.
	Open(name string) (Store, error)
	// List enumerates all known generation names.
	List() ([]string, error)
	// Delete evicts a whole generation and every exchange it holds.
	Delete(name string) error
	// Close releases backend resources.
	Close() error
}
