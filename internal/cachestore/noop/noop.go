package noop

import (
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// Ensure NoOpGenerationStore implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*NoOpGenerationStore)(nil)

// NoOpStore is a no-operation store implementation for disabled caching
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() interfaces.Store {
	return &NoOpStore{}
}

// Get always returns a cache miss
func (n *NoOpStore) Get(key string) (*models.CachedExchange, bool) {
	return nil, false
}

// Put does nothing
func (n *NoOpStore) Put(key string, exchange *models.CachedExchange) {
	// No-op
}

// Delete does nothing
func (n *NoOpStore) Delete(key string) {
	// No-op
}

// NoOpGenerationStore is a no-operation generation store for disabled caching
type NoOpGenerationStore struct{}

// NewNoOpGenerationStore creates a new no-operation generation store instance
func NewNoOpGenerationStore() interfaces.GenerationStore {
	return &NoOpGenerationStore{}
}

// Open returns a no-op store for any generation name
func (n *NoOpGenerationStore) Open(name string) (interfaces.Store, error) {
	return NewNoOpStore(), nil
}

// List returns no generations
func (n *NoOpGenerationStore) List() ([]string, error) {
	return nil, nil
}

// Delete does nothing
func (n *NoOpGenerationStore) Delete(name string) error {
	return nil
}

// Close does nothing
func (n *NoOpGenerationStore) Close() error {
	return nil
}
