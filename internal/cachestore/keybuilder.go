package cachestore

import (
	"net/http"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates the cache identity for a request: method plus the full URL
// including the query string. Request bodies never contribute to identity.
func (kb *KeyBuilderImpl) Build(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	return method + " " + req.URL.String()
}
