package interfaces

import "net/http"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes requests into deterministic cache identities.
// Identity is method + full URL including the query string; request bodies
// never participate.
type KeyBuilder interface {
	Build(req *http.Request) string
}
