package cache

import (
	"strings"
	"time"
)

// Cache namespaces. Every key belongs to exactly one namespace and eviction
// after a mutation is always namespace-wide.
const (
	NamespaceLoans      = "loans"
	NamespaceUsers      = "users"
	NamespaceStatistics = "statistics"
)

// Store is a namespaced key-value cache with per-entry TTL.
// Absence of a key is not an error: Get reports a miss and the caller
// recomputes and repopulates.
type Store interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, ttl time.Duration) error
	Invalidate(key string) error
	InvalidateNamespace(ns string) error
}

// Key builds a cache key inside a namespace
func Key(ns string, parts ...string) string {
	return ns + ":" + strings.Join(parts, ":")
}
