// Package canonical maps raw instrument column names onto canonical parameter
// names using the static alias catalog, deduplicating multiple sensors of the
// same physical quantity with stable numeric suffixes.
package canonical

import (
	"fmt"

	"github.com/okian/seacast/internal/domain/params"
)

// Resolver resolves raw column names against the alias catalog.
type Resolver struct {
	catalog []params.Alias
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCatalog replaces the default alias catalog. Used by tests.
func WithCatalog(catalog []params.Alias) Option {
	return func(r *Resolver) {
		if catalog != nil {
			r.catalog = catalog
		}
	}
}

// NewResolver creates a Resolver over the default alias catalog.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{catalog: params.Catalog}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps every raw column name to its canonical name.
//
// Overrides are applied first and win unconditionally; their keys must belong
// to the allowed canonical parameter set. Remaining raw names are matched
// against the catalog in catalog order, either exactly or with a trailing
// numeric suffix. When k>1 raw columns resolve to the same canonical family,
// they are numbered name_1..name_k in first-seen raw order. Raw columns
// matching nothing map to themselves.
func (r *Resolver) Resolve(rawColumns []string, overrides map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(rawColumns))
	claimed := make(map[string]bool, len(overrides))

	// Overrides: canonical -> raw, validated against the allowed set.
	allowed := params.Allowed()
	for canonicalName, rawName := range overrides {
		if _, ok := allowed[canonicalName]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOverrideKey, canonicalName)
		}
		if rawName == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyOverrideValue, canonicalName)
		}
		result[rawName] = canonicalName
		claimed[rawName] = true
	}

	// Group remaining raw columns by canonical family, preserving first-seen
	// raw order within each family.
	families := make(map[string][]string)
	for _, raw := range rawColumns {
		if claimed[raw] {
			continue
		}
		canonicalName, ok := r.match(raw)
		if !ok {
			continue
		}
		families[canonicalName] = append(families[canonicalName], raw)
	}

	for canonicalName, members := range families {
		if len(members) == 1 {
			result[members[0]] = canonicalName
			continue
		}
		for i, raw := range members {
			result[raw] = fmt.Sprintf("%s_%d", canonicalName, i+1)
		}
	}

	// Unmatched columns pass through unchanged.
	for _, raw := range rawColumns {
		if _, ok := result[raw]; !ok {
			result[raw] = raw
		}
	}
	return result, nil
}

// match finds the first catalog entry with an alias matching the raw name.
// Catalog order is authoritative for cross-family collisions.
func (r *Resolver) match(raw string) (string, bool) {
	for _, entry := range r.catalog {
		for _, alias := range entry.Raw {
			if aliasMatches(alias, raw) {
				return entry.Canonical, true
			}
		}
	}
	return "", false
}

// aliasMatches reports whether raw equals alias or is alias followed by a
// numeric suffix, optionally separated by an underscore ("Temp_2", "Temp3").
func aliasMatches(alias, raw string) bool {
	if raw == alias {
		return true
	}
	if len(raw) <= len(alias) || raw[:len(alias)] != alias {
		return false
	}
	rest := raw[len(alias):]
	if rest[0] == '_' {
		rest = rest[1:]
	}
	if rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}
