package matcher

import (
	"strings"

	"pos-reconciliation/internal/domain"
)

// BranchResolver maps POS branch identifiers to the store names used by the
// delivery platform.
type BranchResolver struct {
	mappings   []domain.BranchMapping
	lowerNames []string
}

// NewBranchResolver creates a resolver over the given mappings. Iteration
// order is preserved: when several mappings match, the first one wins.
func NewBranchResolver(mappings []domain.BranchMapping) *BranchResolver {
	r := &BranchResolver{
		mappings:   mappings,
		lowerNames: make([]string, len(mappings)),
	}
	for i, m := range mappings {
		r.lowerNames[i] = strings.ToLower(m.SourceName)
	}
	return r
}

// Resolve returns the canonical store name for a branch code or branch name.
// A mapping matches when its source code equals the identifier or its source
// name contains the identifier, ignoring case. The boolean is false when no
// mapping matches or the first matching mapping has no canonical name.
func (r *BranchResolver) Resolve(identifier string) (string, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || r == nil {
		return "", false
	}
	lower := strings.ToLower(identifier)
	for i, m := range r.mappings {
		if m.SourceCode == identifier || strings.Contains(r.lowerNames[i], lower) {
			return m.CanonicalName, m.CanonicalName != ""
		}
	}
	return "", false
}

// CanonicalBranch returns the grouping branch of a source record: the
// resolved store name if any, the raw branch identifier otherwise, and
// domain.UnknownKey when the record carries no branch at all.
func (r *BranchResolver) CanonicalBranch(rec *domain.SourceRecord) string {
	if name, ok := r.Resolve(rec.BranchName); ok {
		return name
	}
	if name, ok := r.Resolve(rec.BranchCode); ok {
		return name
	}
	if raw := rec.BranchIdentifier(); raw != "" {
		return raw
	}
	return domain.UnknownKey
}

func counterpartBranch(rec *domain.CounterpartRecord) string {
	if name := strings.TrimSpace(rec.StoreName); name != "" {
		return name
	}
	return domain.UnknownKey
}
