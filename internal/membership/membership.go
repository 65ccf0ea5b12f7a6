// Package membership reconciles many-to-many association sets.
//
// Add and Remove are separate operations and are never combined: a caller asks
// for one or the other, and gets back only the members that actually change.
// An empty change is reported as a NoChange error, which callers treat as a
// harmless outcome with no side effects.
package membership

import (
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// Op selects which half of a reconciliation to compute.
type Op int

// Reconciliation operations.
const (
	OpAdd Op = iota
	OpRemove
)

// Diff is the minimal change that takes current membership towards requested.
type Diff struct {
	ToAdd    []string
	ToRemove []string
	NoOp     bool
}

// Reconcile computes the members to add (requested minus current) or to remove
// (current intersected with requested). Inputs are treated as sets: duplicates
// collapse and the output keeps the order of requested.
func Reconcile(op Op, current, requested []string) Diff {
	have := make(map[string]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}

	var diff Diff
	seen := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		_, present := have[id]
		switch {
		case op == OpAdd && !present:
			diff.ToAdd = append(diff.ToAdd, id)
		case op == OpRemove && present:
			diff.ToRemove = append(diff.ToRemove, id)
		}
	}
	diff.NoOp = len(diff.ToAdd) == 0 && len(diff.ToRemove) == 0
	return diff
}

// Add returns identity-only references for the requested members that are not
// yet in current.
func Add(rel domain.Relation, current, requested []string) ([]domain.Ref, error) {
	diff := Reconcile(OpAdd, current, requested)
	if diff.NoOp {
		return nil, domainerrors.NoChange(fmt.Sprintf("%s already exist", rel.Members()))
	}
	return References(rel, diff.ToAdd), nil
}

// Remove returns the requested members that are present in current.
func Remove(rel domain.Relation, current, requested []string) ([]string, error) {
	diff := Reconcile(OpRemove, current, requested)
	if diff.NoOp {
		return nil, domainerrors.NoChange(fmt.Sprintf("no %s to remove", rel.Members()))
	}
	return diff.ToRemove, nil
}

// References builds identity-only references for ids.
func References(rel domain.Relation, ids []string) []domain.Ref {
	refs := make([]domain.Ref, len(ids))
	for i, id := range ids {
		refs[i] = domain.Ref{Relation: rel, ID: id}
	}
	return refs
}

// IDs extracts the member IDs of refs.
func IDs(refs []domain.Ref) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// Apply returns current with the given members added and removed, preserving
// the order of current and appending additions at the end.
func Apply(current, added, removed []string) []string {
	drop := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(current)+len(added))
	for _, id := range current {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return append(out, added...)
}
