// Package blocker applies a learned predicate disjunction to a record
// set, grouping records into blocks and yielding deduplicated candidate
// pairs.
package blocker

import (
	"sort"

	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
)

// Blocker groups records by the blocking keys a disjunction of clauses
// produces and yields deduplicated candidate pairs. Most disjunctions
// are plain predicates (single-member clauses); BlockingLearner may also
// select pairwise conjunctions, which New's callers express as
// multi-member Clauses via NewFromClauses.
type Blocker struct {
	Clauses []predicates.Clause
	Index   predicates.Index
}

// New builds a Blocker for a disjunction of plain predicates.
func New(disjunction []predicates.Predicate, idx predicates.Index) *Blocker {
	clauses := make([]predicates.Clause, len(disjunction))
	for i, p := range disjunction {
		clauses[i] = predicates.Clause{p}
	}
	return &Blocker{Clauses: clauses, Index: idx}
}

// NewFromClauses builds a Blocker for a disjunction that may include
// multi-predicate conjunctions, as BlockingLearner produces.
func NewFromClauses(clauses []predicates.Clause, idx predicates.Index) *Blocker {
	return &Blocker{Clauses: clauses, Index: idx}
}

// Keys returns every blocking key the disjunction produces for one
// record, across all clauses.
func (b *Blocker) Keys(rec model.Record) [][]byte {
	var out [][]byte
	for _, c := range b.Clauses {
		out = append(out, predicates.ClauseKeys(c, rec, b.Index)...)
	}
	return out
}

// Block groups records sharing at least one blocking key and returns
// the blocks with size >= 2, sorted by a deterministic representative
// key so iteration order is stable across runs.
func (b *Blocker) Block(records []model.Record) [][]model.Record {
	groups := make(map[string][]model.Record)
	var order []string

	for _, rec := range records {
		seenKeyForRec := make(map[string]struct{})
		for _, key := range b.Keys(rec) {
			sk := string(key)
			if _, dup := seenKeyForRec[sk]; dup {
				continue
			}
			seenKeyForRec[sk] = struct{}{}
			if _, exists := groups[sk]; !exists {
				order = append(order, sk)
			}
			groups[sk] = append(groups[sk], rec)
		}
	}

	sort.Strings(order)

	var blocks [][]model.Record
	for _, k := range order {
		if len(groups[k]) >= 2 {
			blocks = append(blocks, groups[k])
		}
	}
	return blocks
}

// CandidatePairs returns every unordered record pair appearing together
// in at least one block, deduplicated across blocks via canonical
// (min_id, max_id) ordering.
func (b *Blocker) CandidatePairs(records []model.Record) []model.Pair {
	blocks := b.Block(records)
	seen := make(map[[2]string]struct{})
	var out []model.Pair

	for _, block := range blocks {
		for i := 0; i < len(block); i++ {
			for j := i + 1; j < len(block); j++ {
				pair := model.NewPair(block[i], block[j])
				key := pair.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, pair)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Key(), out[j].Key()
		if ki[0] != kj[0] {
			return ki[0] < kj[0]
		}
		return ki[1] < kj[1]
	})
	return out
}
