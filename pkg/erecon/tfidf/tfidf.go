// Package tfidf builds an inverted index over whitespace-tokenized field
// concatenations and answers cosine-similarity canopy queries against
// it. Used both at blocking time (canopy predicates) and at learning
// time (TF-IDF-threshold predicate evaluation). Per-token and
// per-document statistics accumulate into plain maps, with pure query
// methods layered on top; dot products and norms go through
// gonum.org/v1/gonum/floats rather than hand-rolled loops.
package tfidf

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// Index is an inverted index over record token sets, supporting
// cosine-similarity canopy queries.
type Index struct {
	fields []string // which record fields are concatenated and tokenized

	docTokens map[string][]string   // record id -> token list (with repeats, for TF)
	postings  map[string][]string   // token -> record ids containing it (unique)
	df        map[string]int        // token -> document frequency
	vectors   map[string]tfidfVec   // record id -> sparse TF-IDF vector (cached)
	n         int                   // total document count
	order     []string              // record ids in insertion order, for determinism
}

type tfidfVec map[string]float64

// New builds an empty Index over the given fields. Records are added via
// Add; queries are only meaningful after at least one Add.
func New(fields []string) *Index {
	return &Index{
		fields:    append([]string(nil), fields...),
		docTokens: make(map[string][]string),
		postings:  make(map[string][]string),
		df:        make(map[string]int),
		vectors:   make(map[string]tfidfVec),
	}
}

// Add indexes a record's selected fields. Calling Add twice with the same
// record ID replaces the prior entry's contribution to document
// frequency before re-adding, so repeated indexing is idempotent.
func (idx *Index) Add(rec model.Record) {
	if _, exists := idx.docTokens[rec.ID]; exists {
		idx.remove(rec.ID)
	} else {
		idx.order = append(idx.order, rec.ID)
	}

	var all []string
	for _, f := range idx.fields {
		if v, ok := rec.Get(f); ok {
			all = append(all, tokenize(v)...)
		}
	}
	idx.docTokens[rec.ID] = all
	idx.n++

	seen := make(map[string]struct{}, len(all))
	for _, tok := range all {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		idx.df[tok]++
		idx.postings[tok] = append(idx.postings[tok], rec.ID)
	}

	// Invalidate cached vectors: df changed for every token this doc
	// contains, which can shift idf for any other doc sharing a token.
	idx.vectors = make(map[string]tfidfVec)
}

func (idx *Index) remove(id string) {
	toks := idx.docTokens[id]
	seen := make(map[string]struct{}, len(toks))
	for _, tok := range toks {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		idx.df[tok]--
		if idx.df[tok] <= 0 {
			delete(idx.df, tok)
			delete(idx.postings, tok)
		} else {
			idx.postings[tok] = removeID(idx.postings[tok], id)
		}
	}
	delete(idx.docTokens, id)
	idx.n--
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// vectorFor computes (or returns the cached) TF-IDF vector for a
// document's token list, using raw term frequency times smoothed
// inverse document frequency, log((n+1)/(df+1)) + 1, which stays
// positive even for a token present in every document.
func (idx *Index) vectorFor(id string, toks []string) tfidfVec {
	if v, ok := idx.vectors[id]; ok {
		return v
	}

	tf := make(map[string]int, len(toks))
	for _, tok := range toks {
		tf[tok]++
	}

	vec := make(tfidfVec, len(tf))
	for tok, count := range tf {
		idf := math.Log(float64(idx.n+1)/float64(idx.df[tok]+1)) + 1
		vec[tok] = float64(count) * idf
	}

	if id != "" {
		idx.vectors[id] = vec
	}
	return vec
}

// VectorForRecord computes the TF-IDF vector for an arbitrary record
// against the index's current document frequencies, without indexing it
// (used for query-time canopy lookups where the query record may not yet
// be a member of the index).
func (idx *Index) VectorForRecord(rec model.Record) map[string]float64 {
	var all []string
	for _, f := range idx.fields {
		if v, ok := rec.Get(f); ok {
			all = append(all, tokenize(v)...)
		}
	}
	return idx.vectorFor("", all)
}

// cosine computes cosine similarity between two sparse vectors over a
// shared vocabulary, via gonum/floats dot products on dense projections
// of the (small) shared key set.
func cosine(a, b tfidfVec) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	av := make([]float64, len(keys))
	bv := make([]float64, len(keys))
	for i, k := range keys {
		av[i] = a[k]
		bv[i] = b[k]
	}

	dot := floats.Dot(av, bv)
	normA := floats.Norm(denseOf(a), 2)
	normB := floats.Norm(denseOf(b), 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

func denseOf(v tfidfVec) []float64 {
	out := make([]float64, 0, len(v))
	for _, val := range v {
		out = append(out, val)
	}
	return out
}

// Query returns all record IDs in the index whose TF-IDF cosine
// similarity to rec is >= tau, sorted for determinism.
func (idx *Index) Query(rec model.Record, tau float64) []string {
	qVec := idx.VectorForRecord(rec)
	if len(qVec) == 0 {
		return nil
	}

	// Only consider docs sharing at least one token (cosine is 0 otherwise).
	candidates := make(map[string]struct{})
	for tok := range qVec {
		for _, id := range idx.postings[tok] {
			candidates[id] = struct{}{}
		}
	}

	var out []string
	for id := range candidates {
		dVec := idx.vectorFor(id, idx.docTokens[id])
		if cosine(qVec, dVec) >= tau {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Cosine exposes the similarity computation between two records'
// TF-IDF vectors directly: the same measure Query applies. The TF-IDF
// canopy predicate in pkg/erecon/predicates calls Query, not Cosine.
func (idx *Index) Cosine(a, b model.Record) float64 {
	return cosine(idx.VectorForRecord(a), idx.VectorForRecord(b))
}

// DocFrequency returns the document frequency of a token, mostly useful
// for tests and diagnostics.
func (idx *Index) DocFrequency(token string) int {
	return idx.df[token]
}

// N returns the total number of indexed documents.
func (idx *Index) N() int {
	return idx.n
}
