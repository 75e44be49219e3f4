// Package cluster partitions scored candidate pairs into record
// equivalence classes via hierarchical agglomerative clustering on
// 1-probability distances.
//
// Cluster.ID is minted from a monotonic ULID entropy source for
// stable, time-sortable result IDs. The graph itself is built with
// gonum.org/v1/gonum/graph/simple (gonum is already in erecon's domain
// stack through gonum/mat for Trainer's IRLS solve); gonum has no built-in agglomerative clustering,
// so the merge loop is hand-rolled domain logic layered over the
// graph's adjacency.
package cluster

import (
	"crypto/rand"
	"sort"

	"github.com/oklog/ulid/v2"
	"gonum.org/v1/gonum/graph/simple"
)

// ThresholdFactor is a documented "not principled" constant relating a
// Scorer.GoodThreshold cutoff to the distance Clusterer cuts its
// dendrogram at: clusterThreshold = scoringThreshold * ThresholdFactor.
// Preserved as a named tunable rather than re-derived.
const ThresholdFactor = 0.7

// Edge is one scored candidate pair, as produced by score.Score.
type Edge struct {
	A, B        string
	Probability float64
}

// Cluster is one equivalence class of record IDs.
type Cluster struct {
	ID      string
	Members []string
}

var entropy = ulid.Monotonic(rand.Reader, 0)

// Run clusters edges via hierarchical agglomerative clustering, linking
// clusters by the mean 1-probability distance of the edges between them
// (average linkage over graph edges; no centroid is computed), deriving the cut distance from a Scorer.GoodThreshold
// value: clusterThreshold = scoringThreshold * ThresholdFactor.
func Run(edges []Edge, scoringThreshold float64) []Cluster {
	return RunAtThreshold(edges, scoringThreshold*ThresholdFactor)
}

// RunAtThreshold clusters edges directly at an explicit cut value,
// bypassing the ThresholdFactor derivation. Edges below clusterThreshold
// are dropped before the graph is built; records touched by no
// surviving edge never appear in the output. Ties —
// both at each merge step and in the returned cluster ordering — are
// broken by the lower minimum record ID.
func RunAtThreshold(edges []Edge, clusterThreshold float64) []Cluster {
	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Probability >= clusterThreshold {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	nodeOf, idOf := indexNodes(kept)
	g := buildGraph(nodeOf, kept)

	members := make(map[int64][]int64, len(nodeOf))
	clusterOf := make(map[int64]int64, len(nodeOf))
	for _, n := range nodeOf {
		members[n] = []int64{n}
		clusterOf[n] = n
	}

	cutDistance := 1 - clusterThreshold
	for {
		a, b, d, ok := nearestClusters(g, clusterOf, members, idOf)
		if !ok || d > cutDistance {
			break
		}
		mergeInto(members, clusterOf, a, b)
	}

	return finalize(members, idOf)
}

// indexNodes assigns a deterministic int64 ID to every record ID
// touched by kept, in lexicographic order of the record ID string, and
// returns both directions of the mapping.
func indexNodes(kept []Edge) (nodeOf map[string]int64, idOf map[int64]string) {
	seen := make(map[string]struct{})
	for _, e := range kept {
		seen[e.A] = struct{}{}
		seen[e.B] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	nodeOf = make(map[string]int64, len(names))
	idOf = make(map[int64]string, len(names))
	for i, n := range names {
		nodeOf[n] = int64(i)
		idOf[int64(i)] = n
	}
	return nodeOf, idOf
}

// buildGraph constructs the weighted undirected graph of records over
// kept edges, weighted by duplicate probability.
func buildGraph(nodeOf map[string]int64, kept []Edge) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for _, id := range nodeOf {
		g.AddNode(simple.Node(id))
	}
	for _, e := range kept {
		a, b := nodeOf[e.A], nodeOf[e.B]
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: e.Probability})
	}
	return g
}

// nearestClusters scans every original graph edge crossing a current
// cluster boundary and returns the pair of clusters whose mean
// inter-member distance (1-probability, averaged across all graph
// edges connecting the two clusters — an average-linkage approximation
// of centroid linkage, since records have no coordinate space to
// compute a true centroid over) is smallest. Ties are broken by the
// pair's lower minimum record ID.
func nearestClusters(
	g *simple.WeightedUndirectedGraph,
	clusterOf map[int64]int64,
	members map[int64][]int64,
	idOf map[int64]string,
) (a, b int64, dist float64, ok bool) {
	type acc struct {
		sum   float64
		count int
	}
	pairSums := make(map[[2]int64]*acc)

	edges := g.WeightedEdges()
	for edges.Next() {
		edge := edges.WeightedEdge()
		u, v := edge.From().ID(), edge.To().ID()
		cu, cv := clusterOf[u], clusterOf[v]
		if cu == cv {
			continue
		}
		key := clusterPairKey(cu, cv)
		if pairSums[key] == nil {
			pairSums[key] = &acc{}
		}
		pairSums[key].sum += 1 - edge.Weight()
		pairSums[key].count++
	}

	bestDist := 0.0
	found := false
	var bestA, bestB int64
	var bestTieID string

	for key, s := range pairSums {
		mean := s.sum / float64(s.count)
		tieID := minMemberID(members[key[0]], members[key[1]], idOf)
		if !found || mean < bestDist || (mean == bestDist && tieID < bestTieID) {
			found = true
			bestDist = mean
			bestA, bestB = key[0], key[1]
			bestTieID = tieID
		}
	}
	return bestA, bestB, bestDist, found
}

func clusterPairKey(a, b int64) [2]int64 {
	if a < b {
		return [2]int64{a, b}
	}
	return [2]int64{b, a}
}

func minMemberID(a, b []int64, idOf map[int64]string) string {
	min := ""
	for _, ids := range [][]int64{a, b} {
		for _, id := range ids {
			name := idOf[id]
			if min == "" || name < min {
				min = name
			}
		}
	}
	return min
}

// mergeInto folds cluster b's members into cluster a (or vice versa,
// always keeping the lower numeric cluster ID as the survivor so merges
// are deterministic regardless of discovery order).
func mergeInto(members map[int64][]int64, clusterOf map[int64]int64, a, b int64) {
	survivor, absorbed := a, b
	if b < a {
		survivor, absorbed = b, a
	}
	members[survivor] = append(members[survivor], members[absorbed]...)
	for _, id := range members[absorbed] {
		clusterOf[id] = survivor
	}
	delete(members, absorbed)
}

// finalize drops clusters that never merged (size 1 — singleton
// records not connected by any edge), mints a ULID per surviving
// cluster, and sorts members plus clusters deterministically by lowest
// member ID.
func finalize(members map[int64][]int64, idOf map[int64]string) []Cluster {
	var out []Cluster
	for _, ids := range members {
		if len(ids) < 2 {
			continue
		}
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = idOf[id]
		}
		sort.Strings(names)
		out = append(out, Cluster{ID: ulid.MustNew(ulid.Now(), entropy).String(), Members: names})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Members[0] < out[j].Members[0] })
	return out
}
