package graph

import (
	"container/heap"
)

// Shortest-path search is Dijkstra's algorithm over a binary heap with lazy
// decrease-key: improved distances push a new heap entry and stale entries
// are skipped when popped. All weights are non-negative by construction.
//
// Relaxation only accepts strictly shorter distances, and heap entries with
// equal distance pop in push order, so equal-cost alternatives always keep
// the first predecessor found and results are deterministic.

type searchResult struct {
	dist map[string]float64
	prev map[string]string
}

// search runs a single-source search from source. When target is non-empty
// the search stops as soon as target is settled.
func (g *Generation) search(source, target string) searchResult {
	res := searchResult{
		dist: make(map[string]float64, len(g.order)),
		prev: make(map[string]string, len(g.order)),
	}
	for _, id := range g.order {
		res.dist[id] = Unreachable
	}
	res.dist[source] = 0

	settled := make(map[string]bool, len(g.order))
	pq := &nodePQ{}
	seq := 0
	heap.Push(pq, &nodeItem{id: source, dist: 0, seq: seq})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*nodeItem)
		u := item.id
		if settled[u] {
			continue
		}
		settled[u] = true
		if u == target {
			break
		}

		for _, e := range g.adjacency[u] {
			nd := res.dist[u] + e.Weight
			if nd >= res.dist[e.To] {
				continue
			}
			res.dist[e.To] = nd
			res.prev[e.To] = u
			seq++
			heap.Push(pq, &nodeItem{id: e.To, dist: nd, seq: seq})
		}
	}

	return res
}

// reconstruct walks predecessors back from destination. If destination was
// never reached the walk stops immediately and the result holds only
// destination.
func (r searchResult) reconstruct(destination string) []string {
	var rev []string
	for cur, ok := destination, true; ok; cur, ok = r.prev[cur] {
		rev = append(rev, cur)
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

type nodeItem struct {
	id   string
	dist float64
	seq  int
}

// nodePQ is a min-heap ordered by distance, then by push sequence.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
