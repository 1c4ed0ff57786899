package dag

import (
	"cmp"
	"container/heap"
)

// TopoSort returns every node ordered so that each node comes after all of
// its dependencies. Among nodes that are ready at the same time, the smallest
// key comes first. A cycle yields a *CycleError.
func (g *Graph[K]) TopoSort() ([]K, error) {
	g.mutex.RLock()
	indegree := make(map[K]int, len(g.nodes))
	ready := &keyHeap[K]{}
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	order := make([]K, 0, len(g.nodes))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(K)
		order = append(order, id)
		for dep := range g.nodes[id].dependents {
			indegree[dep]--
			if indegree[dep] == 0 {
				heap.Push(ready, dep)
			}
		}
	}
	complete := len(order) == len(g.nodes)
	g.mutex.RUnlock()

	if !complete {
		if err := g.DetectCycles(); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// keyHeap is a min-heap of node keys.
type keyHeap[K cmp.Ordered] []K

func (h keyHeap[K]) Len() int           { return len(h) }
func (h keyHeap[K]) Less(i, j int) bool { return h[i] < h[j] }
func (h keyHeap[K]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *keyHeap[K]) Push(x any)        { *h = append(*h, x.(K)) }
func (h *keyHeap[K]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
