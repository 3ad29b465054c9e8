package graph

import "sort"

// Components returns the connected components of the remaining graph as
// sorted node slices, ordered by their smallest member. Nodes without any
// remaining edge are not part of any component.
//
// Components drive the fragmentation optimization: disjoint components can
// be solved independently and their round counts summed.
func (g *Graph) Components() [][]Node {
	seen := make([]bool, g.n+1)
	var comps [][]Node

	for start := 1; start <= g.n; start++ {
		if seen[start] || g.Degree(Node(start)) == 0 {
			continue
		}
		var comp []Node
		queue := []Node{Node(start)}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			g.eachNeighbor(cur, func(nb Node) {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			})
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}

	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}

// Subgraph returns a new graph over the same node range containing only the
// remaining edges with both endpoints in nodes.
func (g *Graph) Subgraph(nodes []Node) *Graph {
	in := make([]bool, g.n+1)
	for _, n := range nodes {
		if g.valid(n) {
			in[n] = true
		}
	}
	sub, _ := NewEmpty(g.n)
	for _, e := range g.RemainingEdges() {
		if in[e.A] && in[e.B] {
			_ = sub.AddEdge(e.A, e.B)
		}
	}
	return sub
}
