// SPDX-License-Identifier: MPL-2.0

// Package dag provides a directed graph over script names for ordering and
// cycle detection. It backs `uvextras validate`, which reports scripts whose
// depends-on entries form a loop.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError indicates that the graph contains a cycle.
	CycleError struct {
		// Cycle is one closed path through the graph; the first node is
		// repeated at the end.
		Cycle []string
	}

	// Graph is a directed graph. An edge from A to B means A must complete
	// before B starts. Nodes keep their insertion order so every result is
	// deterministic.
	Graph struct {
		adjacency map[string][]string
		nodes     []string
		nodeSet   map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are added if missing.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// TopologicalSort returns a valid execution order using Kahn's algorithm,
// or a CycleError naming one cycle. Nodes at the same level keep their
// insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	var queue []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.FindCycle()}
	}
	return result, nil
}

// FindCycle returns the first cycle found by a depth-first search started
// from each node in insertion order, or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		state[node] = onStack
		stack = append(stack, node)
		for _, next := range g.adjacency[node] {
			switch state[next] {
			case onStack:
				start := slices.Index(stack, next)
				return append(slices.Clone(stack[start:]), next)
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, node := range g.nodes {
		if state[node] == unvisited {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Cycles returns one closed path for each strongly connected component
// that contains a cycle, ordered by the first inserted node of the component.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	assigned := make(map[string]bool, len(g.nodes))
	reach := make(map[string]map[string]bool, len(g.nodes))
	reachable := func(node string) map[string]bool {
		r, ok := reach[node]
		if !ok {
			r = g.reachable(node)
			reach[node] = r
		}
		return r
	}

	for _, node := range g.nodes {
		if assigned[node] {
			continue
		}
		fromNode := reachable(node)
		component := []string{node}
		for _, other := range g.nodes {
			if other != node && !assigned[other] && fromNode[other] && reachable(other)[node] {
				component = append(component, other)
			}
		}
		for _, member := range component {
			assigned[member] = true
		}
		if len(component) == 1 && !fromNode[node] {
			continue
		}
		if cycle := g.subgraph(component).FindCycle(); cycle != nil {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

// reachable returns the nodes reachable from node through at least one edge.
func (g *Graph) reachable(node string) map[string]bool {
	seen := make(map[string]bool)
	pending := slices.Clone(g.adjacency[node])
	for len(pending) > 0 {
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[next] {
			continue
		}
		seen[next] = true
		pending = append(pending, g.adjacency[next]...)
	}
	return seen
}

// subgraph returns the graph induced by nodes, in the order given.
func (g *Graph) subgraph(nodes []string) *Graph {
	keep := make(map[string]bool, len(nodes))
	out := New()
	for _, n := range nodes {
		keep[n] = true
		out.AddNode(n)
	}
	for _, from := range nodes {
		for _, to := range g.adjacency[from] {
			if keep[to] {
				out.AddEdge(from, to)
			}
		}
	}
	return out
}
