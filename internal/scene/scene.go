// Package scene keeps the material and highlight state of a product model.
// The configurator writes it; render loops and API readers take snapshots.
package scene

import (
	"sort"
	"sync"

	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/palette"
)

// Node is the visual state of one part.
type Node struct {
	Name     string                `json:"name"`
	Material configurator.Material `json:"material"`
	Emissive palette.Color         `json:"emissive"`
}

// Scene stores nodes by name.
type Scene struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	rev   uint64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{nodes: map[string]*Node{}}
}

// SetMaterial replaces the material of a part, creating the node if needed.
func (s *Scene) SetMaterial(part string, m configurator.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.node(part).Material = m
	s.rev++
}

// SetColor changes the material color of a part.
func (s *Scene) SetColor(part string, c palette.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.node(part).Material.Color = c
	s.rev++
}

// SetHighlight toggles the emissive highlight of a part.
func (s *Scene) SetHighlight(part string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.node(part)
	if on {
		n.Emissive = palette.Highlight
	} else {
		n.Emissive = palette.Black
	}
	s.rev++
}

// Reset drops every node.
func (s *Scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = map[string]*Node{}
	s.rev++
}

// Node returns a copy of one node.
func (s *Scene) Node(part string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[part]
	if !ok {
		return Node{}, false
	}

	return *n, true
}

// Highlighted returns the sorted names of highlighted parts.
func (s *Scene) Highlighted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for name, n := range s.nodes {
		if n.Emissive != palette.Black {
			out = append(out, name)
		}
	}
	sort.Strings(out)

	return out
}

// Snapshot is a consistent copy of the scene.
type Snapshot struct {
	Revision uint64 `json:"revision"`
	Nodes    []Node `json:"nodes"`
}

// Snapshot returns every node sorted by name.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{Revision: s.rev, Nodes: make([]Node, 0, len(s.nodes))}
	for _, n := range s.nodes {
		out.Nodes = append(out.Nodes, *n)
	}
	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].Name < out.Nodes[j].Name })

	return out
}

// node returns the node of a part, creating it. Caller holds the write lock.
func (s *Scene) node(part string) *Node {
	n, ok := s.nodes[part]
	if !ok {
		n = &Node{Name: part}
		s.nodes[part] = n
	}

	return n
}
