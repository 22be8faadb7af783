package archspec

import (
	"sort"
	"sync"
)

// CompilerEntry ties a compiler version range to the flags that should be
// emitted for this node when that version matches.
type CompilerEntry struct {
	// VersionSpec is the raw spec string ("4.9:", "4.6:4.8.5", "8.0:", ...).
	VersionSpec string

	// FlagsTemplate contains {name} tokens substituted with AltName (if
	// set) or the node's own name when the entry is rendered.
	FlagsTemplate string

	// AltName overrides the {name} substitution, for compilers that use a
	// different spelling than the catalog's node name (e.g. "thunderx2t99").
	AltName string

	// Warnings, if set, is surfaced through the logging side-channel
	// whenever this entry is the one that matched.
	Warnings string

	spec *versionSpec // parsed once at catalog build time
}

// NodeSnapshot is the serializable view of a Microarchitecture returned by
// Snapshot — name, vendor, own (not inherited) features, parent names, and
// generation, matching the observable behavior of the original to_dict.
type NodeSnapshot struct {
	Name       string   `json:"name"`
	Vendor     string   `json:"vendor"`
	Features   []string `json:"features"`
	Parents    []string `json:"parents"`
	Generation int      `json:"generation"`
}

// Microarchitecture is a single node in the catalog's DAG: a named chip
// family with its own features, its parents, and the compiler flags needed
// to target it. Once the catalog that owns it has been built, a
// Microarchitecture is immutable and safe for concurrent use.
type Microarchitecture struct {
	Name       string
	Vendor     string
	Parents    []*Microarchitecture
	Features   map[string]struct{}
	Compilers  map[string][]CompilerEntry
	Generation int

	ancestorsOnce  sync.Once
	ancestorsCache []*Microarchitecture

	familyOnce  sync.Once
	familyCache *Microarchitecture
}

// NewGenericMicroarchitecture returns a standalone, parentless node with the
// "generic" vendor and no features, for architectures the catalog has no
// entry for.
// It is not owned by any Catalog: Ancestors() is empty and Family() is
// itself.
func NewGenericMicroarchitecture(name string) *Microarchitecture {
	return &Microarchitecture{
		Name:     name,
		Vendor:   "generic",
		Features: map[string]struct{}{},
	}
}

// Ancestors returns every node transitively reachable via Parents, ordered
// first-parent-first and deduplicated on first occurrence. self is excluded.
func (m *Microarchitecture) Ancestors() []*Microarchitecture {
	m.ancestorsOnce.Do(func() {
		seen := make(map[string]bool, len(m.Parents))
		var result []*Microarchitecture
		add := func(n *Microarchitecture) {
			if !seen[n.Name] {
				seen[n.Name] = true
				result = append(result, n)
			}
		}
		for _, p := range m.Parents {
			add(p)
		}
		for _, p := range m.Parents {
			for _, a := range p.Ancestors() {
				add(a)
			}
		}
		m.ancestorsCache = result
	})
	return m.ancestorsCache
}

// Family returns the root of this node's compatibility DAG: the last
// element of Ancestors(), or self if this node has no parents.
func (m *Microarchitecture) Family() *Microarchitecture {
	m.familyOnce.Do(func() {
		anc := m.Ancestors()
		if len(anc) == 0 {
			m.familyCache = m
			return
		}
		m.familyCache = anc[len(anc)-1]
	})
	return m.familyCache
}

// Contains reports whether feature is supported by this node, searching its
// own features first and then its ancestors' own features.
func (m *Microarchitecture) Contains(feature string) bool {
	if _, ok := m.Features[feature]; ok {
		return true
	}
	for _, a := range m.Ancestors() {
		if _, ok := a.Features[feature]; ok {
			return true
		}
	}
	return false
}

// InheritedFeatures returns the union of this node's own features and every
// ancestor's own features.
func (m *Microarchitecture) InheritedFeatures() map[string]struct{} {
	out := make(map[string]struct{}, len(m.Features))
	for f := range m.Features {
		out[f] = struct{}{}
	}
	for _, a := range m.Ancestors() {
		for f := range a.Features {
			out[f] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two nodes are the same catalog entry, by name.
func (m *Microarchitecture) Equal(other *Microarchitecture) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Name == other.Name
}

// String returns the node's name.
func (m *Microarchitecture) String() string { return m.Name }

// Snapshot returns a serializable view of this node. Features are the
// node's own (not inherited) features, sorted.
func (m *Microarchitecture) Snapshot() NodeSnapshot {
	features := make([]string, 0, len(m.Features))
	for f := range m.Features {
		features = append(features, f)
	}
	sort.Strings(features)

	parents := make([]string, len(m.Parents))
	for i, p := range m.Parents {
		parents[i] = p.Name
	}

	return NodeSnapshot{
		Name:       m.Name,
		Vendor:     m.Vendor,
		Features:   features,
		Parents:    parents,
		Generation: m.Generation,
	}
}
