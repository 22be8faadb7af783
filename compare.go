package archspec

// LessOrEqual implements the partial order A ≤ B: true iff A == B, or A
// appears among B's ancestors.
func (m *Microarchitecture) LessOrEqual(other *Microarchitecture) bool {
	if m.Equal(other) {
		return true
	}
	return ancestorContains(other, m)
}

// Less implements A < B: A ≤ B and A != B.
func (m *Microarchitecture) Less(other *Microarchitecture) bool {
	return m.LessOrEqual(other) && !m.Equal(other)
}

// GreaterOrEqual implements A ≥ B.
func (m *Microarchitecture) GreaterOrEqual(other *Microarchitecture) bool {
	return other.LessOrEqual(m)
}

// Greater implements A > B.
func (m *Microarchitecture) Greater(other *Microarchitecture) bool {
	return other.Less(m)
}

// Comparable reports whether m and other are related by the partial order
// at all (one is an ancestor of the other, or they're equal). Two nodes in
// different families are never comparable, even if they share features.
func (m *Microarchitecture) Comparable(other *Microarchitecture) bool {
	return m.LessOrEqual(other) || other.LessOrEqual(m)
}

func ancestorContains(node, target *Microarchitecture) bool {
	for _, a := range node.Ancestors() {
		if a.Equal(target) {
			return true
		}
	}
	return false
}
