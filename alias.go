package archspec

// AliasContext is the evaluation context an alias predicate runs against:
// the raw probe record plus the OS it came from.
type AliasContext struct {
	Vendor string
	OS     string
	Raw    map[string]struct{}
	Extra  map[string]string
}

func (c AliasContext) hasRaw(token string) bool {
	_, ok := c.Raw[token]
	return ok
}

// AliasPredicate gates a conditional alias rule. A zero-value predicate
// (all fields empty) always matches, making the rule unconditional. Every
// non-empty field must hold for the predicate to match — fields are ANDed.
type AliasPredicate struct {
	// Vendor, if set, must equal the context's vendor exactly.
	Vendor string

	// OS, if set, must equal the context's OS ("linux", "darwin").
	OS string

	// RequireRaw, if set, must be present among the context's raw tokens.
	RequireRaw string

	// ForbidRaw, if set, must be absent from the context's raw tokens.
	ForbidRaw string

	// ExtraKey/ExtraValue, if ExtraKey is set, require an exact literal
	// match against an OS-sourced key (e.g. "CPU implementer" from
	// /proc/cpuinfo, or a "machdep.cpu.*" sysctl).
	ExtraKey   string
	ExtraValue string
}

func (p *AliasPredicate) matches(ctx AliasContext) bool {
	if p == nil {
		return true
	}
	if p.Vendor != "" && p.Vendor != ctx.Vendor {
		return false
	}
	if p.OS != "" && p.OS != ctx.OS {
		return false
	}
	if p.RequireRaw != "" && !ctx.hasRaw(p.RequireRaw) {
		return false
	}
	if p.ForbidRaw != "" && ctx.hasRaw(p.ForbidRaw) {
		return false
	}
	if p.ExtraKey != "" && ctx.Extra[p.ExtraKey] != p.ExtraValue {
		return false
	}
	return true
}

// AliasRule maps a single raw token to a canonical catalog feature name,
// optionally gated by a predicate. The rule fires when Raw is present in
// the probe's raw token set and Predicate (if any) matches.
type AliasRule struct {
	Raw       string
	Canonical string
	Predicate *AliasPredicate
}

// AliasTable is an ordered list of alias rules, applied in declaration
// order. Rules never remove a raw token — they only add canonical names
// alongside it — so unknown raw tokens pass through unchanged.
type AliasTable struct {
	rules []AliasRule
}

func newAliasTable(rules []AliasRule) *AliasTable {
	return &AliasTable{rules: rules}
}

// Resolve canonicalizes a raw feature set: every raw token is kept as-is
// (pass-through for unknown tokens), and every matching rule additionally
// contributes its canonical name. Duplicates collapse naturally since the
// result is a set.
func (t *AliasTable) Resolve(ctx AliasContext) map[string]struct{} {
	out := make(map[string]struct{}, len(ctx.Raw))
	for raw := range ctx.Raw {
		out[raw] = struct{}{}
	}
	for _, rule := range t.rules {
		if !ctx.hasRaw(rule.Raw) {
			continue
		}
		if rule.Predicate.matches(ctx) {
			out[rule.Canonical] = struct{}{}
		}
	}
	return out
}
