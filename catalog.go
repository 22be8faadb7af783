package archspec

import (
	"os"
	"sort"
	"sync"
)

// Catalog is the fully built, immutable microarchitecture DAG plus its
// alias table. Once returned from Load or DefaultCatalog, a Catalog and
// every Microarchitecture it owns never change — concurrent readers need
// no further synchronization.
type Catalog struct {
	nodes       map[string]*Microarchitecture
	aliases     *AliasTable
	conversions map[string]map[string]string
}

// Lookup returns the node with the given name, if known.
func (c *Catalog) Lookup(name string) (*Microarchitecture, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// All returns every node in the catalog, sorted by name.
func (c *Catalog) All() []*Microarchitecture {
	out := make([]*Microarchitecture, 0, len(c.nodes))
	for _, n := range c.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted list of every known microarchitecture name.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.nodes))
	for name := range c.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Conversion returns the named secondary-aliasing table (e.g.
// "darwin_flags", "arm_vendors"), if the knowledge base defines one.
func (c *Catalog) Conversion(table string) (map[string]string, bool) {
	conv, ok := c.conversions[table]
	return conv, ok
}

// ResolveFeatures canonicalizes a raw probe's feature tokens using the
// catalog's alias table (C4).
func (c *Catalog) ResolveFeatures(ctx AliasContext) map[string]struct{} {
	return c.aliases.Resolve(ctx)
}

// LoadOptions controls where a Catalog's knowledge base comes from. The
// zero value reproduces the built-in embedded knowledge base.
type LoadOptions struct {
	// ReplacementDir, if set, replaces the built-in knowledge base
	// wholesale — nothing embedded is consulted. Corresponds to
	// ARCHSPEC_CPU_DIR.
	ReplacementDir string

	// OverlayDir, if set, is merged on top of the base knowledge base at
	// top-level-attribute granularity. Corresponds to
	// ARCHSPEC_EXTENSION_CPU_DIR. The overlay applies after whichever base
	// was selected, including one loaded from ReplacementDir.
	OverlayDir string
}

func optionsFromEnv() LoadOptions {
	return LoadOptions{
		ReplacementDir: os.Getenv("ARCHSPEC_CPU_DIR"),
		OverlayDir:     os.Getenv("ARCHSPEC_EXTENSION_CPU_DIR"),
	}
}

// Load builds a Catalog from the given options. Each call performs a fresh
// build; callers that want the process-wide cached instance should use
// DefaultCatalog instead.
func Load(opts LoadOptions) (*Catalog, error) {
	var kb *knowledgeBase
	var err error

	if opts.ReplacementDir != "" {
		kb, err = loadKnowledgeBaseDir(opts.ReplacementDir)
	} else {
		kb, err = decodeKnowledgeBase(defaultKnowledgeBaseJSON)
	}
	if err != nil {
		return nil, err
	}

	if opts.OverlayDir != "" {
		overlay, oerr := loadKnowledgeBaseDir(opts.OverlayDir)
		if oerr != nil {
			return nil, oerr
		}
		kb = mergeOverlay(kb, overlay)
	}

	return buildCatalog(kb)
}

var (
	defaultOnce       sync.Once
	defaultCatalog    *Catalog
	defaultCatalogErr error
)

// DefaultCatalog returns the process-wide catalog, built exactly once from
// the environment (ARCHSPEC_CPU_DIR / ARCHSPEC_EXTENSION_CPU_DIR) on first
// access and cached for the lifetime of the process: serialized first-touch,
// immutable publication to concurrent readers.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = Load(optionsFromEnv())
	})
	return defaultCatalog, defaultCatalogErr
}

// Lookup is a convenience wrapper returning a node from the default
// catalog by name.
func Lookup(name string) (*Microarchitecture, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	n, ok := cat.Lookup(name)
	if !ok {
		return nil, newCatalogError("unknown microarchitecture %q", name)
	}
	return n, nil
}

// build state used while resolving "from" references into node pointers.
type buildState int

const (
	stateUnvisited buildState = iota
	stateVisiting
	stateDone
)

// buildCatalog resolves every node's parents into pointers, detecting
// cycles and dangling references, and compiles every compiler entry's
// version spec up front so malformed specs fail here rather than at query
// time.
func buildCatalog(kb *knowledgeBase) (*Catalog, error) {
	nodes := make(map[string]*Microarchitecture, len(kb.Microarchitectures))
	state := make(map[string]buildState, len(kb.Microarchitectures))

	var build func(name string) (*Microarchitecture, error)
	build = func(name string) (*Microarchitecture, error) {
		if n, ok := nodes[name]; ok {
			return n, nil
		}
		if state[name] == stateVisiting {
			return nil, newCatalogError("cycle detected while resolving microarchitecture %q", name)
		}
		raw, ok := kb.Microarchitectures[name]
		if !ok {
			return nil, newCatalogError("%q is referenced as a parent but is not defined", name)
		}

		state[name] = stateVisiting

		parents := make([]*Microarchitecture, 0, len(raw.From))
		for _, parentName := range raw.From {
			parent, err := build(parentName)
			if err != nil {
				return nil, err
			}
			parents = append(parents, parent)
		}

		compilers, err := buildCompilers(raw.Compilers)
		if err != nil {
			return nil, wrapCatalogError(err, "microarchitecture %q", name)
		}

		node := &Microarchitecture{
			Name:       name,
			Vendor:     raw.Vendor,
			Parents:    parents,
			Features:   toFeatureSet(raw.Features),
			Compilers:  compilers,
			Generation: raw.Generation,
		}
		nodes[name] = node
		state[name] = stateDone
		return node, nil
	}

	names := make([]string, 0, len(kb.Microarchitectures))
	for name := range kb.Microarchitectures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := build(name); err != nil {
			return nil, err
		}
	}

	rules, err := buildAliasRules(kb.FeatureAliases)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		nodes:       nodes,
		aliases:     newAliasTable(rules),
		conversions: kb.Conversions,
	}, nil
}

func buildCompilers(raw map[string][]rawCompilerEntry) (map[string][]CompilerEntry, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[string][]CompilerEntry, len(raw))
	for compiler, entries := range raw {
		built := make([]CompilerEntry, 0, len(entries))
		for _, e := range entries {
			spec, err := parseVersionSpec(e.Versions)
			if err != nil {
				return nil, wrapCatalogError(err, "compiler %q entry %q", compiler, e.Versions)
			}
			built = append(built, CompilerEntry{
				VersionSpec:   e.Versions,
				FlagsTemplate: e.Flags,
				AltName:       e.Name,
				Warnings:      e.Warnings,
				spec:          spec,
			})
		}
		out[compiler] = built
	}
	return out, nil
}

func buildAliasRules(raw []rawAliasRule) ([]AliasRule, error) {
	out := make([]AliasRule, 0, len(raw))
	for _, r := range raw {
		if r.Raw == "" || r.Canonical == "" {
			return nil, newCatalogError("feature alias rule missing raw or canonical name: %+v", r)
		}
		rule := AliasRule{Raw: r.Raw, Canonical: r.Canonical}
		if r.When != nil {
			rule.Predicate = &AliasPredicate{
				Vendor:     r.When.Vendor,
				OS:         r.When.OS,
				RequireRaw: r.When.RequireRaw,
				ForbidRaw:  r.When.ForbidRaw,
				ExtraKey:   r.When.ExtraKey,
				ExtraValue: r.When.ExtraValue,
			}
		}
		out = append(out, rule)
	}
	return out, nil
}

func toFeatureSet(features []string) map[string]struct{} {
	set := make(map[string]struct{}, len(features))
	for _, f := range features {
		set[f] = struct{}{}
	}
	return set
}
