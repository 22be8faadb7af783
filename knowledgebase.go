package archspec

import (
	_ "embed"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
)

//go:embed data/microarchitectures.json
var defaultKnowledgeBaseJSON []byte

// rawCompilerEntry mirrors one entry of a node's compilers[compiler] list
// as it appears in the knowledge-base JSON.
type rawCompilerEntry struct {
	Versions string `json:"versions"`
	Flags    string `json:"flags"`
	Name     string `json:"name,omitempty"`
	Warnings string `json:"warnings,omitempty"`
}

type rawNode struct {
	From       []string                      `json:"from"`
	Vendor     string                        `json:"vendor"`
	Features   []string                      `json:"features"`
	Compilers  map[string][]rawCompilerEntry `json:"compilers,omitempty"`
	Generation int                           `json:"generation,omitempty"`
}

type rawAliasPredicate struct {
	Vendor     string `json:"vendor,omitempty"`
	OS         string `json:"os,omitempty"`
	RequireRaw string `json:"require_raw,omitempty"`
	ForbidRaw  string `json:"forbid_raw,omitempty"`
	ExtraKey   string `json:"extra_key,omitempty"`
	ExtraValue string `json:"extra_value,omitempty"`
}

type rawAliasRule struct {
	Raw       string             `json:"raw"`
	Canonical string             `json:"canonical"`
	When      *rawAliasPredicate `json:"when,omitempty"`
}

// knowledgeBase is the decoded form of the knowledge-base document: its
// microarchitectures, feature_aliases, and secondary conversion tables.
type knowledgeBase struct {
	Microarchitectures map[string]rawNode           `json:"microarchitectures"`
	FeatureAliases     []rawAliasRule                `json:"feature_aliases"`
	Conversions        map[string]map[string]string `json:"conversions,omitempty"`
}

func decodeKnowledgeBase(data []byte) (*knowledgeBase, error) {
	var kb knowledgeBase
	if err := gojson.Unmarshal(data, &kb); err != nil {
		return nil, wrapCatalogError(err, "failed to decode knowledge base")
	}
	return &kb, nil
}

// loadKnowledgeBaseDir loads a knowledge base exclusively from dir, which
// must contain a microarchitectures.json at its root.
func loadKnowledgeBaseDir(dir string) (*knowledgeBase, error) {
	path := filepath.Join(dir, "microarchitectures.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapCatalogError(err, "failed to read knowledge base at %s", path)
	}
	return decodeKnowledgeBase(data)
}

// mergeOverlay applies overlay on top of base at top-level-attribute
// granularity: for every key present in the overlay's
// microarchitectures/conversions maps, the overlay's entry
// wholly replaces (or inserts into) the base's entry of the same name. No
// deep merging happens within a single node or conversion table — a
// user-provided node definition completely supersedes the built-in one.
//
// feature_aliases has no natural per-entry key (it's a declaration-ordered
// list), so an overlay that supplies it replaces the base's list in full.
func mergeOverlay(base, overlay *knowledgeBase) *knowledgeBase {
	merged := &knowledgeBase{
		Microarchitectures: make(map[string]rawNode, len(base.Microarchitectures)+len(overlay.Microarchitectures)),
		FeatureAliases:      base.FeatureAliases,
		Conversions:         make(map[string]map[string]string, len(base.Conversions)),
	}
	for name, node := range base.Microarchitectures {
		merged.Microarchitectures[name] = node
	}
	for name, node := range overlay.Microarchitectures {
		merged.Microarchitectures[name] = node
	}

	for table, conv := range base.Conversions {
		merged.Conversions[table] = conv
	}
	for table, conv := range overlay.Conversions {
		merged.Conversions[table] = conv
	}

	if overlay.FeatureAliases != nil {
		merged.FeatureAliases = overlay.FeatureAliases
	}

	return merged
}
