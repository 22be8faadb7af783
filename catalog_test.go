package archspec

import (
	"os"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Contains(t, cat.Names(), "broadwell")
}

func TestBuildCatalogDetectsCycle(t *testing.T) {
	kb := &knowledgeBase{
		Microarchitectures: map[string]rawNode{
			"a": {From: []string{"b"}},
			"b": {From: []string{"a"}},
		},
	}
	_, err := buildCatalog(kb)
	require.Error(t, err)
	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Error(), "cycle")
}

func TestBuildCatalogDetectsDanglingParent(t *testing.T) {
	kb := &knowledgeBase{
		Microarchitectures: map[string]rawNode{
			"child": {From: []string{"ghost"}},
		},
	}
	_, err := buildCatalog(kb)
	require.Error(t, err)
	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Error(), "ghost")
}

func TestBuildCatalogDetectsMalformedVersionSpec(t *testing.T) {
	kb := &knowledgeBase{
		Microarchitectures: map[string]rawNode{
			"lonely": {
				Compilers: map[string][]rawCompilerEntry{
					"gcc": {{Versions: "4.6:,,9.0:", Flags: "-whatever"}},
				},
			},
		},
	}
	_, err := buildCatalog(kb)
	require.Error(t, err)
}

func TestLoadWithOverlayDirReplacesNodeAtTopLevel(t *testing.T) {
	dir := t.TempDir()
	overlay := `{
		"microarchitectures": {
			"broadwell": {
				"from": ["haswell"],
				"vendor": "GenuineIntel",
				"features": ["adx", "rdseed", "custom_feature"]
			}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "microarchitectures.json"), []byte(overlay), 0o644))

	cat, err := Load(LoadOptions{OverlayDir: dir})
	require.NoError(t, err)

	broadwell := mustLookup(t, cat, "broadwell")
	assert.True(t, broadwell.Contains("custom_feature"))
	// the overlaid node still resolves against the base catalog's haswell.
	assert.True(t, broadwell.Contains("avx2"))

	// nodes untouched by the overlay are unaffected.
	cannonlake := mustLookup(t, cat, "cannonlake")
	icelake := mustLookup(t, cat, "icelake")
	assert.True(t, cannonlake.Less(icelake))
}

func TestSnapshotOverlayRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	original := mustLookup(t, cat, "broadwell")
	snap := original.Snapshot()

	dir := t.TempDir()
	overlay := knowledgeBase{
		Microarchitectures: map[string]rawNode{
			"broadwell": {
				From:       snap.Parents,
				Vendor:     snap.Vendor,
				Features:   snap.Features,
				Generation: snap.Generation,
			},
		},
	}
	data, err := gojson.Marshal(overlay)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "microarchitectures.json"), data, 0o644))

	reloaded, err := Load(LoadOptions{OverlayDir: dir})
	require.NoError(t, err)
	roundTripped := mustLookup(t, reloaded, "broadwell")

	assert.Equal(t, snap, roundTripped.Snapshot())
}
