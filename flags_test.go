package archspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizationFlagsBroadwellIntel(t *testing.T) {
	cat := testCatalog(t)
	broadwell := mustLookup(t, cat, "broadwell")

	flags, err := broadwell.OptimizationFlags("intel", "19.0.1")
	require.NoError(t, err)
	assert.Equal(t, "-march=broadwell -mtune=broadwell", flags)
}

func TestOptimizationFlagsThunderX2AltName(t *testing.T) {
	cat := testCatalog(t)
	thunderx2 := mustLookup(t, cat, "thunderx2")

	old, err := thunderx2.OptimizationFlags("gcc", "5.1.0")
	require.NoError(t, err)
	assert.Equal(t, "-march=armv8-a+crc+crypto", old)

	newer, err := thunderx2.OptimizationFlags("gcc", "9.1.0")
	require.NoError(t, err)
	assert.Equal(t, "-mcpu=thunderx2t99", newer)
}

func TestOptimizationFlagsIcelakeUnsupportedCompilerVersion(t *testing.T) {
	cat := testCatalog(t)
	icelake := mustLookup(t, cat, "icelake")

	_, err := icelake.OptimizationFlags("gcc", "4.8.3")
	require.Error(t, err)

	var unsupported *UnsupportedMicroarchitecture
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "icelake", unsupported.Name)
	assert.Equal(t, "gcc", unsupported.Compiler)
	assert.Equal(t, "4.8.3", unsupported.Version)
	assert.Equal(t, []string{"8.0:"}, unsupported.Ranges)
}

func TestOptimizationFlagsUnknownCompilerYieldsEmptyString(t *testing.T) {
	cat := testCatalog(t)
	broadwell := mustLookup(t, cat, "broadwell")

	flags, err := broadwell.OptimizationFlags("tcc", "1.0")
	require.NoError(t, err)
	assert.Equal(t, "", flags)
}

func TestOptimizationFlagsFallsThroughToAncestorTable(t *testing.T) {
	cat, err := buildCatalog(&knowledgeBase{
		Microarchitectures: map[string]rawNode{
			"zen2": {
				Vendor: "AuthenticAMD",
				Compilers: map[string][]rawCompilerEntry{
					"gcc": {{Versions: "9.0.0:", Flags: "-march=znver2 -mtune=znver2"}},
				},
			},
			"zen3": {From: []string{"zen2"}, Vendor: "AuthenticAMD"},
		},
	})
	require.NoError(t, err)
	zen3 := mustLookup(t, cat, "zen3")

	// zen3 has no compilers table of its own here; its gcc flags come from zen2.
	flags, err := zen3.OptimizationFlags("gcc", "10.3.0")
	require.NoError(t, err)
	assert.Equal(t, "-march=znver2 -mtune=znver2", flags)
}
