package archspec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocpuspec/archspec/internal/hostprobe"
)

func TestSelectHostPrefersMostSpecificDescendant(t *testing.T) {
	cat := testCatalog(t)
	cannonlake := mustLookup(t, cat, "cannonlake")

	raw := hostprobe.RawRecord{
		Vendor:   "GenuineIntel",
		Arch:     "x86_64",
		Features: setOf(cannonlake.InheritedFeatures()),
	}

	got := cat.selectHost(raw)
	assert.True(t, got.Equal(cannonlake), "expected cannonlake, got %s", got.Name)
}

func TestSelectHostFallsBackToFamilyRootWhenNoCandidateMatches(t *testing.T) {
	cat := testCatalog(t)

	raw := hostprobe.RawRecord{
		Vendor:   "GenuineIntel",
		Arch:     "x86_64",
		Features: map[string]struct{}{},
	}

	got := cat.selectHost(raw)
	assert.Equal(t, "x86_64", got.Name)
}

func TestSelectHostUnknownArchYieldsGenericNode(t *testing.T) {
	cat := testCatalog(t)

	raw := hostprobe.RawRecord{Arch: "mips64", Vendor: "generic"}
	got := cat.selectHost(raw)
	assert.Equal(t, "mips64", got.Name)
	assert.Empty(t, got.Ancestors())
}

func TestSelectHostRejectsVendorMismatch(t *testing.T) {
	cat := testCatalog(t)
	cannonlake := mustLookup(t, cat, "cannonlake")

	raw := hostprobe.RawRecord{
		Vendor:   "AuthenticAMD",
		Arch:     "x86_64",
		Features: setOf(cannonlake.InheritedFeatures()),
	}

	got := cat.selectHost(raw)
	assert.NotEqual(t, "cannonlake", got.Name)
}

func TestSelectHostResolvesArmVendorFromImplementerCode(t *testing.T) {
	cat := testCatalog(t)
	thunderx2 := mustLookup(t, cat, "thunderx2")

	raw := hostprobe.RawRecord{
		Arch:     "aarch64",
		Extra:    map[string]string{"CPU implementer": "0x43"},
		Features: setOf(thunderx2.InheritedFeatures()),
	}

	got := cat.selectHost(raw)
	assert.True(t, got.Equal(thunderx2), "expected thunderx2 once CPU implementer 0x43 resolves to vendor Cavium, got %s", got.Name)
}

func TestSelectHostResolvesDarwinFlagSpelling(t *testing.T) {
	cat := testCatalog(t)
	haswell := mustLookup(t, cat, "haswell")

	// Darwin's sysctl reports "avx1_0"/"avx2_0" where the catalog's features
	// are named "avx"/"avx2"; darwin_flags bridges the two spellings.
	features := setOf(haswell.InheritedFeatures())
	delete(features, "avx")
	features["avx1_0"] = struct{}{}
	delete(features, "avx2")
	features["avx2_0"] = struct{}{}

	raw := hostprobe.RawRecord{
		Vendor:   "GenuineIntel",
		Arch:     "x86_64",
		Features: features,
	}

	got := cat.selectHost(raw)
	assert.True(t, got.Equal(haswell), "expected haswell once avx1_0/avx2_0 resolve to avx/avx2, got %s", got.Name)
}

func TestWhyNotDescribesMissingFeatures(t *testing.T) {
	cat := testCatalog(t)
	explanation := cat.WhyNot("icelake")
	assert.NotEmpty(t, explanation)
}

func TestWhyNotUnknownTarget(t *testing.T) {
	cat := testCatalog(t)
	assert.Contains(t, cat.WhyNot("not-a-real-chip"), "not a known microarchitecture")
}

func setOf(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
