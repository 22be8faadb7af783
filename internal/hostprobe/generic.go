//go:build !linux && !darwin

package hostprobe

import "runtime"

// goarchToUname maps Go's GOARCH values to the uname -m equivalent used by
// the catalog's family-root names, for platforms where we can't shell out
// to uname ourselves.
var goarchToUname = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"riscv64": "riscv64",
	"ppc64le": "ppc64le",
	"ppc64":   "ppc64",
}

// rawProbe is the fallback for hosts this library doesn't know how to probe
// (anything other than Linux-like or Darwin-like). It still reports a
// best-effort architecture tag so host selection can at least return the
// correct family root.
func rawProbe() RawRecord {
	r := empty()
	if arch, ok := goarchToUname[runtime.GOARCH]; ok {
		r.Arch = arch
	} else {
		r.Arch = runtime.GOARCH
	}
	degraded("no dedicated host probe for this OS, falling back to architecture-only detection", "goos", runtime.GOOS)
	return r
}
