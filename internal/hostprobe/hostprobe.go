// Package hostprobe produces raw, unnormalized CPU information for the
// current host. Every probe degrades to a partial or empty RawRecord on
// failure instead of returning an error — detection must never stop a
// caller from getting a usable (if generic) answer.
package hostprobe

import "sync"

// RawRecord is what a platform probe can tell us about the host CPU before
// any alias canonicalization or catalog matching has happened.
type RawRecord struct {
	// Vendor is the raw vendor string as reported by the OS (e.g.
	// "GenuineIntel", "AuthenticAMD", "Apple"). Empty if undetermined.
	Vendor string

	// Features is the set of raw feature tokens exactly as reported,
	// before alias resolution.
	Features map[string]struct{}

	// Model is a human-readable model string, if the platform exposes one.
	Model string

	// Arch is the architecture tag (the uname -m equivalent: "x86_64",
	// "aarch64", "ppc64le", "riscv64", ...). Empty if undetermined.
	Arch string

	// Extra carries OS-specific key/value pairs (e.g. "cpu family",
	// "CPU implementer") that alias predicates or vendor canonicalization
	// may need but that don't fit Vendor/Model/Arch directly.
	Extra map[string]string
}

// HasFeature reports whether raw token f was present in the probe output.
func (r RawRecord) HasFeature(f string) bool {
	_, ok := r.Features[f]
	return ok
}

// empty returns the degraded record used whenever a probe cannot produce
// anything useful: generic vendor, no features, no arch.
func empty() RawRecord {
	return RawRecord{
		Vendor:   "generic",
		Features: map[string]struct{}{},
		Extra:    map[string]string{},
	}
}

func featureSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	degradationMu sync.RWMutex
	onDegraded    func(msg string, args ...any)
)

// SetDegradationHook installs a callback invoked whenever a probe falls back
// to a partial or empty RawRecord instead of full data (missing
// /proc/cpuinfo, a failed sysctl invocation, an unrecognized OS). The zero
// value is a no-op, so importers who never call SetDegradationHook see no
// output; archspec wires this to its own logger at package init.
func SetDegradationHook(f func(msg string, args ...any)) {
	degradationMu.Lock()
	defer degradationMu.Unlock()
	onDegraded = f
}

func degraded(msg string, args ...any) {
	degradationMu.RLock()
	hook := onDegraded
	degradationMu.RUnlock()
	if hook != nil {
		hook(msg, args...)
	}
}

// Probe runs the platform-appropriate raw detection and returns its result.
// It is implemented once per platform via build tags (rawProbe).
func Probe() RawRecord {
	return rawProbe()
}
