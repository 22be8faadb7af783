package archspec

import "fmt"

// CatalogError reports a failure while constructing the microarchitecture
// catalog from its knowledge base: a dangling parent reference, a cycle, a
// malformed version spec, or any other schema violation. CatalogError is
// always raised at load time, never deferred to a later query.
type CatalogError struct {
	msg string
	err error
}

func newCatalogError(format string, args ...any) *CatalogError {
	return &CatalogError{msg: fmt.Sprintf(format, args...)}
}

func wrapCatalogError(err error, format string, args ...any) *CatalogError {
	return &CatalogError{msg: fmt.Sprintf(format, args...), err: err}
}

func (e *CatalogError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *CatalogError) Unwrap() error { return e.err }

// UnsupportedMicroarchitecture is returned when a (microarchitecture,
// compiler, version) triple is requested and the compiler is known to the
// microarchitecture but no declared version range matches. The message
// names the microarchitecture, the compiler@version pair, and the union of
// supported version ranges.
type UnsupportedMicroarchitecture struct {
	Name     string
	Compiler string
	Version  string
	Ranges   []string
}

func (e *UnsupportedMicroarchitecture) Error() string {
	msg := fmt.Sprintf(
		"cannot produce optimized binary for micro-architecture %q with %s@%s",
		e.Name, e.Compiler, e.Version,
	)
	if len(e.Ranges) == 0 {
		return msg + " [no supported compiler versions]"
	}
	ranges := e.Ranges[0]
	for _, r := range e.Ranges[1:] {
		ranges += ", " + r
	}
	return msg + fmt.Sprintf(" [supported compiler versions are %s]", ranges)
}

// InvalidVersionSpec is raised at catalog build time when a compiler entry's
// version spec cannot be parsed.
type InvalidVersionSpec struct {
	Spec string
	err  error
}

func (e *InvalidVersionSpec) Error() string {
	return fmt.Sprintf("invalid version spec %q: %v", e.Spec, e.err)
}

func (e *InvalidVersionSpec) Unwrap() error { return e.err }
