package archspec

import "strings"

// OptimizationFlags resolves the compiler flags needed to generate code
// tuned for m using the named compiler at the given version (a string of
// dot-separated digits). An unknown compiler yields an empty string; a
// known compiler whose declared version ranges don't cover version raises
// *UnsupportedMicroarchitecture.
func (m *Microarchitecture) OptimizationFlags(compiler, ver string) (string, error) {
	_, entries, ok := m.compilerTable(compiler)
	if !ok {
		return "", nil
	}

	for _, entry := range entries {
		if entry.spec == nil || !entry.spec.matches(ver) {
			continue
		}
		if entry.Warnings != "" {
			logger().Warn(entry.Warnings,
				"microarchitecture", m.Name, "compiler", compiler, "version", ver)
		}
		// {name} always names the microarchitecture the caller queried, even
		// when the matching compiler entry came from one of its ancestors.
		return renderTemplate(entry.FlagsTemplate, m.Name, entry.AltName), nil
	}

	ranges := make([]string, 0, len(entries))
	for _, e := range entries {
		ranges = append(ranges, e.VersionSpec)
	}
	return "", &UnsupportedMicroarchitecture{
		Name: m.Name, Compiler: compiler, Version: ver, Ranges: ranges,
	}
}

// compilerTable walks m and then its ancestors, in that order, returning
// the first node whose Compilers table has an entry for compiler.
func (m *Microarchitecture) compilerTable(compiler string) (owner *Microarchitecture, entries []CompilerEntry, ok bool) {
	if e, present := m.Compilers[compiler]; present {
		return m, e, true
	}
	for _, a := range m.Ancestors() {
		if e, present := a.Compilers[compiler]; present {
			return a, e, true
		}
	}
	return nil, nil, false
}

func renderTemplate(tmpl, nodeName, altName string) string {
	name := nodeName
	if altName != "" {
		name = altName
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}
