package archspec

import (
	"runtime"
	"sort"

	"github.com/gocpuspec/archspec/internal/hostprobe"
)

// Host detects the current host's microarchitecture using the process-wide
// default catalog.
func Host() (*Microarchitecture, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return cat.Host(), nil
}

// Host runs the detection pipeline against this catalog: a platform probe
// (C5), alias canonicalization (C4), and selection (C6).
func (c *Catalog) Host() *Microarchitecture {
	return c.selectHost(hostprobe.Probe())
}

func (c *Catalog) selectHost(raw hostprobe.RawRecord) *Microarchitecture {
	raw = c.canonicalizeRaw(raw)

	root, ok := c.nodes[raw.Arch]
	if !ok {
		if generic, ok := c.nodes["generic"]; ok {
			return generic
		}
		return NewGenericMicroarchitecture(firstNonEmptyString(raw.Arch, "generic"))
	}

	ctx := AliasContext{
		Vendor: raw.Vendor,
		OS:     osTag(),
		Raw:    raw.Features,
		Extra:  raw.Extra,
	}
	canonical := c.ResolveFeatures(ctx)

	var candidates []*Microarchitecture
	for _, n := range c.nodes {
		if !n.Equal(root) && !n.Family().Equal(root) {
			continue
		}
		if n.Vendor != "generic" && n.Vendor != raw.Vendor {
			continue
		}
		if !isSubset(n.InheritedFeatures(), canonical) {
			continue
		}
		candidates = append(candidates, n)
	}

	if len(candidates) == 0 {
		return root
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if da, db := len(a.Ancestors()), len(b.Ancestors()); da != db {
			return da > db
		}
		if a.Generation != b.Generation {
			return a.Generation > b.Generation
		}
		return a.Name < b.Name
	})
	return candidates[0]
}

// canonicalizeRaw applies the catalog's secondary conversion tables
// (arm_vendors, darwin_flags) to a raw probe record before alias resolution
// and selection run. A CPU implementer hex code or a Darwin sysctl flag
// spelling is data the knowledge base carries, not a feature-alias rule, so
// it's looked up via Conversion rather than the alias table.
func (c *Catalog) canonicalizeRaw(raw hostprobe.RawRecord) hostprobe.RawRecord {
	if raw.Vendor == "" || raw.Vendor == "generic" {
		if armVendors, ok := c.Conversion("arm_vendors"); ok {
			if vendor, ok := armVendors[raw.Extra["CPU implementer"]]; ok {
				raw.Vendor = vendor
			}
		}
	}

	if darwinFlags, ok := c.Conversion("darwin_flags"); ok {
		renamed := make(map[string]struct{}, len(raw.Features))
		for f := range raw.Features {
			renamed[f] = struct{}{}
			if canonical, ok := darwinFlags[f]; ok {
				renamed[canonical] = struct{}{}
			}
		}
		raw.Features = renamed
	}

	return raw
}

// osTag maps runtime.GOOS to the OS identifiers alias predicates match
// against ("linux", "darwin"); anything else is reported verbatim since no
// alias rule is keyed on other operating systems.
func osTag() string {
	switch runtime.GOOS {
	case "linux", "darwin":
		return runtime.GOOS
	default:
		return runtime.GOOS
	}
}

func isSubset(need, have map[string]struct{}) bool {
	for f := range need {
		if _, ok := have[f]; !ok {
			return false
		}
	}
	return true
}

func firstNonEmptyString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// WhyNot returns a human-readable explanation of why targetName was not
// selected as the detected host microarchitecture. It never errors; an
// unknown target name simply describes that fact.
func (c *Catalog) WhyNot(targetName string) string {
	target, ok := c.nodes[targetName]
	if !ok {
		return quote(targetName) + " is not a known microarchitecture target"
	}

	host := c.Host()
	if target.Equal(host) {
		return target.Name + " is the detected host microarchitecture"
	}
	if target.Less(host) {
		return target.Name + " is an ancestor of the detected host; " + host.Name + " was selected as more specific"
	}
	if !target.Comparable(host) {
		return target.Name + " belongs to the " + target.Family().Name +
			" architecture family, but the host is " + host.Family().Name
	}

	raw := c.canonicalizeRaw(hostprobe.Probe())
	if target.Vendor != "generic" && target.Vendor != raw.Vendor {
		return target.Name + " targets vendor " + target.Vendor + ", but the host CPU vendor is " + raw.Vendor
	}

	canonical := c.ResolveFeatures(AliasContext{
		Vendor: raw.Vendor, OS: osTag(), Raw: raw.Features, Extra: raw.Extra,
	})
	var missing []string
	for f := range target.InheritedFeatures() {
		if _, ok := canonical[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		msg := target.Name + " requires features not available on the host:"
		for _, f := range missing {
			msg += " " + f
		}
		return msg
	}

	return target.Name + " is not compatible with the detected host microarchitecture"
}

func quote(s string) string { return "\"" + s + "\"" }
