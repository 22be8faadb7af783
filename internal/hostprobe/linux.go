//go:build linux

package hostprobe

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// rawProbe reads /proc/cpuinfo for the first processor block and pairs it
// with the kernel-reported architecture tag. It never fails the caller: a
// missing or unreadable /proc/cpuinfo degrades to the empty record with only
// the architecture tag filled in.
func rawProbe() RawRecord {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		degraded("/proc/cpuinfo unavailable, probe degraded to architecture-only", "error", err)
		return withArch(empty())
	}
	defer f.Close()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			// Blank line separates CPU blocks; stop once we have one.
			if len(data) > 0 {
				break
			}
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if _, seen := data[key]; !seen {
			data[key] = val
		}
	}

	record := withArch(empty())
	record.Vendor = firstNonEmpty(data["vendor_id"], "generic")
	record.Model = data["model name"]

	// The flags key differs by architecture: x86 calls it "flags", arm
	// calls it "Features".
	switch {
	case data["flags"] != "":
		record.Features = featureSet(strings.Fields(data["flags"]))
	case data["Features"] != "":
		record.Features = featureSet(strings.Fields(data["Features"]))
	}

	for _, key := range []string{"cpu family", "model", "CPU implementer", "CPU part", "cpu"} {
		if v, ok := data[key]; ok {
			record.Extra[key] = v
		}
	}

	return record
}

func withArch(r RawRecord) RawRecord {
	if uts := (unix.Utsname{}); unix.Uname(&uts) == nil {
		r.Arch = cString(uts.Machine[:])
	}
	return r
}

func cString(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
