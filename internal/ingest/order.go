package ingest

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/backmassage/trackweave/internal/status"
)

// OrderFileName is the optional ordering manifest living beside the inputs.
const OrderFileName = "order.txt"

// ParseOrderFile reads an ordering manifest: one filename per line, blank
// lines and #-comments skipped, only the first whitespace-separated field
// kept. Entries containing path separators are rejected so the manifest can
// never reach outside the input directory. Duplicates are allowed and replay
// the same track.
func ParseOrderFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, status.WrapValidation(err, "opening %s", OrderFileName)
	}
	defer f.Close()

	var ordered []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := strings.Fields(line)[0]
		if strings.ContainsAny(name, `/\`) {
			return nil, status.Validationf("%s line %d: paths not allowed, only filenames (got: %s)",
				OrderFileName, lineNum, name)
		}
		ordered = append(ordered, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, status.WrapValidation(err, "reading %s", OrderFileName)
	}
	return ordered, nil
}

// ValidateOrdering checks that the manifest covers exactly the discovered
// file set: every discovered file appears at least once, and every manifest
// entry resolves to a discovered file. Both kinds of mismatch are reported in
// one error. The returned slice lists duplicated entries (allowed, but worth
// surfacing).
func ValidateOrdering(ordered []string, available map[string]bool) ([]string, error) {
	seen := make(map[string]int, len(ordered))
	for _, name := range ordered {
		seen[name]++
	}

	var extraneous, missing []string
	for name := range seen {
		if !available[name] {
			extraneous = append(extraneous, name)
		}
	}
	for name := range available {
		if seen[name] == 0 {
			missing = append(missing, name)
		}
	}
	sort.Strings(extraneous)
	sort.Strings(missing)

	if len(missing) > 0 || len(extraneous) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing from "+OrderFileName+": "+strings.Join(missing, ", "))
		}
		if len(extraneous) > 0 {
			parts = append(parts, "not found in input directory: "+strings.Join(extraneous, ", "))
		}
		return nil, status.Validationf("%s does not match input directory (%s)",
			OrderFileName, strings.Join(parts, "; "))
	}

	var duplicates []string
	for name, n := range seen {
		if n > 1 {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)
	return duplicates, nil
}
