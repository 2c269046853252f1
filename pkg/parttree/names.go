package parttree

import (
	"fmt"
	"strconv"
	"strings"
)

// Positional naming scheme for leaf and intermediate nodes. Restore of
// legacy payloads re-derives node identities from these names, so the
// format is part of the persisted contract.

func ifcName(idx int) string { return fmt.Sprintf("i%d", idx) }

func gapName(idx int) string { return fmt.Sprintf("g%d", idx) }

// IfcName returns the positional name of the interface leaf at idx.
func IfcName(idx int) string { return ifcName(idx) }

// GapName returns the positional name of the gap leaf at idx.
func GapName(idx int) string { return gapName(idx) }

// ProfileName returns the name of the nth profile node of a part (1-based).
func ProfileName(n int) string { return fmt.Sprintf("p%d", n) }

// ThicknessName returns the name of the nth internal-gap node of a part
// (1-based).
func ThicknessName(n int) string { return fmt.Sprintf("t%d", n) }

// ThinLensName returns the name of a thin-lens leaf at sequence idx.
func ThinLensName(idx int) string { return fmt.Sprintf("tl%d", idx) }

// ParseIndexedName splits a positional name into its prefix and index.
// "i3" yields ("i", 3, true); a bare prefix such as "t" yields ("t", 0,
// true) since single-element parts omit the ordinal. Names with a
// non-numeric suffix report ok=false.
func ParseIndexedName(name string, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	rest := name[len(prefix):]
	if rest == "" {
		return 0, true
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return idx, true
}
