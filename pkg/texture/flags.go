package texture

import (
	"fmt"
	"strings"
)

// DecodeFlags selects post-processing applied while texels are written.
type DecodeFlags uint32

// FlagNone requests no post-processing.
const FlagNone DecodeFlags = 0

const (
	// FlagYCoCg undoes scaled YCoCg encoding stored as (Co, Cg, scale, Y).
	FlagYCoCg DecodeFlags = 1 << iota
	// FlagNormalize rebuilds Z from premultiplied X/Y stored in R and G.
	FlagNormalize
	// FlagInvert complements the green channel.
	FlagInvert
	// FlagHemiOctRB decodes a hemi-octahedron normal from R and G and moves B to alpha.
	FlagHemiOctRB
	// FlagForceLDR clamps HDR formats to [0,1] even in a float surface.
	FlagForceLDR
)

var flagNames = []struct {
	flag DecodeFlags
	name string
}{
	{FlagYCoCg, "ycocg"},
	{FlagNormalize, "normalize"},
	{FlagInvert, "invert"},
	{FlagHemiOctRB, "hemioct"},
	{FlagForceLDR, "ldr"},
}

// Has reports whether every bit in mask is set.
func (f DecodeFlags) Has(mask DecodeFlags) bool {
	return f&mask == mask
}

// Validate rejects combinations that select two normal reconstructions.
func (f DecodeFlags) Validate() error {
	if f.Has(FlagNormalize | FlagHemiOctRB) {
		return fmt.Errorf("%w: normalize and hemioct are mutually exclusive", ErrInvalidFlags)
	}
	return nil
}

func (f DecodeFlags) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseFlags parses a comma separated list such as "ycocg,invert".
func ParseFlags(s string) (DecodeFlags, error) {
	var flags DecodeFlags
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" || part == "none" {
			continue
		}
		found := false
		for _, n := range flagNames {
			if n.name == part {
				flags |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown flag %q", ErrInvalidFlags, part)
		}
	}
	return flags, flags.Validate()
}

// postProcessed reports whether any 8-bit transform is selected.
func (f DecodeFlags) postProcessed() bool {
	return f&(FlagYCoCg|FlagNormalize|FlagInvert|FlagHemiOctRB) != 0
}
