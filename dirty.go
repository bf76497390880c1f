package fx

import (
	"fmt"
	"math/bits"
	"strings"
)

// DirtyFlags records which derived groups of a packed constant buffer are
// stale. Each group owns one bit; DirtyBuffer is reserved and means the packed
// image differs from what the device last received.
type DirtyFlags uint32

// DirtyBuffer marks the packed image as needing upload.
const DirtyBuffer DirtyFlags = 1 << 31

// DirtyAll marks every group and the buffer.
const DirtyAll DirtyFlags = ^DirtyFlags(0)

// MaxDerivedGroups is the number of bits available to derived groups.
const MaxDerivedGroups = 31

// GroupFlag returns the flag for derived group i (0-based).
// It panics if i is out of [0, MaxDerivedGroups).
func GroupFlag(i int) DirtyFlags {
	if i < 0 || i >= MaxDerivedGroups {
		panic(fmt.Sprintf("fx: derived group index %d out of range", i))
	}
	return 1 << uint(i)
}

// Has reports whether every bit of mask is set.
func (f DirtyFlags) Has(mask DirtyFlags) bool { return f&mask == mask }

// Any reports whether any bit of mask is set.
func (f DirtyFlags) Any(mask DirtyFlags) bool { return f&mask != 0 }

// Set returns f with mask set.
func (f DirtyFlags) Set(mask DirtyFlags) DirtyFlags { return f | mask }

// Clear returns f with mask cleared.
func (f DirtyFlags) Clear(mask DirtyFlags) DirtyFlags { return f &^ mask }

// Groups returns the number of group bits set, excluding DirtyBuffer.
func (f DirtyFlags) Groups() int { return bits.OnesCount32(uint32(f &^ DirtyBuffer)) }

// String formats the set bits, for example "g0|g3|buffer".
func (f DirtyFlags) String() string {
	if f == 0 {
		return "clean"
	}
	var parts []string
	for i := range MaxDerivedGroups {
		if f.Has(GroupFlag(i)) {
			parts = append(parts, fmt.Sprintf("g%d", i))
		}
	}
	if f.Has(DirtyBuffer) {
		parts = append(parts, "buffer")
	}
	return strings.Join(parts, "|")
}
