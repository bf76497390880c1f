package fx

import "testing"

func TestDirtyFlags(t *testing.T) {
	g0, g1 := GroupFlag(0), GroupFlag(1)

	var f DirtyFlags
	if f.Any(DirtyAll) {
		t.Fatal("zero flags should be clean")
	}

	f = f.Set(g1)
	if !f.Has(g1) || f.Has(g0) {
		t.Errorf("Set(g1) = %v", f)
	}
	f = f.Set(DirtyBuffer)
	if got := f.Groups(); got != 1 {
		t.Errorf("Groups() = %d, want 1", got)
	}
	f = f.Clear(g1)
	if f != DirtyBuffer {
		t.Errorf("Clear(g1) = %v, want buffer", f)
	}
}

func TestDirtyFlagsString(t *testing.T) {
	tests := []struct {
		flags DirtyFlags
		want  string
	}{
		{0, "clean"},
		{DirtyBuffer, "buffer"},
		{GroupFlag(0) | GroupFlag(3), "g0|g3"},
		{GroupFlag(2) | DirtyBuffer, "g2|buffer"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("DirtyFlags(%#x).String() = %q, want %q", uint32(tt.flags), got, tt.want)
		}
	}
}

func TestGroupFlagPanics(t *testing.T) {
	for _, i := range []int{-1, MaxDerivedGroups} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("GroupFlag(%d) did not panic", i)
				}
			}()
			GroupFlag(i)
		}()
	}
}
