package bwt

import (
	"bytes"
	"sort"
	"testing"
)

// naiveBWT independently re-derives the expected rotation order (same
// algorithm as Default, reimplemented separately) as a cross-check on
// Default's sort-based Transform.
func naiveBWT(s string) (last []byte, primary int) {
	n := len(s)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		for k := 0; k < n; k++ {
			ca, cb := s[(a+k)%n], s[(b+k)%n]
			if ca != cb {
				return ca < cb
			}
		}
		return a < b
	})

	last = make([]byte, n)
	primary = -1
	for pos, start := range idx {
		last[pos] = s[(start+n-1)%n]
		if start == 0 {
			primary = pos
		}
	}
	return last, primary
}

func TestTransformMatchesNaiveSort(t *testing.T) {
	cases := []string{"banana", "mississippi", "a", "aaaa", "abracadabra", "aabbaabb"}
	for _, s := range cases {
		block := []byte(s)
		length := len(block)
		dst := make([]int32, length)

		primary, err := (Default{}).Transform(dst, block, length)
		if err != nil {
			t.Fatalf("%q: Transform error: %v", s, err)
		}

		got := make([]byte, length)
		for i, v := range dst {
			got[i] = byte(v)
		}

		wantLast, wantPrimary := naiveBWT(s)
		if !bytes.Equal(got, wantLast) {
			t.Errorf("%q: last column = %q, want %q", s, got, wantLast)
		}
		if primary != wantPrimary {
			t.Errorf("%q: primary = %d, want %d", s, primary, wantPrimary)
		}
	}
}

func TestTransformRejectsZeroLength(t *testing.T) {
	if _, err := (Default{}).Transform(nil, nil, 0); err == nil {
		t.Fatal("expected an error for zero length")
	}
}
