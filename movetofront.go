package bzip2block

// moveToFront is a small recency list over symbols 0..n-1, realized as a
// shifted array: the alphabets involved here (byte symbols, up to 256; or
// table selectors, up to 6) are small enough that an array shift beats a
// linked list with a side table.
type moveToFront struct {
	table []byte
}

func newMoveToFront(n int) *moveToFront {
	t := make([]byte, n)
	for i := range t {
		t[i] = byte(i)
	}
	return &moveToFront{table: t}
}

// access moves symbol to the front of the list and returns its prior
// position.
func (m *moveToFront) access(symbol byte) int {
	t := m.table
	if t[0] == symbol {
		return 0
	}
	for i := 1; i < len(t); i++ {
		if t[i] == symbol {
			copy(t[1:i+1], t[0:i])
			t[0] = symbol
			return i
		}
	}
	panic("bzip2block: move-to-front symbol not in list")
}
