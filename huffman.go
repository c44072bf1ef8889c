package bzip2block

import "sort"

// huffmanEncoder is the transient object HuffmanBackEnd corresponds to:
// one is constructed per block close, given the BWT output and the byte
// presence bitset, and it drives MTF+RLE2, table selection, selector/table
// co-optimization, canonical code assignment, and emission.
type huffmanEncoder struct {
	bw    *bitWriter
	alloc LengthAllocator

	presence     [256]bool
	byteToSymbol [256]int // -1 if the byte is not present in this block

	k         int // unique byte count
	eob       int // end-of-block symbol, k+1
	alphaSize int // k+2

	mtfSeq []uint16 // MTF+RLE2 symbol sequence, length M
	freq   []uint32 // global frequency per symbol, length alphaSize

	tables    int
	lengths   [][]uint8  // [tables][alphaSize]
	codes     [][]uint32 // packed (length<<24)|code, [tables][alphaSize]
	selectors []uint8
}

func newHuffmanEncoder(bwtOut []int32, presence [256]bool, bw *bitWriter, alloc LengthAllocator) *huffmanEncoder {
	h := &huffmanEncoder{bw: bw, alloc: alloc, presence: presence}
	h.buildSymbolMap()
	h.mtfEncode(bwtOut)

	h.tables = selectTableCount(len(h.mtfSeq))
	h.lengths = make([][]uint8, h.tables)
	for i := range h.lengths {
		h.lengths[i] = make([]uint8, h.alphaSize)
	}
	return h
}

func (h *huffmanEncoder) encode() {
	h.seedInitialLengths()
	h.optimize()
	h.assignCodes()

	h.writeSymbolMap()
	h.writeSelectors()
	h.writeCodeLengths()
	h.writePayload()
}

func (h *huffmanEncoder) buildSymbolMap() {
	for i := range h.byteToSymbol {
		h.byteToSymbol[i] = -1
	}
	k := 0
	for v := 0; v < 256; v++ {
		if h.presence[v] {
			h.byteToSymbol[v] = k
			k++
		}
	}
	h.k = k
	h.eob = k + 1
	h.alphaSize = k + 2
}

// mtfEncode runs Move-To-Front over the BWT output followed by the
// bijective RUNA/RUNB base-2 encoding of zero runs, and tallies the
// resulting symbol frequencies.
func (h *huffmanEncoder) mtfEncode(bwtOut []int32) {
	mtf := newMoveToFront(h.k)
	seq := make([]uint16, 0, len(bwtOut)+1)
	zeros := 0

	flushZeros := func() {
		if zeros == 0 {
			return
		}
		z := zeros - 1
		for {
			if z&1 == 0 {
				seq = append(seq, runA)
			} else {
				seq = append(seq, runB)
			}
			if z < 2 {
				break
			}
			z = (z - 2) >> 1
		}
		zeros = 0
	}

	for _, bv := range bwtOut {
		s := h.byteToSymbol[byte(bv)]
		p := mtf.access(byte(s))
		if p == 0 {
			zeros++
			continue
		}
		flushZeros()
		seq = append(seq, uint16(p+1))
	}
	flushZeros()
	seq = append(seq, uint16(h.eob))
	h.mtfSeq = seq

	freq := make([]uint32, h.alphaSize)
	for _, sym := range seq {
		freq[sym]++
	}
	h.freq = freq
}

func selectTableCount(m int) int {
	switch {
	case m >= 2400:
		return 6
	case m >= 1200:
		return 5
	case m >= 600:
		return 4
	case m >= 200:
		return 3
	default:
		return 2
	}
}

// seedInitialLengths partitions the alphabet into h.tables contiguous
// ranges of roughly equal cumulative frequency, biasing each table's
// lengths toward its own range for the first optimization pass. The
// give-back correction must be reproduced exactly to match reference
// output bit-for-bit; it remains valid (just less optimal) without it.
func (h *huffmanEncoder) seedInitialLengths() {
	var remaining int64
	for _, f := range h.freq {
		remaining += int64(f)
	}

	gs := 0
	for i := 0; i < h.tables; i++ {
		target := remaining / int64(h.tables-i)
		ge := gs - 1
		var accumulated int64
		for accumulated < target && ge < h.alphaSize-1 {
			ge++
			accumulated += int64(h.freq[ge])
		}
		if ge > gs && i != 0 && i != h.tables-1 && (h.tables-i)%2 == 0 {
			accumulated -= int64(h.freq[ge])
			ge--
		}
		for v := 0; v < h.alphaSize; v++ {
			if v >= gs && v <= ge {
				h.lengths[i][v] = 0
			} else {
				h.lengths[i][v] = highCost
			}
		}
		remaining -= accumulated
		gs = ge + 1
	}
}

func groupCost(lengths []uint8, group []uint16) int {
	cost := 0
	for _, sym := range group {
		cost += int(lengths[sym])
	}
	return cost
}

// optimize runs the fixed four-iteration selector/table co-optimization.
// Selectors are only recorded on the final iteration, once the tables
// they were chosen against have stabilized somewhat.
func (h *huffmanEncoder) optimize() {
	numGroups := (len(h.mtfSeq) + huffmanGroupRunLength - 1) / huffmanGroupRunLength

	for iter := 3; iter >= 0; iter-- {
		final := iter == 0

		freqMatrix := make([][]uint32, h.tables)
		for i := range freqMatrix {
			freqMatrix[i] = make([]uint32, h.alphaSize)
		}
		var selectors []uint8
		if final {
			selectors = make([]uint8, 0, numGroups)
		}

		for start := 0; start < len(h.mtfSeq); start += huffmanGroupRunLength {
			end := start + huffmanGroupRunLength
			if end > len(h.mtfSeq) {
				end = len(h.mtfSeq)
			}
			group := h.mtfSeq[start:end]

			best := 0
			bestCost := groupCost(h.lengths[0], group)
			for t := 1; t < h.tables; t++ {
				c := groupCost(h.lengths[t], group)
				if c < bestCost {
					bestCost = c
					best = t
				}
			}
			for _, sym := range group {
				freqMatrix[best][sym]++
			}
			if final {
				selectors = append(selectors, uint8(best))
			}
		}

		for i := 0; i < h.tables; i++ {
			h.lengths[i] = h.allocateTable(freqMatrix[i])
		}
		if final {
			h.selectors = selectors
		}
	}
}

// allocateTable sorts symbols by (frequency, symbol index) as required by
// the length allocator's contract, calls it, and un-permutes the result
// back into symbol order.
func (h *huffmanEncoder) allocateTable(freq []uint32) []uint8 {
	type entry struct {
		key uint64
		sym int
	}
	entries := make([]entry, len(freq))
	for sym, f := range freq {
		entries[sym] = entry{key: (uint64(f) << 9) | uint64(sym), sym: sym}
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].key < entries[b].key })

	sortedFreq := make([]uint32, len(entries))
	for i, e := range entries {
		sortedFreq[i] = freq[e.sym]
	}

	sortedLengths := h.alloc.Assign(sortedFreq, maxCodeLength)

	lengths := make([]uint8, len(freq))
	for i, e := range entries {
		lengths[e.sym] = sortedLengths[i]
	}
	return lengths
}

// assignCodes derives canonical codes from each table's lengths: symbols
// sorted by (length, symbol index) receive sequential codes within a
// length class, with the running code shifted left between classes.
func (h *huffmanEncoder) assignCodes() {
	h.codes = make([][]uint32, h.tables)
	for t := 0; t < h.tables; t++ {
		lengths := h.lengths[t]
		minL, maxL := lengths[0], lengths[0]
		for _, l := range lengths[1:] {
			if l < minL {
				minL = l
			}
			if l > maxL {
				maxL = l
			}
		}

		packed := make([]uint32, h.alphaSize)
		code := uint32(0)
		for l := minL; l <= maxL; l++ {
			for sym := 0; sym < h.alphaSize; sym++ {
				if lengths[sym] == l {
					packed[sym] = (uint32(l) << 24) | code
					code++
				}
			}
			code <<= 1
		}
		h.codes[t] = packed
	}
}

func (h *huffmanEncoder) writeSymbolMap() {
	var segPresent [16]bool
	for v := 0; v < 256; v++ {
		if h.presence[v] {
			segPresent[v/16] = true
		}
	}
	for seg := 0; seg < 16; seg++ {
		h.bw.writeBool(segPresent[seg])
	}
	for seg := 0; seg < 16; seg++ {
		if !segPresent[seg] {
			continue
		}
		for j := 0; j < 16; j++ {
			h.bw.writeBool(h.presence[seg*16+j])
		}
	}
}

func (h *huffmanEncoder) writeSelectors() {
	h.bw.writeBits(3, uint32(h.tables))
	h.bw.writeBits(15, uint32(len(h.selectors)))

	mtf := newMoveToFront(h.tables)
	for _, sel := range h.selectors {
		pos := mtf.access(sel)
		h.bw.writeUnary(pos)
	}
}

func (h *huffmanEncoder) writeCodeLengths() {
	for t := 0; t < h.tables; t++ {
		lengths := h.lengths[t]
		curL := lengths[0]
		h.bw.writeBits(5, uint32(curL))

		for j := 0; j < h.alphaSize; j++ {
			l := lengths[j]
			for curL != l {
				if curL < l {
					h.bw.writeBits(2, 2)
					curL++
				} else {
					h.bw.writeBits(2, 3)
					curL--
				}
			}
			h.bw.writeBool(false)
		}
	}
}

func (h *huffmanEncoder) writePayload() {
	for g, sel := range h.selectors {
		start := g * huffmanGroupRunLength
		end := start + huffmanGroupRunLength
		if end > len(h.mtfSeq) {
			end = len(h.mtfSeq)
		}
		codes := h.codes[sel]
		for _, sym := range h.mtfSeq[start:end] {
			packed := codes[sym]
			h.bw.writeBits(uint(packed>>24), packed&0xFFFFFF)
		}
	}
}
