package bzip2block

// LengthAllocator assigns Huffman code lengths for a symbol alphabet given
// per-symbol frequencies already sorted ascending, subject to a maximum
// code length. It must return one length per input frequency, in the same
// order, each in [1, maxLen], satisfying Kraft's inequality with equality
// whenever there are at least two symbols (a lone symbol gets length 1).
// Symbols with frequency zero must still receive a valid length.
type LengthAllocator interface {
	Assign(freqSortedAscending []uint32, maxLen int) []uint8
}
