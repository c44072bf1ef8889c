package bzip2block

const (
	blockMagicHi = 0x314159
	blockMagicLo = 0x265359

	// highCost seeds the placeholder lengths for symbols outside a
	// table's initial partition; it only needs to be large enough to
	// bias the first optimization pass away from those symbols.
	highCost = 15

	huffmanGroupRunLength = 50
	maxCodeLength         = 17

	// runA and runB are the two reserved low symbols of the MTF/RLE2
	// alphabet, used exclusively to encode runs of zeros.
	runA = 0
	runB = 1

	// rleNotAValue marks "no run in progress" in the RLE1 accumulator.
	rleNotAValue = -1
)
