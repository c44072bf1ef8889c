package bzip2block

import "io"

// BlockCompressor performs RLE1 preconditioning, block accounting (CRC,
// presence, length limit), and on Close drives the BWT and Huffman back
// end to emit one bzip2 block onto a bit sink. A BlockCompressor is
// single-use: construct one per block.
type BlockCompressor struct {
	opts options

	blockSize int // C
	limit     int // C - 5

	block  []byte  // capacity blockSize+1 (extra slot for the wrap byte)
	bwtBuf []int32 // capacity blockSize

	presence    [256]bool
	blockLength int

	curValue  int // rleNotAValue when no run is in progress
	runLength int

	accepted bool
	closed   bool

	crc *blockCRC
	bw  *bitWriter
}

// NewBlockCompressor constructs a BlockCompressor writing to w. blockSize
// is the block capacity in bytes (conventionally 100000 * level, for
// level in 1..9).
func NewBlockCompressor(w io.Writer, blockSize int, opts ...Option) (*BlockCompressor, error) {
	if blockSize < 6 {
		return nil, Error("bzip2block: block size too small")
	}
	var o options
	o.setDefault()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return newBlockCompressor(newBitWriter(w), blockSize, o), nil
}

func newBlockCompressor(bw *bitWriter, blockSize int, o options) *BlockCompressor {
	return &BlockCompressor{
		opts:      o,
		blockSize: blockSize,
		limit:     blockSize - 5,
		block:     make([]byte, blockSize+1),
		bwtBuf:    make([]int32, blockSize),
		curValue:  rleNotAValue,
		crc:       newBlockCRC(),
		bw:        bw,
	}
}

// WriteByte accepts one byte, applying RLE1. It returns false if the block
// has no room left for another byte; the caller must Close and start a new
// block. Calling WriteByte after Close is a programming error.
func (bc *BlockCompressor) WriteByte(v byte) bool {
	if bc.closed {
		panic(ErrClosed)
	}
	if bc.blockLength > bc.limit {
		return false
	}
	bc.acceptByte(v)
	bc.accepted = true
	return true
}

// WriteBytes repeatedly calls WriteByte and returns the count accepted,
// which may be less than len(p) when the block fills up.
func (bc *BlockCompressor) WriteBytes(p []byte) int {
	n := 0
	for n < len(p) {
		if !bc.WriteByte(p[n]) {
			break
		}
		n++
	}
	return n
}

// IsEmpty reports whether no WriteByte call has ever returned true.
func (bc *BlockCompressor) IsEmpty() bool {
	return !bc.accepted
}

// CRC returns the block CRC. It is only meaningful after Close.
func (bc *BlockCompressor) CRC() uint32 {
	return bc.crc.sum()
}

func (bc *BlockCompressor) acceptByte(v byte) {
	switch {
	case bc.curValue == rleNotAValue:
		bc.curValue = int(v)
		bc.runLength = 1
	case bc.curValue == int(v) && bc.runLength < 254:
		bc.runLength++
	case bc.curValue == int(v):
		// runLength == 254: this byte completes a run of 255.
		bc.emitRun(byte(bc.curValue), 255)
		bc.curValue = rleNotAValue
	default:
		bc.emitRun(byte(bc.curValue), bc.runLength)
		bc.curValue = int(v)
		bc.runLength = 1
	}
}

func (bc *BlockCompressor) emitRun(v byte, r int) {
	bc.presence[v] = true
	bc.crc.updateRun(v, r)

	if r <= 3 {
		for i := 0; i < r; i++ {
			bc.appendBlockByte(v)
		}
		return
	}
	for i := 0; i < 4; i++ {
		bc.appendBlockByte(v)
	}
	extra := byte(r - 4)
	bc.appendBlockByte(extra)
	bc.presence[extra] = true
}

func (bc *BlockCompressor) appendBlockByte(b byte) {
	bc.block[bc.blockLength] = b
	bc.blockLength++
}

// Close finalizes any in-flight run, invokes the BWT kernel, writes the
// block preamble, and delegates the block body to the Huffman back end.
// It does not flush the bit sink; a surrounding stream framer flushes
// after writing the stream footer.
func (bc *BlockCompressor) Close() error {
	if bc.closed {
		panic(ErrClosed)
	}
	if bc.IsEmpty() {
		return ErrEmptyBlock
	}

	if bc.curValue != rleNotAValue {
		bc.emitRun(byte(bc.curValue), bc.runLength)
		bc.curValue = rleNotAValue
	}

	bc.block[bc.blockLength] = bc.block[0] // wrap byte, not counted in blockLength

	primary, err := bc.opts.bwt.Transform(bc.bwtBuf, bc.block, bc.blockLength)
	if err != nil {
		return err
	}
	if primary < 0 || primary >= bc.blockLength {
		panic("bzip2block: BWT kernel returned out-of-range primary pointer")
	}
	bc.closed = true

	bc.bw.writeBits(24, blockMagicHi)
	bc.bw.writeBits(24, blockMagicLo)
	bc.bw.writeU32(bc.crc.sum())
	bc.bw.writeBool(false) // randomised, always false
	bc.bw.writeBits(24, uint32(primary))

	enc := newHuffmanEncoder(bc.bwtBuf[:bc.blockLength], bc.presence, bc.bw, bc.opts.alloc)
	enc.encode()

	return bc.bw.Err()
}
