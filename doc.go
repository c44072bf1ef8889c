// Package bzip2block implements the BZip2 block compression pipeline:
// RLE1 preconditioning, a pluggable Burrows-Wheeler transform, Move-To-Front
// plus run-length coding of zero runs (RLE2), and a multi-table canonical
// Huffman back end with iterative selector/table co-optimization.
//
// The package produces a single block's worth of bits, MSB-first, matching
// the wire format a conforming BZip2 decoder expects for one block. Stream
// framing (the "BZh" file header, the stream footer, and concatenation of
// multiple blocks) is deliberately out of scope: callers that need a full
// .bz2 stream own that layer themselves and use BlockCompressor once per
// block.
//
// The suffix-sorting kernel and the Huffman code-length allocator are
// treated as pluggable collaborators (see BWT and LengthAllocator). Default
// implementations are provided and are used unless overridden with
// WithBWT or WithLengthAllocator.
package bzip2block
