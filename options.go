package bzip2block

import (
	"github.com/nine9labs/bzip2block/internal/bwt"
	"github.com/nine9labs/bzip2block/internal/prefixlen"
)

// Option configures a BlockCompressor.
type Option func(*options) error

type options struct {
	bwt   BWT
	alloc LengthAllocator
}

func (o *options) setDefault() {
	o.bwt = bwt.Default{}
	o.alloc = prefixlen.Default{}
}

// WithBWT overrides the Burrows-Wheeler Transform kernel used when a block
// is closed. The default is a reference rotation-sort kernel; supply a
// linear-time suffix-sort kernel for large blocks.
func WithBWT(b BWT) Option {
	return func(o *options) error {
		if b == nil {
			return Error("bzip2block: nil BWT")
		}
		o.bwt = b
		return nil
	}
}

// WithLengthAllocator overrides the Huffman code-length allocator used
// during selector/table optimization.
func WithLengthAllocator(a LengthAllocator) Option {
	return func(o *options) error {
		if a == nil {
			return Error("bzip2block: nil LengthAllocator")
		}
		o.alloc = a
		return nil
	}
}
