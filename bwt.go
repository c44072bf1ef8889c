package bzip2block

// BWT computes the Burrows-Wheeler Transform of a byte block. The
// compressor calls Transform with block sized so that block[0:length] is
// the primary data and block[length] holds a wrap byte equal to block[0]
// (present for kernels that prefer linear scans over cyclic indexing;
// implementations are free to ignore it and treat block[0:length] as
// cyclic).
//
// Transform must write the permuted bytes into dst[0:length] (widened to
// int32; only the low 8 bits are meaningful) and return the primary
// pointer: the index within dst of the rotation that begins at block[0].
// dst must have length >= length.
type BWT interface {
	Transform(dst []int32, block []byte, length int) (primary int, err error)
}
