package bzip2block

import (
	"bytes"
	"compress/bzip2"
	"io"
	"testing"
)

// eosMagicHi and eosMagicLo form the 48-bit BZip2 stream footer marker; writing it
// plus a combined CRC after a single block produces a complete, valid
// one-block .bz2 stream that the standard library can decode. Stream
// framing is out of scope for this package's own API; this helper exists
// only so tests have an independent oracle.
const (
	eosMagicHi = 0x177245
	eosMagicLo = 0x385090
)

// encodeStream builds a minimal one-block .bz2 stream: raw "BZh"+level
// header bytes, then the block emitted by a BlockCompressor sharing the
// same bit writer, then the stream footer.
func encodeStream(t *testing.T, input []byte, level int, opts ...Option) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteByte('B')
	buf.WriteByte('Z')
	buf.WriteByte('h')
	buf.WriteByte('0' + byte(level))

	bw := newBitWriter(&buf)

	var o options
	o.setDefault()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			t.Fatalf("option: %v", err)
		}
	}

	bc := newBlockCompressor(bw, level*100000, o)
	n := bc.WriteBytes(input)
	if n != len(input) {
		t.Fatalf("WriteBytes accepted %d of %d bytes", n, len(input))
	}
	if err := bc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	bw.writeBits(24, eosMagicHi)
	bw.writeBits(24, eosMagicLo)
	bw.writeU32(bc.CRC())
	if err := bw.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	return buf.Bytes()
}

func roundTrip(t *testing.T, input []byte) []byte {
	t.Helper()
	stream := encodeStream(t, input, 1)
	out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(stream)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRoundTripSingleByte(t *testing.T) {
	got := roundTrip(t, []byte("A"))
	if !bytes.Equal(got, []byte("A")) {
		t.Fatalf("got %q, want %q", got, "A")
	}
}

func TestRoundTripHelloWorld(t *testing.T) {
	input := []byte("Hello, world!\n")
	stream := encodeStream(t, input, 1)

	wantPrefix := []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	got := stream[4 : 4+6] // skip the 4-byte "BZh1" header
	if !bytes.Equal(got, wantPrefix) {
		t.Fatalf("block prefix = % x, want % x", got, wantPrefix)
	}

	out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(stream)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}

func TestRoundTripRuns(t *testing.T) {
	cases := [][]byte{
		bytes.Repeat([]byte("a"), 100),
		bytes.Repeat([]byte("A"), 255),
		bytes.Repeat([]byte("A"), 256),
		[]byte("abracadabra"),
		[]byte{0x00},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !bytes.Equal(got, c) {
			t.Fatalf("round trip of %d bytes mismatched: got %q, want %q", len(c), got, c)
		}
	}
}

func TestRoundTripTwoSymbolAlphabet(t *testing.T) {
	input := bytes.Repeat([]byte{'a', 'b'}, 150)
	got := roundTrip(t, input)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatched for two-symbol alphabet")
	}
}

func TestRoundTripPseudoRandom(t *testing.T) {
	data := make([]byte, 10*1024)
	x := uint32(0x2545F491)
	for i := range data {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		data[i] = byte(x)
	}
	got := roundTrip(t, data)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatched for 10KiB pseudo-random input")
	}
}

func TestDeterministicOutput(t *testing.T) {
	input := []byte("abracadabra")
	a := encodeStream(t, input, 1)
	b := encodeStream(t, input, 1)
	if !bytes.Equal(a, b) {
		t.Fatalf("two encodes of the same input diverged")
	}
}

func TestBlockCRCSingleZeroByte(t *testing.T) {
	bc := newBlockCompressor(newBitWriter(&bytes.Buffer{}), 100000, defaultOptions())
	if !bc.WriteByte(0x00) {
		t.Fatal("WriteByte refused first byte")
	}
	if err := bc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	const want = 0xBE4D64DD
	if got := bc.CRC(); got != want {
		t.Fatalf("CRC = %#08x, want %#08x", got, want)
	}
}

func defaultOptions() options {
	var o options
	o.setDefault()
	return o
}
