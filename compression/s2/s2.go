package s2

import (
	"github.com/klauspost/compress/s2"
)

// Codec compresses and decompresses data using S2 block encoding. S2 is an
// extension of Snappy that favors throughput over compression ratio.
type Codec struct{}

func (c Codec) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (c Codec) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}
