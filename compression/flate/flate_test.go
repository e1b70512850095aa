package flate

import (
	"compress/flate"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodec(t *testing.T) {
	codec := &Codec{Level: flate.BestCompression}

	testStr := "This is a test string. Hopefully it compresses and then decompresses to the same value!"
	compressed, err := codec.Compress([]byte(testStr))
	assert.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	assert.NoError(t, err)
	assert.Equal(t, testStr, string(decompressed))
}
