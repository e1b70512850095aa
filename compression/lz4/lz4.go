package lz4

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// Codec compresses and decompresses data using the lz4 frame format. Readers
// and writers are pooled and reused across calls.
type Codec struct {
	readerPool sync.Pool
	writerPool sync.Pool
}

func NewCodec() *Codec {
	return &Codec{}
}

func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, _ := c.writerPool.Get().(*lz4.Writer)
	if writer != nil {
		writer.Reset(&buf)
	} else {
		writer = lz4.NewWriter(&buf)
	}
	defer c.writerPool.Put(writer)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decompress(data []byte) ([]byte, error) {
	reader, _ := c.readerPool.Get().(*lz4.Reader)
	if reader != nil {
		reader.Reset(bytes.NewReader(data))
	} else {
		reader = lz4.NewReader(bytes.NewReader(data))
	}
	defer c.readerPool.Put(reader)

	var buf bytes.Buffer
	_, err := io.Copy(&buf, reader)
	return buf.Bytes(), err
}
