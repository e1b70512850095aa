package gzip

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"
)

// Codec compresses and decompresses data using gzip. Readers and writers are
// pooled and reused across calls.
type Codec struct {
	level      int
	readerPool sync.Pool
	writerPool sync.Pool
}

func NewCodec(level int) *Codec {
	return &Codec{
		level: level,
	}
}

func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	writer, _ := c.writerPool.Get().(*gzip.Writer)
	if writer != nil {
		writer.Reset(&buf)
	} else {
		writer, err = gzip.NewWriterLevel(&buf, c.level)
		if err != nil {
			return nil, err
		}
	}
	defer c.writerPool.Put(writer)

	if _, err = writer.Write(data); err != nil {
		return nil, err
	}
	if err = writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decompress(data []byte) ([]byte, error) {
	var err error

	reader, _ := c.readerPool.Get().(*gzip.Reader)
	if reader != nil {
		err = reader.Reset(bytes.NewReader(data))
	} else {
		reader, err = gzip.NewReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	defer c.readerPool.Put(reader)

	var buf bytes.Buffer
	_, err = io.Copy(&buf, reader)
	return buf.Bytes(), err
}
