package persistence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Compressed zstd-compresses values on the way into an inner store. Values
// that do not start with a zstd frame header are returned as stored.
type Compressed struct {
	Store
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCompressed wraps inner
func NewCompressed(inner Store) (*Compressed, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Compressed{Store: inner, encoder: encoder, decoder: decoder}, nil
}

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(value, zstdMagic) {
		return value, nil
	}
	plain, err := c.decoder.DecodeAll(value, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", key, err)
	}
	return plain, nil
}

func (c *Compressed) Put(ctx context.Context, key string, value []byte) error {
	return c.Store.Put(ctx, key, c.encoder.EncodeAll(value, nil))
}

func (c *Compressed) Close() error {
	c.encoder.Close()
	c.decoder.Close()
	return c.Store.Close()
}
