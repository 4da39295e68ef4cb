package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// EncodeJPEG compresses frame at the given quality (1-100).
func EncodeJPEG(frame *gocv.Mat, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()
	return bytes.Clone(buf.GetBytes()), nil
}

// FrameCache holds the most recent encoded frame so viewers never touch the
// camera directly.
type FrameCache struct {
	mu      sync.Mutex
	frame   []byte
	version uint64
	changed chan struct{}
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{changed: make(chan struct{})}
}

// Publish replaces the cached frame and wakes waiting readers.
func (c *FrameCache) Publish(jpeg []byte) {
	c.mu.Lock()
	c.frame = jpeg
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()
}

// Latest returns the cached frame and its version. Version 0 means nothing
// has been published yet.
func (c *FrameCache) Latest() ([]byte, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame, c.version
}

// Next blocks until a frame newer than after is published or ctx is done.
func (c *FrameCache) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		c.mu.Lock()
		if c.version > after {
			frame, version := c.frame, c.version
			c.mu.Unlock()
			return frame, version, nil
		}
		wait := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-wait:
		}
	}
}
