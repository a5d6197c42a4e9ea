// Package frame synchronizes frames painted by an off-screen engine on its
// own goroutine with consumers uploading the latest frame into textures.
//
// A single Buffer is written by a Producer and read by any number of
// Uploaders. Writers hold the buffer exclusively, readers share it, so a
// reader never observes a partially written frame or a pixel slice whose
// length disagrees with the reported dimensions.
package frame

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tauraamui/offscreend/pkg/engine"
)

var timeNow = func() time.Time {
	return time.Now()
}

// Buffer owns the most recent frame's pixels (BGRA, tightly packed) and
// its dimensions. The zero value is an empty buffer ready for use.
type Buffer struct {
	mu          sync.RWMutex
	width       int
	height      int
	pixels      []byte
	lastUpdate  int64
	allocations uint64
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) BeginWrite() { b.mu.Lock() }
func (b *Buffer) EndWrite()   { b.mu.Unlock() }
func (b *Buffer) BeginRead()  { b.mu.RLock() }
func (b *Buffer) EndRead()    { b.mu.RUnlock() }

// Width, Height and Pixels must only be called while holding the buffer
// for reading or writing.
func (b *Buffer) Width() int     { return b.width }
func (b *Buffer) Height() int    { return b.height }
func (b *Buffer) Pixels() []byte { return b.pixels }
func (b *Buffer) pitch() int     { return b.width * engine.BytesPerPixel }
func (b *Buffer) empty() bool    { return b.width == 0 || b.height == 0 }
func (b *Buffer) byteSize() int  { return b.width * b.height * engine.BytesPerPixel }

// Resize must be called while holding the buffer for writing. The pixel
// slice is only replaced when the dimensions change.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return
	}

	b.pixels = nil
	b.width, b.height = width, height
	b.pixels = make([]byte, b.byteSize())
	atomic.AddUint64(&b.allocations, 1)
}

// Release drops the pixel slice. It waits for any reader or writer in
// flight, and is safe to call any number of times.
func (b *Buffer) Release() {
	b.BeginWrite()
	defer b.EndWrite()
	b.pixels = nil
	b.width, b.height = 0, 0
}

// LastUpdate is the wall clock time in milliseconds since the epoch of the
// last completed write, zero before the first one.
func (b *Buffer) LastUpdate() int64 {
	return atomic.LoadInt64(&b.lastUpdate)
}

// Allocations counts how many pixel slices the buffer has allocated.
func (b *Buffer) Allocations() uint64 {
	return atomic.LoadUint64(&b.allocations)
}

// stamp must be called while holding the buffer for writing. The stored
// timestamp never moves backwards even if the wall clock does.
func (b *Buffer) stamp(now time.Time) {
	ms := now.UnixNano() / int64(time.Millisecond)
	if ms < atomic.LoadInt64(&b.lastUpdate) {
		return
	}
	atomic.StoreInt64(&b.lastUpdate, ms)
}
