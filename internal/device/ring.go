package device

import "sync"

// Ring is a fixed-capacity circular buffer of samples bridging the audio
// backend's callback context to the processing thread's blocking reads.
// Writes from the callback never block: when the buffer is full the oldest
// samples are dropped, which trades a glitch under overload for bounded
// latency.
type Ring struct {
	mu       sync.Mutex
	notEmpty *sync.Cond

	data     []int16
	readPos  int
	writePos int
	size     int
	closed   bool
}

// NewRing creates a ring buffer holding up to capacity samples.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring{data: make([]int16, capacity)}
	r.notEmpty = sync.NewCond(&r.mu)
	return r
}

// Write copies samples into the ring, discarding the oldest samples if the
// ring is full, and wakes any blocked reader. Writes on a closed ring are
// discarded.
func (r *Ring) Write(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(samples) == 0 {
		return
	}

	capacity := len(r.data)
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}

	// Drop oldest to make room
	overflow := r.size + len(samples) - capacity
	if overflow > 0 {
		r.readPos = (r.readPos + overflow) % capacity
		r.size -= overflow
	}

	for _, s := range samples {
		r.data[r.writePos] = s
		r.writePos = (r.writePos + 1) % capacity
	}
	r.size += len(samples)

	r.notEmpty.Broadcast()
}

// Read blocks until at least one sample is available or the ring is
// closed, then copies up to len(p) samples into p. It returns 0 and
// ErrClosed once the ring is closed and drained.
func (r *Ring) Read(p []int16) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.size == 0 {
		if r.closed {
			return 0, ErrClosed
		}
		r.notEmpty.Wait()
	}

	n := len(p)
	if n > r.size {
		n = r.size
	}
	for i := 0; i < n; i++ {
		p[i] = r.data[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.data)
	}
	r.size -= n

	return n, nil
}

// Available returns the number of buffered samples.
func (r *Ring) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Close wakes all blocked readers. Buffered samples may still be drained;
// subsequent reads on an empty ring return ErrClosed.
func (r *Ring) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.notEmpty.Broadcast()
}
