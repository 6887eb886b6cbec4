package indicator

import (
	"fmt"
	"math"
)

// RollingWindow is a fixed-capacity FIFO buffer of float64 values.
// Once capacity is reached the oldest value is evicted on every Add.
// It is the shared primitive behind SMA, Stochastic, Stochastic-RSI,
// Bollinger Bands and the RSI seeding phase.
//
// Max, Min, Average and StdDev are computed over the current contents.
// Callers should check IsFull before relying on them; before first fill
// they reflect only the values added so far.
type RollingWindow struct {
	capacity int
	buf      []float64 // preallocated ring buffer
	idx      int       // next write position
	count    int       // total values received
	sum      float64   // running sum of current contents
}

// NewRollingWindow creates a rolling window with the given capacity.
func NewRollingWindow(capacity int) (*RollingWindow, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("rolling window capacity must be at least 1, got %d", capacity)
	}
	return &RollingWindow{
		capacity: capacity,
		buf:      make([]float64, capacity),
	}, nil
}

// Add appends a value, evicting the oldest once capacity is exceeded.
func (w *RollingWindow) Add(value float64) {
	if w.count >= w.capacity {
		// Subtract the oldest value being overwritten
		w.sum -= w.buf[w.idx]
	}
	w.buf[w.idx] = value
	w.sum += value
	w.idx = (w.idx + 1) % w.capacity
	w.count++
}

// IsFull reports whether capacity has been reached at least once.
func (w *RollingWindow) IsFull() bool {
	return w.count >= w.capacity
}

// Len returns the number of values currently held.
func (w *RollingWindow) Len() int {
	if w.count < w.capacity {
		return w.count
	}
	return w.capacity
}

// Capacity returns the fixed capacity of the window.
func (w *RollingWindow) Capacity() int {
	return w.capacity
}

// Max returns the largest value in the window. Returns 0 for an empty window.
func (w *RollingWindow) Max() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	max := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] > max {
			max = w.buf[i]
		}
	}
	return max
}

// Min returns the smallest value in the window. Returns 0 for an empty window.
func (w *RollingWindow) Min() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	min := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] < min {
			min = w.buf[i]
		}
	}
	return min
}

// Average returns the arithmetic mean of the window contents.
// Returns 0 for an empty window.
func (w *RollingWindow) Average() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	return w.sum / float64(n)
}

// StdDev returns the population standard deviation of the window contents.
// Returns 0 for an empty window.
func (w *RollingWindow) StdDev() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	mean := w.sum / float64(n)
	var variance float64
	for i := 0; i < n; i++ {
		d := w.buf[i] - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

// Reset clears the window contents.
func (w *RollingWindow) Reset() {
	w.idx = 0
	w.count = 0
	w.sum = 0
	for i := range w.buf {
		w.buf[i] = 0
	}
}
