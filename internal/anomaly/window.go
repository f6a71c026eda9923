package anomaly

import "math"

// rollingWindow is a fixed-capacity FIFO of float64 samples with running
// mean and sample standard deviation over the current contents.
type rollingWindow struct {
	samples []float64
	cap     int
	head    int
	full    bool
}

func newRollingWindow(capacity int) *rollingWindow {
	return &rollingWindow{samples: make([]float64, 0, capacity), cap: capacity}
}

// Push appends a sample, evicting the oldest once the window is full.
func (w *rollingWindow) Push(v float64) {
	if !w.full {
		w.samples = append(w.samples, v)
		if len(w.samples) == w.cap {
			w.full = true
		}
		return
	}
	w.samples[w.head] = v
	w.head = (w.head + 1) % w.cap
}

// Len returns the number of samples currently held.
func (w *rollingWindow) Len() int { return len(w.samples) }

// Mean returns the arithmetic mean of the current samples, 0 when empty.
func (w *rollingWindow) Mean() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.samples {
		sum += v
	}
	return sum / float64(len(w.samples))
}

// StdDev returns the sample standard deviation (n-1 denominator) of the
// current samples. Fewer than two samples yield 0.
func (w *rollingWindow) StdDev() float64 {
	n := len(w.samples)
	if n < 2 {
		return 0
	}
	mean := w.Mean()
	var ss float64
	for _, v := range w.samples {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
