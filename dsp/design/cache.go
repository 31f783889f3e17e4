package design

import (
	"sync"

	"github.com/cwbudde/algo-biosig/dsp/biquad"
)

// Cache memoizes bandpass designs keyed by Spec. Since Bandpass is a pure
// function, cached coefficients are safe to share across signals; callers
// must not mutate the returned slice.
type Cache struct {
	mu sync.Mutex
	m  map[Spec][]biquad.Coefficients
}

// NewCache returns an empty coefficient cache.
func NewCache() *Cache {
	return &Cache{m: make(map[Spec][]biquad.Coefficients)}
}

// Bandpass returns the cascade for spec, designing it on first use.
func (c *Cache) Bandpass(spec Spec) ([]biquad.Coefficients, error) {
	spec = spec.withDefaults()

	c.mu.Lock()
	defer c.mu.Unlock()

	if sections, ok := c.m[spec]; ok {
		return sections, nil
	}

	sections, err := Bandpass(spec)
	if err != nil {
		return nil, err
	}
	c.m[spec] = sections

	return sections, nil
}

// Len returns the number of cached designs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.m)
}
