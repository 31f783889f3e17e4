package samplerate_test

import (
	"fmt"

	"github.com/cwbudde/algo-biosig/samplerate"
)

func ExampleFromTimestamps() {
	// Timestamps spaced 2 ms apart, with one 100 ms gap where the
	// acquisition dropped samples. The median interval ignores the gap.
	ts := make([]float64, 50)
	for i := 1; i < len(ts); i++ {
		ts[i] = ts[i-1] + 0.002
	}
	ts[25] += 0.1
	for i := 26; i < len(ts); i++ {
		ts[i] = ts[i-1] + 0.002
	}

	est, err := samplerate.FromTimestamps(ts)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.0f Hz\n", est.RateHz)
	// Output:
	// 500 Hz
}
