// Package design computes Butterworth bandpass filter coefficients for
// biomedical signal conditioning.
//
// A bandpass of order N is realized as an order-N Butterworth highpass
// cascade at the low cutoff followed by an order-N Butterworth lowpass
// cascade at the high cutoff. The design is a pure function of the Spec:
// identical specs always yield identical coefficients, so a Cache can be
// shared across signals.
package design
