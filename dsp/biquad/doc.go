// Package biquad implements second-order IIR filter sections and cascades.
//
// A Section processes samples in Direct Form II Transposed, which keeps
// the delay line short and numerically well behaved for the low-order
// filters used on physiological signals. Higher-order filters are built
// as a Chain of sections, each feeding the next.
package biquad
