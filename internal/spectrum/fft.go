package spectrum

import (
	"math"
	"math/cmplx"
)

// twiddle returns e^(-2*pi*i*k/n).
func twiddle(k, n int) complex128 {
	return cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
}

func hypot(re, im float64) float64 {
	return math.Hypot(re, im)
}
