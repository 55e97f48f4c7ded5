// Package gaussian implements the canonical (precision) form of a 1-D normal
// distribution used to represent skill beliefs.
//
// In canonical form a belief is stored as its precision Pi = 1/sigma² and its
// precision-adjusted mean Tau = Pi·mu. Multiplying two densities becomes a
// coordinate-wise sum and dividing becomes a difference, which is why the
// factor-graph code never works in (mu, sigma) directly.
package gaussian

import (
	"fmt"
	"math"
)

// Belief is the minimal capability set shared by Gaussian and the rating
// types built on top of it.
type Belief[T any] interface {
	Mean() float64
	StdDev() float64
	Combine(other T) T
	Separate(other T) T
}

// Gaussian is a normal distribution in canonical form.
// The zero value is the improper (uninformative) belief.
type Gaussian struct {
	Pi  float64 // precision
	Tau float64 // precision-adjusted mean
}

var _ Belief[Gaussian] = Gaussian{}

// New builds a belief whose precision is sigma², not 1/sigma².
//
// It is the constructor used when re-deriving a canonical form from a
// variance-like quantity. Use FromMuSigma for an ordinary (mu, sigma) belief;
// the two are intentionally not interchangeable.
func New(mu, sigma float64) Gaussian {
	pi := sigma * sigma
	return Gaussian{Pi: pi, Tau: pi * mu}
}

// FromMuSigma builds the canonical form of N(mu, sigma²).
func FromMuSigma(mu, sigma float64) Gaussian {
	pi := 1 / (sigma * sigma)
	return Gaussian{Pi: pi, Tau: pi * mu}
}

// Mean returns Tau/Pi, or 0 for an improper belief.
func (g Gaussian) Mean() float64 {
	if g.Pi == 0 {
		return 0
	}
	return g.Tau / g.Pi
}

// StdDev returns sqrt(1/Pi), or 0 for an improper belief.
func (g Gaussian) StdDev() float64 {
	if g.Pi == 0 {
		return 0
	}
	return math.Sqrt(1 / g.Pi)
}

// Variance returns StdDev squared.
func (g Gaussian) Variance() float64 {
	s := g.StdDev()
	return s * s
}

// IsProper reports whether the belief carries any information.
func (g Gaussian) IsProper() bool {
	return g.Pi > 0
}

// Combine multiplies two densities. The result is not renormalised.
func (g Gaussian) Combine(other Gaussian) Gaussian {
	return Gaussian{Pi: g.Pi + other.Pi, Tau: g.Tau + other.Tau}
}

// Separate divides other out of g; it is the inverse of Combine.
func (g Gaussian) Separate(other Gaussian) Gaussian {
	return Gaussian{Pi: g.Pi - other.Pi, Tau: g.Tau - other.Tau}
}

func (g Gaussian) String() string {
	return fmt.Sprintf("N(mu=%.4f, sigma=%.4f)", g.Mean(), g.StdDev())
}
