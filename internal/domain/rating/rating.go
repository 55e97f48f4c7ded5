// Package rating defines a participant's skill estimate on top of a Gaussian
// belief.
package rating

import (
	"github.com/okian/trueskill/internal/domain/gaussian"
)

// Default rating environment.
const (
	DefaultMu    = 25.0
	DefaultSigma = DefaultMu / 3
	DefaultBeta  = DefaultSigma / 2
)

// Rating is one participant's skill estimate at one moment in time.
// It is an immutable value; all numeric behaviour comes from the wrapped belief.
type Rating struct {
	belief gaussian.Gaussian
}

var _ gaussian.Belief[Rating] = Rating{}

// New returns the rating N(mu, sigma²).
func New(mu, sigma float64) Rating {
	return Rating{belief: gaussian.FromMuSigma(mu, sigma)}
}

// Default returns a fresh rating with DefaultMu and DefaultSigma.
func Default() Rating {
	return New(DefaultMu, DefaultSigma)
}

// FromGaussian wraps an existing belief.
func FromGaussian(g gaussian.Gaussian) Rating {
	return Rating{belief: g}
}

// Gaussian returns the underlying belief.
func (r Rating) Gaussian() gaussian.Gaussian { return r.belief }

func (r Rating) Mean() float64     { return r.belief.Mean() }
func (r Rating) StdDev() float64   { return r.belief.StdDev() }
func (r Rating) Variance() float64 { return r.belief.Variance() }
func (r Rating) Pi() float64       { return r.belief.Pi }
func (r Rating) Tau() float64      { return r.belief.Tau }

// Combine returns the rating whose belief is the product of both beliefs.
func (r Rating) Combine(other Rating) Rating {
	return FromGaussian(r.belief.Combine(other.belief))
}

// Separate returns the rating with other's belief divided out.
func (r Rating) Separate(other Rating) Rating {
	return FromGaussian(r.belief.Separate(other.belief))
}

func (r Rating) String() string { return r.belief.String() }
