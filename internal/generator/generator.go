// Package generator produces reproducible random rating data for benchmarks,
// demos and the generate command.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/internal/domain/rating"
)

// Defaults for generated ratings.
const (
	DefaultMuMin = 20.0
	DefaultMuMax = 30.0
)

// DefaultSigmas is the pool sigma values are drawn from.
var DefaultSigmas = []float64{5.1, 5.0, 6.7, 6.3, 7.0, 4.2}

// ErrInvalidSize is returned for non-positive counts.
var ErrInvalidSize = errors.New("invalid size")

// Generator is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	muMin  float64
	muMax  float64
	sigmas []float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithMuRange sets the half-open interval means are drawn from.
func WithMuRange(low, high float64) Option {
	return func(g *Generator) {
		if high > low {
			g.muMin, g.muMax = low, high
		}
	}
}

// WithSigmas replaces the sigma pool.
func WithSigmas(sigmas []float64) Option {
	return func(g *Generator) {
		if len(sigmas) > 0 {
			g.sigmas = append([]float64(nil), sigmas...)
		}
	}
}

// New returns a generator seeded with seed. Equal seeds give equal output.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible test data, not security sensitive
		muMin:  DefaultMuMin,
		muMax:  DefaultMuMax,
		sigmas: DefaultSigmas,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) player() model.Player {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(err)
	}
	return model.Player{
		ID:    id.String(),
		Mu:    g.muMin + g.rng.Float64()*(g.muMax-g.muMin),
		Sigma: g.sigmas[g.rng.Intn(len(g.sigmas))],
	}
}

func checkSize(groups, teamSize, minGroups int) error {
	if groups < minGroups {
		return fmt.Errorf("%w: need at least %d groups, got %d", ErrInvalidSize, minGroups, groups)
	}
	if teamSize < 1 {
		return fmt.Errorf("%w: team size must be positive, got %d", ErrInvalidSize, teamSize)
	}
	return nil
}

// Groups returns groups rating groups of teamSize ratings each.
func (g *Generator) Groups(groups, teamSize int) ([][]rating.Rating, error) {
	if err := checkSize(groups, teamSize, 1); err != nil {
		return nil, err
	}
	out := make([][]rating.Rating, groups)
	for i := range out {
		out[i] = make([]rating.Rating, teamSize)
		for j := range out[i] {
			out[i][j] = g.player().Rating()
		}
	}
	return out, nil
}

// Match returns one match of groups teams.
func (g *Generator) Match(id string, groups, teamSize int, mode model.Mode) (model.Match, error) {
	if err := checkSize(groups, teamSize, 2); err != nil {
		return model.Match{}, err
	}
	m := model.Match{ID: id, Mode: mode.OrDefault(), Teams: make([]model.Team, groups)}
	for i := range m.Teams {
		m.Teams[i].Name = "team-" + strconv.Itoa(i+1)
		m.Teams[i].Players = make([]model.Player, teamSize)
		for j := range m.Teams[i].Players {
			m.Teams[i].Players[j] = g.player()
		}
	}
	return m, nil
}

// Matches returns n matches with ids match-1..match-n.
func (g *Generator) Matches(n, groups, teamSize int, mode model.Mode) ([]model.Match, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: match count must be positive, got %d", ErrInvalidSize, n)
	}
	out := make([]model.Match, n)
	for i := range out {
		m, err := g.Match("match-"+strconv.Itoa(i+1), groups, teamSize, mode)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
