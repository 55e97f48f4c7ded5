// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/trueskill/internal/domain/rating"
)

// Mode selects how a match is evaluated.
type Mode string

const (
	// ModeQuality evaluates all teams jointly.
	ModeQuality Mode = "quality"
	// ModeFreeForAll averages the quality of every pair of teams.
	ModeFreeForAll Mode = "free_for_all"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown mode")

// ErrInvalidMatch wraps struct validation failures.
var ErrInvalidMatch = errors.New("invalid match")

// ParseMode accepts the canonical names plus "ffa" and "free-for-all".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quality":
		return ModeQuality, nil
	case "ffa", "free_for_all", "free-for-all":
		return ModeFreeForAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// OrDefault returns ModeQuality for the zero value.
func (m Mode) OrDefault() Mode {
	if m == "" {
		return ModeQuality
	}
	return m
}

// Player is one rated participant. A nil Weight means full participation.
type Player struct {
	ID     string   `yaml:"id,omitempty"`
	Mu     float64  `yaml:"mu"`
	Sigma  float64  `yaml:"sigma" validate:"gt=0"`
	Weight *float64 `yaml:"weight,omitempty" validate:"omitempty,gte=0"`
}

// EffectiveWeight returns the weight, defaulting to 1.
func (p Player) EffectiveWeight() float64 {
	if p.Weight == nil {
		return 1
	}
	return *p.Weight
}

// Rating converts the player to a rating belief.
func (p Player) Rating() rating.Rating {
	return rating.New(p.Mu, p.Sigma)
}

// Team is a rating group.
type Team struct {
	Name    string   `yaml:"name,omitempty"`
	Players []Player `yaml:"players" validate:"required,min=1,dive"`
}

// Match is a set of teams to be evaluated together. A zero Beta means the
// caller's default applies.
type Match struct {
	ID    string  `yaml:"id,omitempty"`
	Name  string  `yaml:"name,omitempty"`
	Mode  Mode    `yaml:"mode,omitempty" validate:"omitempty,oneof=quality free_for_all"`
	Beta  float64 `yaml:"beta,omitempty" validate:"gte=0"`
	Teams []Team  `yaml:"teams" validate:"required,min=2,dive"`
}

var validate = validator.New()

// Validate checks the struct constraints of the match.
func (m Match) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, err)
	}
	return nil
}

// Label identifies the match in logs and output.
func (m Match) Label() string {
	switch {
	case m.Name != "":
		return m.Name
	case m.ID != "":
		return m.ID
	default:
		return "unnamed"
	}
}

// RatingGroups converts teams to rating groups. Weights are nil when every
// player participates fully.
func (m Match) RatingGroups() ([][]rating.Rating, [][]float64) {
	groups := make([][]rating.Rating, len(m.Teams))
	weights := make([][]float64, len(m.Teams))
	weighted := false
	for i, t := range m.Teams {
		groups[i] = make([]rating.Rating, len(t.Players))
		weights[i] = make([]float64, len(t.Players))
		for j, p := range t.Players {
			groups[i][j] = p.Rating()
			w := p.EffectiveWeight()
			weights[i][j] = w
			if w != 1 {
				weighted = true
			}
		}
	}
	if !weighted {
		return groups, nil
	}
	return groups, weights
}

// Result is the outcome of evaluating one match.
type Result struct {
	MatchID string
	Name    string
	Mode    Mode
	Quality float64
	Err     error
}
