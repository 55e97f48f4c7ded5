package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/trueskill/internal/domain/model"
)

var errInvalidTeam = errors.New("invalid team")

// defaults fills in fields left empty in a player entry.
type defaults struct {
	mu    float64
	sigma float64
}

// parseTeam reads "[name=]mu[:sigma[:weight]],..." into a team. An empty mu
// or sigma takes the configured default, so ":5" is a default-mu player.
func parseTeam(spec string, d defaults) (model.Team, error) {
	var team model.Team
	spec = strings.TrimSpace(spec)
	if name, rest, ok := strings.Cut(spec, "="); ok {
		team.Name = strings.TrimSpace(name)
		spec = rest
	}
	if strings.TrimSpace(spec) == "" {
		return team, fmt.Errorf("%w: no players", errInvalidTeam)
	}

	for _, entry := range strings.Split(spec, ",") {
		p, err := parsePlayer(strings.TrimSpace(entry), d)
		if err != nil {
			return team, err
		}
		team.Players = append(team.Players, p)
	}
	return team, nil
}

func parsePlayer(entry string, d defaults) (model.Player, error) {
	if entry == "" {
		return model.Player{}, fmt.Errorf("%w: empty player entry", errInvalidTeam)
	}
	parts := strings.Split(entry, ":")
	if len(parts) > 3 {
		return model.Player{}, fmt.Errorf("%w: %q has more than mu:sigma:weight", errInvalidTeam, entry)
	}

	p := model.Player{Mu: d.mu, Sigma: d.sigma}
	for i, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			if i == 2 {
				return model.Player{}, fmt.Errorf("%w: %q has an empty weight", errInvalidTeam, entry)
			}
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Player{}, fmt.Errorf("%w: %q: %w", errInvalidTeam, entry, err)
		}
		switch i {
		case 0:
			p.Mu = v
		case 1:
			p.Sigma = v
		default:
			w := v
			p.Weight = &w
		}
	}
	return p, nil
}

func parseTeams(specs []string, d defaults) ([]model.Team, error) {
	teams := make([]model.Team, 0, len(specs))
	for i, s := range specs {
		t, err := parseTeam(s, d)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", i+1, err)
		}
		teams = append(teams, t)
	}
	return teams, nil
}
