package services

import (
	"os"
	"strings"
)

// PlaceholderConfig names the reserved player identities the scoreboard
// device emits when nobody typed a real name: the German/English default
// labels, bare slot numbers, and the auto-generated "New Player N" labels.
// Their matches stay in storage but they never appear in player-facing
// listings or leaderboards.
type PlaceholderConfig struct {
	ReservedNames   []string
	GeneratedPrefix string
}

func DefaultPlaceholderConfig() PlaceholderConfig {
	return PlaceholderConfig{
		ReservedNames:   []string{"Spieler A", "Spieler B", "Player1", "Player2", "1", "2"},
		GeneratedPrefix: "New Player",
	}
}

// PlaceholderConfigFromEnv reads RESERVED_PLAYER_NAMES (comma-separated) and
// GENERATED_PLAYER_PREFIX, falling back to the defaults when unset.
func PlaceholderConfigFromEnv() PlaceholderConfig {
	cfg := DefaultPlaceholderConfig()
	if raw := os.Getenv("RESERVED_PLAYER_NAMES"); raw != "" {
		var names []string
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) > 0 {
			cfg.ReservedNames = names
		}
	}
	if prefix := os.Getenv("GENERATED_PLAYER_PREFIX"); prefix != "" {
		cfg.GeneratedPrefix = prefix
	}
	return cfg
}

func (p PlaceholderConfig) IsPlaceholder(name string) bool {
	for _, reserved := range p.ReservedNames {
		if name == reserved {
			return true
		}
	}
	return p.GeneratedPrefix != "" && strings.HasPrefix(name, p.GeneratedPrefix)
}
