package config

import (
	"github.com/pelletier/go-toml/v2"
)

// TOMLParser adapts go-toml to koanf's Parser interface.
type TOMLParser struct{}

// TOML returns a koanf parser for TOML decks.
func TOML() *TOMLParser {
	return &TOMLParser{}
}

func (p *TOMLParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *TOMLParser) Marshal(o map[string]any) ([]byte, error) {
	return toml.Marshal(o)
}
