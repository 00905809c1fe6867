package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravswarm/internal/physics"
)

// Color is a physics.Color that reads YAML either as "#rrggbb[aa]" or as a
// [r, g, b, a] list, and writes the hex form.
type Color physics.Color

func (c Color) MarshalYAML() (interface{}, error) {
	return physics.Color(c).Hex(), nil
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(node.Value)
		if err != nil {
			return err
		}
		*c = Color(parsed)
		return nil
	case yaml.SequenceNode:
		var channels []int
		if err := node.Decode(&channels); err != nil {
			return fmt.Errorf("line %d: color: %w", node.Line, err)
		}
		if len(channels) != 3 && len(channels) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", node.Line, len(channels))
		}
		if len(channels) == 3 {
			channels = append(channels, 255)
		}
		for _, v := range channels {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: color channel %d outside [0, 255]", node.Line, v)
			}
		}
		*c = Color{R: uint8(channels[0]), G: uint8(channels[1]), B: uint8(channels[2]), A: uint8(channels[3])}
		return nil
	default:
		return fmt.Errorf("line %d: color must be a hex string or a list", node.Line)
	}
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa. Alpha defaults to opaque.
func ParseColor(s string) (physics.Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint64(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return physics.Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return physics.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return physics.Color{R: r, G: g, B: b, A: uint8(alpha)}, nil
}
