package rfm

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed segments.yaml
var segmentsYAML []byte

// ScoreRange is an inclusive [Min, Max] score interval.
type ScoreRange struct {
	Min int `yaml:"-" json:"min"`
	Max int `yaml:"-" json:"max"`
}

// Contains reports whether the score lies inside the range.
func (r ScoreRange) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}

// Segment is one named customer segment with its score ranges and the
// marketing metadata the reporting layer attaches to it.
type Segment struct {
	Name     string     `json:"name"`
	R        ScoreRange `json:"r"`
	F        ScoreRange `json:"f"`
	M        ScoreRange `json:"m"`
	Strategy string     `json:"strategy"`
	Color    string     `json:"color"`
}

// Matches reports whether all three scores fall inside the segment's ranges.
func (s Segment) Matches(r, f, m int) bool {
	return s.R.Contains(r) && s.F.Contains(f) && s.M.Contains(m)
}

// Catalogue is an ordered, immutable set of segments. Classification walks
// the declared order and the first match wins, so more valuable segments
// must come first.
type Catalogue struct {
	segments []Segment
	byName   map[string]Segment
}

// Names of the fallback tiers used when no declared range matches. They
// must all exist in the catalogue so strategy and color metadata attach.
const (
	fallbackTop    = "Loyal Customers"
	fallbackHigh   = "Potential Loyalist"
	fallbackMid    = "Need Attention"
	fallbackLow    = "At Risk"
	fallbackBottom = "Lost"
)

// NewCatalogue builds a catalogue from an ordered segment list. Every
// fallback tier name must be present.
func NewCatalogue(segments []Segment) (*Catalogue, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("segment catalogue is empty")
	}
	byName := make(map[string]Segment, len(segments))
	for _, s := range segments {
		if s.Name == "" {
			return nil, fmt.Errorf("segment with empty name")
		}
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate segment %q", s.Name)
		}
		byName[s.Name] = s
	}
	for _, name := range []string{fallbackTop, fallbackHigh, fallbackMid, fallbackLow, fallbackBottom} {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("catalogue is missing fallback segment %q", name)
		}
	}
	return &Catalogue{segments: segments, byName: byName}, nil
}

// DefaultCatalogue returns the catalogue embedded with the binary.
func DefaultCatalogue() *Catalogue {
	return defaultCatalogue
}

// Segments returns the catalogue in declaration order. Callers must not
// mutate the returned slice.
func (c *Catalogue) Segments() []Segment {
	return c.segments
}

// Classify maps a score triple to its segment. The catalogue is walked in
// declaration order and the first segment whose three ranges all contain
// the scores wins. The declared ranges do not cover the whole score space,
// so unmatched triples fall back to tiers keyed on the R+F+M sum. The
// result is total: every triple yields exactly one segment.
func (c *Catalogue) Classify(r, f, m int) Segment {
	for _, s := range c.segments {
		if s.Matches(r, f, m) {
			return s
		}
	}

	sum := r + f + m
	switch {
	case sum >= 13:
		return c.byName[fallbackTop]
	case sum >= 10:
		return c.byName[fallbackHigh]
	case sum >= 7:
		return c.byName[fallbackMid]
	case sum >= 4:
		return c.byName[fallbackLow]
	default:
		return c.byName[fallbackBottom]
	}
}

type segmentSpec struct {
	Name     string `yaml:"name"`
	R        []int  `yaml:"r"`
	F        []int  `yaml:"f"`
	M        []int  `yaml:"m"`
	Strategy string `yaml:"strategy"`
	Color    string `yaml:"color"`
}

type catalogueSpec struct {
	Segments []segmentSpec `yaml:"segments"`
}

func parseCatalogue(data []byte) (*Catalogue, error) {
	var spec catalogueSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse segment catalogue: %w", err)
	}

	segments := make([]Segment, 0, len(spec.Segments))
	for _, s := range spec.Segments {
		rng, err := toRanges(s)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", s.Name, err)
		}
		segments = append(segments, Segment{
			Name:     s.Name,
			R:        rng[0],
			F:        rng[1],
			M:        rng[2],
			Strategy: s.Strategy,
			Color:    s.Color,
		})
	}
	return NewCatalogue(segments)
}

func toRanges(s segmentSpec) ([3]ScoreRange, error) {
	var out [3]ScoreRange
	for i, pair := range [][]int{s.R, s.F, s.M} {
		if len(pair) != 2 {
			return out, fmt.Errorf("range must be [min, max], got %v", pair)
		}
		if pair[0] > pair[1] {
			return out, fmt.Errorf("range min %d exceeds max %d", pair[0], pair[1])
		}
		out[i] = ScoreRange{Min: pair[0], Max: pair[1]}
	}
	return out, nil
}

var defaultCatalogue = func() *Catalogue {
	c, err := parseCatalogue(segmentsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded segment catalogue is invalid: %v", err))
	}
	return c
}()
