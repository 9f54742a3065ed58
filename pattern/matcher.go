// Package pattern maps audio features to visual parameters. A pattern
// pairs an audio category (a set of sensitivities) with a visual effect
// (a parameter template); applying a pattern to a live feature slice
// yields the concrete parameters a renderer draws with.
package pattern

import (
	"maps"
	"sync"

	"github.com/RyanBlaney/sonido-viz/algorithms/common"
	"github.com/RyanBlaney/sonido-viz/feature"
	"github.com/RyanBlaney/sonido-viz/logging"
)

// offBeatResponse is the beat response emitted between beats
const offBeatResponse = 0.5

// Params is a visual parameter set. Keys vary by effect; values are
// strings (colors, palette names), numbers, or bools.
type Params map[string]any

// Clone returns an independent copy of the parameter set
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Category holds the per-style sensitivities that scale feature
// responses.
type Category struct {
	Name                 string  `json:"name" yaml:"name"`
	Description          string  `json:"description" yaml:"description"`
	TemporalSensitivity  float64 `json:"temporal_sensitivity" yaml:"temporal_sensitivity"`
	FrequencySensitivity float64 `json:"frequency_sensitivity" yaml:"frequency_sensitivity"`
	RhythmSensitivity    float64 `json:"rhythm_sensitivity" yaml:"rhythm_sensitivity"`
	DynamicRange         float64 `json:"dynamic_range" yaml:"dynamic_range"`
}

// Pattern pairs a category with an effect plus per-pattern overrides.
// Custom entries win over everything the mapping produces.
type Pattern struct {
	AudioCategory string `json:"audio_category"`
	VisualEffect  string `json:"visual_effect"`
	Custom        Params `json:"custom_config"`
}

// Matcher holds the registries and performs audio-to-visual mapping.
// Safe for concurrent use.
type Matcher struct {
	mu         sync.RWMutex
	categories map[string]Category
	effects    map[string]Params
	patterns   map[string]*Pattern
	logger     logging.Logger
}

// NewMatcher creates an empty matcher
func NewMatcher() *Matcher {
	return &Matcher{
		categories: make(map[string]Category),
		effects:    make(map[string]Params),
		patterns:   make(map[string]*Pattern),
		logger: logging.WithFields(logging.Fields{
			"component": "pattern_matcher",
		}),
	}
}

// RegisterCategory adds or replaces an audio category
func (m *Matcher) RegisterCategory(c Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.Name] = c
}

// RegisterEffect adds or replaces a visual effect template
func (m *Matcher) RegisterEffect(name string, config Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effects[name] = config
}

// RegisterPattern adds or replaces a named pattern
func (m *Matcher) RegisterPattern(name string, p *Pattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[name] = p
}

// CreatePattern builds a pattern from its parts and registers it
func (m *Matcher) CreatePattern(name, audioCategory, visualEffect string, custom Params) *Pattern {
	if custom == nil {
		custom = Params{}
	}
	p := &Pattern{
		AudioCategory: audioCategory,
		VisualEffect:  visualEffect,
		Custom:        custom,
	}
	m.RegisterPattern(name, p)
	return p
}

// GetPattern returns the pattern registered under name, if any
func (m *Matcher) GetPattern(name string) (*Pattern, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[name]
	return p, ok
}

// PatternNames returns the names of all registered patterns
func (m *Matcher) PatternNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.patterns))
	for name := range m.patterns {
		names = append(names, name)
	}
	return names
}

// ApplyPattern maps the slice through the named pattern. An unknown
// pattern yields an empty parameter set, never an error; renderers fall
// back to their own defaults.
func (m *Matcher) ApplyPattern(name string, slice *feature.FeatureSlice) Params {
	p, ok := m.GetPattern(name)
	if !ok {
		m.logger.Debug("Unknown pattern requested", logging.Fields{"pattern": name})
		return Params{}
	}

	params := m.Match(p.AudioCategory, slice, p.VisualEffect)
	maps.Copy(params, p.Custom)
	return params
}

// Match maps a feature slice to visual parameters for the given
// category and effect. The effect template is copied, then each
// sensitivity of a registered category contributes a response derived
// from the matching feature. An unregistered category contributes
// nothing beyond the template.
func (m *Matcher) Match(audioCategory string, slice *feature.FeatureSlice, visualEffect string) Params {
	m.mu.RLock()
	category, hasCategory := m.categories[audioCategory]
	effectConfig := m.effects[visualEffect]
	m.mu.RUnlock()

	params := effectConfig.Clone()
	if params == nil {
		params = Params{}
	}
	if !hasCategory {
		return params
	}

	params["temporal_sensitivity"] = category.TemporalSensitivity
	params["frequency_sensitivity"] = category.FrequencySensitivity
	params["rhythm_sensitivity"] = category.RhythmSensitivity
	params["dynamic_range"] = category.DynamicRange

	if slice == nil {
		return params
	}

	if slice.Temporal != nil && len(slice.Temporal.Amplitude) > 0 {
		params["amplitude_response"] = common.Mean(slice.Temporal.Amplitude) * category.TemporalSensitivity
	}
	if slice.Frequency != nil && len(slice.Frequency.Spectrum) > 0 {
		params["spectrum_response"] = common.MeanAbs(slice.Frequency.Spectrum) * category.FrequencySensitivity
	}
	if slice.Rhythm != nil {
		if slice.Rhythm.IsBeat {
			params["beat_response"] = category.RhythmSensitivity
		} else {
			params["beat_response"] = offBeatResponse
		}
	}

	return params
}
