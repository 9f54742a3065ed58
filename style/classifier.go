// Package style classifies a track into one of a small set of musical
// styles from its aggregated features, and carries the visual tuning
// each style implies.
package style

import (
	"math"

	"github.com/RyanBlaney/sonido-viz/algorithms/common"
	"github.com/RyanBlaney/sonido-viz/feature"
	"github.com/RyanBlaney/sonido-viz/logging"
)

// Style names in classification order. Ties go to the earlier style.
const (
	StylePiano = "piano"
	StyleRock  = "rock"
	StyleDJ    = "dj"
	StyleLight = "light"
)

// Fraction of the (normalized) spectrum treated as the low and high
// frequency bands.
const bandFraction = 0.2

// VisualConfig is the particle tuning a style implies
type VisualConfig struct {
	ParticleCount   int     `json:"particle_count" yaml:"particle_count"`
	MinSize         int     `json:"min_size" yaml:"min_size"`
	MaxSize         int     `json:"max_size" yaml:"max_size"`
	MinJumpHeight   int     `json:"min_jump_height" yaml:"min_jump_height"`
	MaxJumpHeight   int     `json:"max_jump_height" yaml:"max_jump_height"`
	MinJumpSpeed    float64 `json:"min_jump_speed" yaml:"min_jump_speed"`
	MaxJumpSpeed    float64 `json:"max_jump_speed" yaml:"max_jump_speed"`
	TrailLength     int     `json:"trail_length" yaml:"trail_length"`
	ColorPalette    string  `json:"color_palette" yaml:"color_palette"`
	MovementPattern string  `json:"movement_pattern" yaml:"movement_pattern"`
	BeatResponse    float64 `json:"beat_response" yaml:"beat_response"`
}

// Profile describes one recognizable style
type Profile struct {
	Name        string
	Description string
	Visual      VisualConfig
	Score       func(Aggregates) float64
}

// Aggregates are the whole-track summary features classification runs
// on. Spectral values are computed over a frequency axis normalized to
// [0,1], so they are resolution-independent.
type Aggregates struct {
	Amplitude         float64 `json:"amplitude"`
	Loudness          float64 `json:"loudness"`
	Tempo             float64 `json:"tempo"`
	SpectralCentroid  float64 `json:"spectral_centroid"`
	SpectralBandwidth float64 `json:"spectral_bandwidth"`
	LowFreqEnergy     float64 `json:"low_freq_energy"`
	HighFreqEnergy    float64 `json:"high_freq_energy"`
}

// Classifier scores a track's aggregates against its registered
// profiles and picks the best match.
type Classifier struct {
	profiles []Profile
	logger   logging.Logger
}

// NewClassifier creates a classifier with the four standard profiles
func NewClassifier() *Classifier {
	return &Classifier{
		profiles: standardProfiles(),
		logger: logging.WithFields(logging.Fields{
			"component": "style_classifier",
		}),
	}
}

// Profiles returns the registered profiles in classification order
func (c *Classifier) Profiles() []Profile {
	return c.profiles
}

// Profile returns the profile registered under name, if any
func (c *Classifier) Profile(name string) (Profile, bool) {
	for _, p := range c.profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Classify aggregates the bundle and returns the best-matching style
// name. A bundle with no feature categories yields the empty string.
func (c *Classifier) Classify(bundle *feature.FeatureBundle) string {
	if bundle == nil {
		return ""
	}
	if bundle.Temporal == nil && bundle.Frequency == nil && bundle.Rhythm == nil && bundle.Timbre == nil {
		return ""
	}
	return c.ClassifyAggregates(Aggregate(bundle))
}

// ClassifyAggregates scores each profile and returns the name of the
// highest scorer. Ties break toward the earlier profile.
func (c *Classifier) ClassifyAggregates(agg Aggregates) string {
	best := ""
	bestScore := math.Inf(-1)
	for _, p := range c.profiles {
		if score := p.Score(agg); score > bestScore {
			best = p.Name
			bestScore = score
		}
	}

	c.logger.Debug("Classified style", logging.Fields{
		"style": best,
		"tempo": agg.Tempo,
	})
	return best
}

// Aggregate summarizes a bundle into the whole-track features the
// classifier scores. Missing categories contribute zeros.
func Aggregate(bundle *feature.FeatureBundle) Aggregates {
	var agg Aggregates
	if bundle == nil {
		return agg
	}

	if t := bundle.Temporal; t != nil {
		agg.Amplitude = common.Mean(t.Amplitude)
		agg.Loudness = common.Mean(t.Loudness)
	}
	if r := bundle.Rhythm; r != nil {
		agg.Tempo = r.Tempo
	}

	f := bundle.Frequency
	if f == nil || len(f.Spectrum) == 0 {
		return agg
	}

	// Time-average each bin, then treat the bin axis as [0,1]
	numBins := len(f.Spectrum)
	spectrumMean := make([]float64, numBins)
	for i, row := range f.Spectrum {
		spectrumMean[i] = common.Mean(row)
	}

	total := common.Sum(spectrumMean)
	if total > 0 {
		step := 1.0 / float64(numBins-1)
		centroid := 0.0
		for i, v := range spectrumMean {
			centroid += float64(i) * step * v
		}
		centroid /= total
		agg.SpectralCentroid = centroid

		spread := 0.0
		for i, v := range spectrumMean {
			d := float64(i)*step - centroid
			spread += v * d * d
		}
		agg.SpectralBandwidth = math.Sqrt(spread / total)
	}

	lowBins := int(float64(numBins) * bandFraction)
	if lowBins > 0 {
		agg.LowFreqEnergy = common.Mean(spectrumMean[:lowBins])
	}
	highStart := int(float64(numBins) * (1 - bandFraction))
	if highStart < numBins {
		agg.HighFreqEnergy = common.Mean(spectrumMean[highStart:])
	}

	return agg
}

// standardProfiles returns the built-in styles. Scores are banded
// threshold sums; the weights favor each style's most distinctive
// trait (centroid for piano, high-band energy for rock, low-band
// energy for dj, quietness for light).
func standardProfiles() []Profile {
	return []Profile{
		{
			Name:        StylePiano,
			Description: "elegant, flowing, strongly melodic",
			Visual: VisualConfig{
				ParticleCount:   200,
				MinSize:         4,
				MaxSize:         8,
				MinJumpHeight:   20,
				MaxJumpHeight:   100,
				MinJumpSpeed:    0.08,
				MaxJumpSpeed:    0.15,
				TrailLength:     12,
				ColorPalette:    "soft_pastel",
				MovementPattern: "fluid_curve",
				BeatResponse:    1.2,
			},
			Score: func(a Aggregates) float64 {
				score := 0.0
				if a.Amplitude > 0.2 && a.Amplitude < 0.6 {
					score += 2
				}
				if a.Tempo > 60 && a.Tempo < 120 {
					score += 2
				}
				if a.SpectralCentroid > 0.4 {
					score += 3
				}
				if a.SpectralBandwidth < 0.2 {
					score += 2
				}
				return score
			},
		},
		{
			Name:        StyleRock,
			Description: "loud, driving, rhythm-forward",
			Visual: VisualConfig{
				ParticleCount:   400,
				MinSize:         3,
				MaxSize:         10,
				MinJumpHeight:   80,
				MaxJumpHeight:   250,
				MinJumpSpeed:    0.15,
				MaxJumpSpeed:    0.3,
				TrailLength:     6,
				ColorPalette:    "vibrant_contrast",
				MovementPattern: "intense_jump",
				BeatResponse:    1.8,
			},
			Score: func(a Aggregates) float64 {
				score := 0.0
				if a.Amplitude > 0.5 {
					score += 3
				}
				if a.Tempo > 100 && a.Tempo < 160 {
					score += 2
				}
				if a.HighFreqEnergy > 0.3 {
					score += 3
				}
				if a.SpectralBandwidth > 0.25 {
					score += 2
				}
				return score
			},
		},
		{
			Name:        StyleDJ,
			Description: "electronic, beat-locked, bass-heavy",
			Visual: VisualConfig{
				ParticleCount:   350,
				MinSize:         2,
				MaxSize:         8,
				MinJumpHeight:   20,
				MaxJumpHeight:   120,
				MinJumpSpeed:    0.08,
				MaxJumpSpeed:    0.18,
				TrailLength:     5,
				ColorPalette:    "neon_glow",
				MovementPattern: "geometric_sync",
				BeatResponse:    1.6,
			},
			Score: func(a Aggregates) float64 {
				score := 0.0
				if a.Amplitude > 0.4 {
					score += 2
				}
				if a.Tempo > 120 && a.Tempo < 180 {
					score += 3
				}
				if a.LowFreqEnergy > 0.4 {
					score += 3
				}
				if a.SpectralCentroid > 0.3 && a.SpectralCentroid < 0.6 {
					score += 2
				}
				return score
			},
		},
		{
			Name:        StyleLight,
			Description: "soft, relaxed, low intensity",
			Visual: VisualConfig{
				ParticleCount:   150,
				MinSize:         5,
				MaxSize:         10,
				MinJumpHeight:   10,
				MaxJumpHeight:   60,
				MinJumpSpeed:    0.05,
				MaxJumpSpeed:    0.1,
				TrailLength:     15,
				ColorPalette:    "soft_blue",
				MovementPattern: "slow_float",
				BeatResponse:    1.0,
			},
			Score: func(a Aggregates) float64 {
				score := 0.0
				if a.Amplitude < 0.3 {
					score += 3
				}
				if a.Tempo < 100 {
					score += 2
				}
				if a.HighFreqEnergy < 0.2 {
					score += 2
				}
				if a.SpectralBandwidth < 0.2 {
					score += 2
				}
				return score
			},
		},
	}
}
