package pattern

import "fmt"

// Library is the built-in catalogue of audio-visual patterns, keyed
// "{style}_{effect}". It registers the standard categories and pattern
// set into a matcher at construction.
type Library struct {
	matcher *Matcher
}

// StandardCategories returns the built-in audio categories with their
// calibrated sensitivities.
func StandardCategories() []Category {
	return []Category{
		{
			Name:                 "piano",
			Description:          "elegant, flowing, strongly melodic",
			TemporalSensitivity:  0.8,
			FrequencySensitivity: 0.7,
			RhythmSensitivity:    0.6,
			DynamicRange:         0.7,
		},
		{
			Name:                 "rock",
			Description:          "loud, driving, rhythm-forward",
			TemporalSensitivity:  1.2,
			FrequencySensitivity: 1.0,
			RhythmSensitivity:    1.5,
			DynamicRange:         1.3,
		},
		{
			Name:                 "dj",
			Description:          "electronic, beat-locked, bass-heavy",
			TemporalSensitivity:  1.0,
			FrequencySensitivity: 1.1,
			RhythmSensitivity:    1.8,
			DynamicRange:         1.0,
		},
		{
			Name:                 "light",
			Description:          "soft, relaxed, low intensity",
			TemporalSensitivity:  0.6,
			FrequencySensitivity: 0.5,
			RhythmSensitivity:    0.5,
			DynamicRange:         0.5,
		},
	}
}

// NewLibrary populates the matcher with the standard categories and the
// default pattern catalogue.
func NewLibrary(matcher *Matcher) *Library {
	lib := &Library{matcher: matcher}
	for _, c := range StandardCategories() {
		matcher.RegisterCategory(c)
	}
	lib.registerDefaults()
	return lib
}

// Matcher returns the underlying matcher
func (l *Library) Matcher() *Matcher {
	return l.matcher
}

// PatternFor returns the catalogue key for a style and effect type
func (l *Library) PatternFor(style, effect string) string {
	return fmt.Sprintf("%s_%s", style, effect)
}

// PatternNames returns all registered pattern names
func (l *Library) PatternNames() []string {
	return l.matcher.PatternNames()
}

// AddCustomPattern registers a user-defined pattern
func (l *Library) AddCustomPattern(name, audioCategory, visualEffect string, custom Params) {
	l.matcher.CreatePattern(name, audioCategory, visualEffect, custom)
}

func (l *Library) registerDefaults() {
	m := l.matcher

	m.CreatePattern("default_waveform", "default", "waveform", Params{
		"color":      "#FFFFFF",
		"line_width": 2,
		"smoothness": 0.8,
	})
	m.CreatePattern("default_spectrum", "default", "spectrum", Params{
		"color":     "#FFFFFF",
		"bar_width": 6,
		"intensity": 1.0,
	})
	m.CreatePattern("default_equalizer", "default", "equalizer", Params{
		"color":      "#FFFFFF",
		"bar_width":  6,
		"smoothness": 0.8,
	})
	m.CreatePattern("default_spectrum_cube", "default", "spectrum_cube", Params{
		"color":          "#FFFFFF",
		"cube_size":      15,
		"rotation_speed": 0.5,
	})
	m.CreatePattern("default_3d_model", "default", "3d_model", Params{
		"color":          "#FFFFFF",
		"model_scale":    1.0,
		"rotation_speed": 0.3,
	})
	m.CreatePattern("default_particles", "default", "particles", Params{
		"particle_count":   300,
		"min_size":         3,
		"max_size":         8,
		"color_palette":    "default",
		"movement_pattern": "default",
	})
	m.CreatePattern("default_beat_particles", "default", "beat_particles", Params{
		"particle_count":   250,
		"min_size":         3,
		"max_size":         8,
		"color_palette":    "default",
		"beat_sensitivity": 0.8,
	})
	m.CreatePattern("default_jumping_particles", "default", "jumping_particles", Params{
		"particle_count":  250,
		"min_size":        3,
		"max_size":        8,
		"min_jump_height": 15,
		"max_jump_height": 80,
		"min_jump_speed":  0.06,
		"max_jump_speed":  0.15,
		"trail_length":    4,
		"color_palette":   "default",
	})
	m.CreatePattern("default_style_aware_particles", "default", "style_aware_particles", Params{
		"particle_count":    250,
		"min_size":          3,
		"max_size":          8,
		"color_palette":     "default",
		"style_sensitivity": 0.8,
	})

	m.CreatePattern("piano_waveform", "piano", "waveform", Params{
		"color":      "#FFD700",
		"line_width": 2,
		"smoothness": 0.8,
	})
	m.CreatePattern("piano_particles", "piano", "particles", Params{
		"particle_count":   300,
		"min_size":         2,
		"max_size":         6,
		"color_palette":    "pastel",
		"movement_pattern": "smooth_flow",
	})
	m.CreatePattern("rock_spectrum", "rock", "spectrum", Params{
		"color":     "#FF4500",
		"bar_width": 8,
		"intensity": 1.5,
	})
	m.CreatePattern("rock_particles", "rock", "particles", Params{
		"particle_count":   400,
		"min_size":         3,
		"max_size":         10,
		"color_palette":    "vibrant",
		"movement_pattern": "intense_jump",
	})
	m.CreatePattern("dj_spectrum", "dj", "spectrum", Params{
		"color":     "#00FFFF",
		"bar_width": 6,
		"intensity": 1.8,
		"neon_glow": true,
	})
	m.CreatePattern("dj_particles", "dj", "particles", Params{
		"particle_count":   350,
		"min_size":         2,
		"max_size":         8,
		"min_jump_height":  20,
		"max_jump_height":  120,
		"min_jump_speed":   0.08,
		"max_jump_speed":   0.18,
		"trail_length":     5,
		"color_palette":    "neon_glow",
		"movement_pattern": "geometric_sync",
	})
	m.CreatePattern("light_waveform", "light", "waveform", Params{
		"color":      "#87CEEB",
		"line_width": 2,
		"smoothness": 0.9,
	})
	m.CreatePattern("light_spectrum", "light", "spectrum", Params{
		"color":     "#87CEEB",
		"bar_width": 4,
		"intensity": 0.7,
	})
	m.CreatePattern("light_particles", "light", "particles", Params{
		"particle_count":   200,
		"min_size":         2,
		"max_size":         5,
		"color_palette":    "soft_blue",
		"movement_pattern": "gentle_float",
	})

	m.CreatePattern("piano_equalizer", "piano", "equalizer", Params{
		"color":      "#FFD700",
		"bar_width":  6,
		"smoothness": 0.9,
	})
	m.CreatePattern("rock_equalizer", "rock", "equalizer", Params{
		"color":      "#FF4500",
		"bar_width":  10,
		"smoothness": 0.5,
	})
	m.CreatePattern("dj_equalizer", "dj", "equalizer", Params{
		"color":      "#00FFFF",
		"bar_width":  8,
		"smoothness": 0.7,
		"neon_glow":  true,
	})
	m.CreatePattern("light_equalizer", "light", "equalizer", Params{
		"color":      "#87CEEB",
		"bar_width":  4,
		"smoothness": 0.95,
	})

	m.CreatePattern("piano_spectrum_cube", "piano", "spectrum_cube", Params{
		"color":          "#FFD700",
		"cube_size":      15,
		"rotation_speed": 0.5,
	})
	m.CreatePattern("rock_spectrum_cube", "rock", "spectrum_cube", Params{
		"color":          "#FF4500",
		"cube_size":      20,
		"rotation_speed": 1.0,
	})
	m.CreatePattern("dj_spectrum_cube", "dj", "spectrum_cube", Params{
		"color":          "#00FFFF",
		"cube_size":      18,
		"rotation_speed": 0.8,
		"neon_glow":      true,
	})
	m.CreatePattern("light_spectrum_cube", "light", "spectrum_cube", Params{
		"color":          "#87CEEB",
		"cube_size":      12,
		"rotation_speed": 0.3,
	})

	m.CreatePattern("piano_3d_model", "piano", "3d_model", Params{
		"color":          "#FFD700",
		"model_scale":    1.0,
		"rotation_speed": 0.3,
	})
	m.CreatePattern("rock_3d_model", "rock", "3d_model", Params{
		"color":          "#FF4500",
		"model_scale":    1.2,
		"rotation_speed": 0.8,
	})
	m.CreatePattern("dj_3d_model", "dj", "3d_model", Params{
		"color":          "#00FFFF",
		"model_scale":    1.1,
		"rotation_speed": 0.6,
		"neon_glow":      true,
	})
	m.CreatePattern("light_3d_model", "light", "3d_model", Params{
		"color":          "#87CEEB",
		"model_scale":    0.9,
		"rotation_speed": 0.2,
	})

	m.CreatePattern("piano_beat_particles", "piano", "beat_particles", Params{
		"particle_count":   250,
		"min_size":         3,
		"max_size":         8,
		"color_palette":    "pastel",
		"beat_sensitivity": 0.6,
	})
	m.CreatePattern("rock_beat_particles", "rock", "beat_particles", Params{
		"particle_count":   350,
		"min_size":         4,
		"max_size":         12,
		"color_palette":    "vibrant",
		"beat_sensitivity": 1.2,
	})
	m.CreatePattern("dj_beat_particles", "dj", "beat_particles", Params{
		"particle_count":   300,
		"min_size":         3,
		"max_size":         10,
		"color_palette":    "neon_glow",
		"beat_sensitivity": 1.0,
		"neon_glow":        true,
	})
	m.CreatePattern("light_beat_particles", "light", "beat_particles", Params{
		"particle_count":   200,
		"min_size":         2,
		"max_size":         6,
		"color_palette":    "soft_blue",
		"beat_sensitivity": 0.5,
	})

	m.CreatePattern("piano_jumping_particles", "piano", "jumping_particles", Params{
		"particle_count":  250,
		"min_size":        3,
		"max_size":        8,
		"min_jump_height": 10,
		"max_jump_height": 60,
		"min_jump_speed":  0.05,
		"max_jump_speed":  0.12,
		"trail_length":    3,
		"color_palette":   "pastel",
	})
	m.CreatePattern("rock_jumping_particles", "rock", "jumping_particles", Params{
		"particle_count":  350,
		"min_size":        4,
		"max_size":        12,
		"min_jump_height": 30,
		"max_jump_height": 150,
		"min_jump_speed":  0.08,
		"max_jump_speed":  0.20,
		"trail_length":    7,
		"color_palette":   "vibrant",
	})
	m.CreatePattern("dj_jumping_particles", "dj", "jumping_particles", Params{
		"particle_count":  300,
		"min_size":        3,
		"max_size":        10,
		"min_jump_height": 20,
		"max_jump_height": 120,
		"min_jump_speed":  0.06,
		"max_jump_speed":  0.18,
		"trail_length":    5,
		"color_palette":   "neon_glow",
		"neon_glow":       true,
	})
	m.CreatePattern("light_jumping_particles", "light", "jumping_particles", Params{
		"particle_count":  200,
		"min_size":        2,
		"max_size":        6,
		"min_jump_height": 5,
		"max_jump_height": 40,
		"min_jump_speed":  0.03,
		"max_jump_speed":  0.10,
		"trail_length":    2,
		"color_palette":   "soft_blue",
	})

	m.CreatePattern("piano_style_aware_particles", "piano", "style_aware_particles", Params{
		"particle_count":    250,
		"min_size":          3,
		"max_size":          8,
		"color_palette":     "pastel",
		"style_sensitivity": 0.7,
	})
	m.CreatePattern("rock_style_aware_particles", "rock", "style_aware_particles", Params{
		"particle_count":    350,
		"min_size":          4,
		"max_size":          12,
		"color_palette":     "vibrant",
		"style_sensitivity": 1.3,
	})
	m.CreatePattern("dj_style_aware_particles", "dj", "style_aware_particles", Params{
		"particle_count":    300,
		"min_size":          3,
		"max_size":          10,
		"color_palette":     "neon_glow",
		"style_sensitivity": 1.1,
		"neon_glow":         true,
	})
	m.CreatePattern("light_style_aware_particles", "light", "style_aware_particles", Params{
		"particle_count":    200,
		"min_size":          2,
		"max_size":          6,
		"color_palette":     "soft_blue",
		"style_sensitivity": 0.6,
	})

	comprehensive := Params{
		"show_waveform":  true,
		"show_spectrum":  true,
		"show_particles": true,
		"show_3d":        false,
	}
	m.CreatePattern("default_comprehensive", "default", "comprehensive", comprehensive.Clone())
	for _, style := range []string{"piano", "rock", "dj", "light"} {
		m.CreatePattern(style+"_comprehensive", style, "comprehensive", comprehensive.Clone())
	}

	rainColors := map[string]string{
		"default": "#3498db",
		"piano":   "#FFD700",
		"rock":    "#FF4500",
		"dj":      "#00FFFF",
		"light":   "#87CEEB",
	}
	fireColors := map[string]string{
		"default": "#ff4500",
		"piano":   "#FFD700",
		"rock":    "#FF0000",
		"dj":      "#00FFFF",
		"light":   "#FFA500",
	}
	snowColors := map[string]string{
		"default": "#FFFFFF",
		"piano":   "#FFD700",
		"rock":    "#FF6347",
		"dj":      "#87CEEB",
		"light":   "#E0FFFF",
	}

	// Ambient effects exist for every style; the default style uses
	// calmer densities and speeds.
	for _, style := range []string{"default", "piano", "rock", "dj", "light"} {
		isDefault := style == "default"

		rain := Params{
			"rain_count":  150,
			"rain_speed":  6.0,
			"rain_length": 12.0,
			"rain_color":  rainColors[style],
		}
		if isDefault {
			rain["rain_count"] = 100
			rain["rain_speed"] = 5.0
			rain["rain_length"] = 10.0
		}
		m.CreatePattern(style+"_rain", style, "rain", rain)

		fire := Params{
			"particle_count": 80,
			"spawn_rate":     0.15,
			"base_size":      6.0,
			"base_speed":     3.0,
			"fire_color":     fireColors[style],
		}
		if isDefault {
			fire["particle_count"] = 50
			fire["spawn_rate"] = 0.1
			fire["base_size"] = 5.0
			fire["base_speed"] = 2.0
		}
		m.CreatePattern(style+"_fire", style, "fire", fire)

		snow := Params{
			"snow_count": 150,
			"snow_speed": 2.5,
			"snow_size":  4.0,
			"snow_drift": 0.8,
			"snow_color": snowColors[style],
		}
		if isDefault {
			snow["snow_count"] = 100
			snow["snow_speed"] = 2.0
			snow["snow_size"] = 3.0
			snow["snow_drift"] = 0.5
		}
		m.CreatePattern(style+"_snow", style, "snow", snow)
	}
}
