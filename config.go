package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// SeekerParams are the tuned homing constants
type SeekerParams struct {
	SeekDistance  float64 `json:"seek_distance"`  // how far ahead the search box reaches, in ticks of motion
	SeekFactor    float64 `json:"seek_factor"`    // weight of the target vector when blending
	SeekAngle     float64 `json:"seek_angle"`     // half-width of the search cone, radians
	SeekThreshold float64 `json:"seek_threshold"` // minimum cosine between heading and target
	Lift          float64 `json:"lift"`           // upward correction per steered tick
	MinSpeedSq    float64 `json:"min_speed_sq"`   // below this squared speed the seeker is spent
	TrailMarkers  int     `json:"trail_markers"`
	TrailLift     float64 `json:"trail_lift"`
}

// BallisticParams drive unguided flight
type BallisticParams struct {
	Gravity        float64 `json:"gravity"`
	Drag           float64 `json:"drag"`
	HitPadding     float64 `json:"hit_padding"`
	Lifetime       int     `json:"lifetime"`        // ticks before an airborne seeker is removed
	GroundLifetime int     `json:"ground_lifetime"` // ticks an embedded seeker lingers
}

// Tuning is the full set of per-arena parameters
type Tuning struct {
	Seeker      SeekerParams    `json:"seeker"`
	Ballistics  BallisticParams `json:"ballistics"`
	MaxSeekers  int             `json:"max_seekers"`
	MaxEntities int             `json:"max_entities"`
}

// DefaultSeekerParams returns the stock homing constants
func DefaultSeekerParams() SeekerParams {
	return SeekerParams{
		SeekDistance:  5.0,
		SeekFactor:    0.8,
		SeekAngle:     math.Pi / 6,
		SeekThreshold: 0.5,
		Lift:          0.045,
		MinSpeedSq:    1.0,
		TrailMarkers:  4,
		TrailLift:     0.2,
	}
}

// DefaultTuning returns the stock arena parameters
func DefaultTuning() Tuning {
	return Tuning{
		Seeker: DefaultSeekerParams(),
		Ballistics: BallisticParams{
			Gravity:        0.05,
			Drag:           0.99,
			HitPadding:     0.3,
			Lifetime:       1200,
			GroundLifetime: 100,
		},
		MaxSeekers:  256,
		MaxEntities: 128,
	}
}

// LoadTuning reads a JSON tuning file over the defaults.
// An empty path returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values the simulation cannot run with
func (t Tuning) Validate() error {
	s := t.Seeker
	if s.SeekDistance <= 0 {
		return fmt.Errorf("seek_distance must be positive, got %v", s.SeekDistance)
	}
	if s.SeekFactor <= 0 {
		return fmt.Errorf("seek_factor must be positive, got %v", s.SeekFactor)
	}
	if s.SeekAngle < 0 || s.SeekAngle > math.Pi {
		return fmt.Errorf("seek_angle must be within [0, pi], got %v", s.SeekAngle)
	}
	if s.SeekThreshold < -1 || s.SeekThreshold > 1 {
		return fmt.Errorf("seek_threshold must be within [-1, 1], got %v", s.SeekThreshold)
	}
	if s.MinSpeedSq < 0 {
		return fmt.Errorf("min_speed_sq must not be negative, got %v", s.MinSpeedSq)
	}
	if s.TrailMarkers < 0 {
		return fmt.Errorf("trail_markers must not be negative, got %d", s.TrailMarkers)
	}
	b := t.Ballistics
	if b.Drag <= 0 || b.Drag > 1 {
		return fmt.Errorf("drag must be within (0, 1], got %v", b.Drag)
	}
	if b.Lifetime <= 0 || b.GroundLifetime < 0 {
		return fmt.Errorf("lifetimes must be positive, got %d/%d", b.Lifetime, b.GroundLifetime)
	}
	if t.MaxSeekers <= 0 || t.MaxEntities <= 0 {
		return fmt.Errorf("arena limits must be positive, got seekers=%d entities=%d", t.MaxSeekers, t.MaxEntities)
	}
	return nil
}
