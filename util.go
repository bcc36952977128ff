package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"

	"github.com/google/uuid"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateUUID returns a random v4 UUID string, used for arena IDs
func GenerateUUID() string {
	return uuid.NewString()
}

// ValidUUID reports whether s parses as a UUID
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// turnToward rotates from toward to by at most maxTurn radians
func turnToward(from, to, maxTurn float64) float64 {
	diff := NormalizeAngle(to - from)
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	return NormalizeAngle(from + diff)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
