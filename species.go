package main

// EntityKind is the broad classification used by targeting
type EntityKind int

const (
	KindPlayer  EntityKind = 0
	KindMonster EntityKind = 1
	KindAnimal  EntityKind = 2
)

// SpeciesDef holds the body and behaviour stats for a spawnable species
type SpeciesDef struct {
	Kind      EntityKind
	MaxHP     int
	Width     float64
	Height    float64
	EyeHeight float64
	Speed     float64 // blocks per tick
	Neutral   bool    // never attacks unprovoked
	Tamable   bool
}

// Species is the spawn table, keyed by species name
var Species = map[string]SpeciesDef{
	"player": {
		Kind: KindPlayer, MaxHP: 20, Width: 0.6, Height: 1.8, EyeHeight: 1.62,
		Speed: 0,
	},
	// Monsters: hostile unless marked neutral
	"zombie": {
		Kind: KindMonster, MaxHP: 20, Width: 0.6, Height: 1.95, EyeHeight: 1.74,
		Speed: 0.115,
	},
	"skeleton": {
		Kind: KindMonster, MaxHP: 20, Width: 0.6, Height: 1.99, EyeHeight: 1.74,
		Speed: 0.125,
	},
	"spider": {
		Kind: KindMonster, MaxHP: 16, Width: 1.4, Height: 0.9, EyeHeight: 0.65,
		Speed: 0.15,
	},
	"piglin": {
		Kind: KindMonster, MaxHP: 20, Width: 0.6, Height: 1.95, EyeHeight: 1.79,
		Speed: 0.115, Neutral: true,
	},
	"enderman": {
		Kind: KindMonster, MaxHP: 40, Width: 0.6, Height: 2.9, EyeHeight: 2.55,
		Speed: 0.15, Neutral: true,
	},
	// Animals
	"wolf": {
		Kind: KindAnimal, MaxHP: 8, Width: 0.6, Height: 0.85, EyeHeight: 0.68,
		Speed: 0.15, Tamable: true,
	},
	"cat": {
		Kind: KindAnimal, MaxHP: 10, Width: 0.6, Height: 0.7, EyeHeight: 0.35,
		Speed: 0.15, Tamable: true,
	},
	"cow": {
		Kind: KindAnimal, MaxHP: 10, Width: 0.9, Height: 1.4, EyeHeight: 1.3,
		Speed: 0.1,
	},
}

// LookupSpecies returns the definition for a species name
func LookupSpecies(name string) (SpeciesDef, bool) {
	def, ok := Species[name]
	return def, ok
}
