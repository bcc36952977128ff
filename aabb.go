package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoxAt returns a zero-size box at p
func BoxAt(p mgl64.Vec3) Box {
	return Box{Min: p, Max: p}
}

// NewBox builds a box from two arbitrary corners
func NewBox(a, b mgl64.Vec3) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// Move returns the box translated by d
func (b Box) Move(d mgl64.Vec3) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both b and o
func (b Box) Union(o Box) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1]), math.Min(b.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1]), math.Max(b.Max[2], o.Max[2])},
	}
}

// Inflate grows the box by the given amount on both sides of each axis
func (b Box) Inflate(x, y, z float64) Box {
	d := mgl64.Vec3{x, y, z}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Intersects reports whether the boxes overlap (touching counts)
func (b Box) Intersects(o Box) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// Contains reports whether p lies inside or on the box
func (b Box) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// ClipSegment tests the segment from->to against the box using the slab
// method. t is the fraction along the segment of the entry point.
func (b Box) ClipSegment(from, to mgl64.Vec3) (t float64, ok bool) {
	dir := to.Sub(from)
	tmin, tmax := 0.0, 1.0

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < vecEpsilon {
			// Parallel to this slab: must already be inside it
			if from[axis] < b.Min[axis] || from[axis] > b.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (b.Min[axis] - from[axis]) * inv
		t2 := (b.Max[axis] - from[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
