package main

import "github.com/go-gl/mathgl/mgl64"

// vecEpsilon is the length below which a vector is treated as zero
const vecEpsilon = 1e-9

// Up is the world's vertical axis
var Up = mgl64.Vec3{0, 1, 0}

// yRot rotates v around the vertical axis by angle radians.
// A positive angle turns +Z toward +X.
func yRot(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(angle).Mul3x1(v)
}

// normalizeOrZero returns v at unit length, or the zero vector when v has no length
func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < vecEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// cosineSimilarity returns dot(a,b)/(|a||b|). ok is false when either
// vector has zero length and the angle is undefined.
func cosineSimilarity(a, b mgl64.Vec3) (sim float64, ok bool) {
	la := a.Len()
	lb := b.Len()
	if la < vecEpsilon || lb < vecEpsilon {
		return 0, false
	}
	return a.Dot(b) / (la * lb), true
}

// horizontal drops the vertical component
func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}
