package main

import "github.com/go-gl/mathgl/mgl64"

// Steer bends the seeker's velocity toward the target's eyes.
//
// The course and the scaled target vector are weighted equally and the
// result is brought back to the current speed before the lift is added,
// so |vel - lift| == |s.Vel|. keep is false when the target sits too far
// off the heading to correct smoothly; velocity is then returned
// unchanged. Zero-length vectors leave velocity alone and keep the target.
func Steer(s *Seeker, target *Entity, p SeekerParams) (vel mgl64.Vec3, keep bool) {
	targetVec := vectorToTarget(s, target).Mul(p.SeekFactor)
	courseVec := s.Vel

	sim, ok := cosineSimilarity(courseVec, targetVec)
	if !ok {
		return s.Vel, true
	}
	if sim <= p.SeekThreshold {
		return s.Vel, false
	}

	dir := normalizeOrZero(courseVec.Add(targetVec))
	if dir.LenSqr() == 0 {
		return s.Vel, true
	}
	return dir.Mul(courseVec.Len()).Add(Up.Mul(p.Lift)), true
}
