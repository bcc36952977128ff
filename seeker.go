package main

// SeekerTick reports what the targeting core did to one seeker this tick
type SeekerTick struct {
	Active   bool        // the seeker was in flight and the core ran
	Dropped  EntityID    // held target that stopped resolving, or NoEntity
	Acquired EntityID    // newly committed target, or NoEntity
	Pass     AcquirePass // stage that produced Acquired
	Released EntityID    // target given up by steering, or NoEntity
	Steered  bool        // velocity was corrected
}

// TickSeeker runs targeting and steering for one seeker. A held target
// is steered toward; otherwise a new one is acquired and steered toward
// in the same tick. A target released by steering is only replaced on a
// later tick.
func TickSeeker(s *Seeker, w WorldQuery, acq *Acquirer) SeekerTick {
	res := SeekerTick{Dropped: NoEntity, Acquired: NoEntity, Released: NoEntity}
	p := acq.Params
	if !s.InFlight(p) {
		s.Trail = s.Trail[:0]
		return res
	}
	res.Active = true
	s.emitTrail(p)

	target, ok := w.Resolve(s.TargetID)
	if !ok {
		if s.TargetID.Valid() {
			res.Dropped = s.TargetID
		}
		s.TargetID = NoEntity
		id, pass := acq.Acquire(s, w)
		if pass == PassNone {
			return res
		}
		res.Acquired = id
		res.Pass = pass
		target, ok = w.Resolve(id)
		if !ok {
			return res
		}
	}

	vel, keep := Steer(s, target, p)
	if !keep {
		res.Released = s.TargetID
		s.TargetID = NoEntity
		return res
	}
	res.Steered = vel != s.Vel
	s.Vel = vel
	return res
}
