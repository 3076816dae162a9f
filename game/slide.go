package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sweepmove/engine/util"
)

const (
	MaxClipPlanes = 5
	MaxBumps      = 4

	// a contact normal this close to an active plane is treated as the same plane
	samePlaneDot = 0.99
	// velocities with less than this going into a plane do not interact with it
	intoPlaneLimit = 0.1

	minSmoothedStep = 2
	maxSmoothedStep = 16
)

// slideMove moves the player for the tick, sliding along everything it touches.
// Returns true if the move was cut short by a contact.
func (p *Player) slideMove(gravity bool) bool {
	overclip := p.settings.Overclip
	velocity := p.body.Velocity

	var endVelocity mgl32.Vec3
	if gravity {
		endVelocity = velocity
		endVelocity[1] -= p.Gravity * p.deltaTime
		velocity[1] = (velocity[1] + endVelocity[1]) * 0.5
		if p.groundPlane {
			velocity = util.ClipVelocity(velocity, p.groundNormal, overclip)
		}
	}

	timeLeft := p.deltaTime

	var planes [MaxClipPlanes]mgl32.Vec3
	numplanes := 0

	// never turn against the ground plane
	if p.groundPlane {
		planes[numplanes] = p.groundNormal
		numplanes++
	}

	// never turn against the original velocity
	planes[numplanes] = util.SafeNormalize(velocity)
	numplanes++

	bumpcount := 0
	for ; bumpcount < MaxBumps; bumpcount++ {
		position := p.Position()
		end := position.Add(velocity.Mul(timeLeft))
		trace := p.trace(position, end)

		if trace.AllSolid {
			p.body.Velocity = mgl32.Vec3{}
			return true
		}

		if trace.Fraction > 0 {
			p.setPosition(trace.EndPos)
		}

		if trace.Fraction == 1 {
			break
		}

		timeLeft -= timeLeft * trace.Fraction

		if numplanes >= MaxClipPlanes {
			p.body.Velocity = mgl32.Vec3{}
			return true
		}

		// the same plane again, push out along it to get past epsilon issues
		if isActivePlane(trace.Normal, planes[:numplanes]) {
			velocity = velocity.Add(trace.Normal)
			continue
		}

		planes[numplanes] = trace.Normal
		numplanes++

		var blocked bool
		velocity, endVelocity, blocked = resolveClipPlanes(velocity, endVelocity, planes[:numplanes], gravity, overclip)
		if blocked {
			p.body.Velocity = mgl32.Vec3{}
			return true
		}
	}

	if gravity {
		velocity = endVelocity
	}
	p.body.Velocity = velocity

	return bumpcount != 0
}

func isActivePlane(normal mgl32.Vec3, planes []mgl32.Vec3) bool {
	for _, plane := range planes {
		if normal.Dot(plane) > samePlaneDot {
			return true
		}
	}
	return false
}

// resolveClipPlanes changes velocity so it runs parallel to all planes it goes into.
// endVelocity (the velocity after gravity) gets the same treatment when gravity is set.
// blocked is true when the player is wedged in by three planes and must stop.
func resolveClipPlanes(velocity, endVelocity mgl32.Vec3, planes []mgl32.Vec3, gravity bool, overclip float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	for i := range planes {
		if velocity.Dot(planes[i]) >= intoPlaneLimit {
			continue
		}

		clipVelocity := util.ClipVelocity(velocity, planes[i], overclip)
		endClipVelocity := endVelocity
		if gravity {
			endClipVelocity = util.ClipVelocity(endVelocity, planes[i], overclip)
		}

		// see if there is a second plane that the new move enters
		for j := range planes {
			if j == i {
				continue
			}
			if clipVelocity.Dot(planes[j]) >= intoPlaneLimit {
				continue
			}

			clipVelocity = util.ClipVelocity(clipVelocity, planes[j], overclip)
			if gravity {
				endClipVelocity = util.ClipVelocity(endClipVelocity, planes[j], overclip)
			}

			// still clear of the first plane
			if clipVelocity.Dot(planes[i]) >= 0 {
				continue
			}

			// slide the original velocity along the crease
			dir := util.SafeNormalize(planes[i].Cross(planes[j]))
			clipVelocity = dir.Mul(dir.Dot(velocity))
			if gravity {
				endClipVelocity = dir.Mul(dir.Dot(endVelocity))
			}

			// a third plane as well, stop dead
			for k := range planes {
				if k == i || k == j {
					continue
				}
				if clipVelocity.Dot(planes[k]) >= intoPlaneLimit {
					continue
				}
				return mgl32.Vec3{}, mgl32.Vec3{}, true
			}
		}

		return clipVelocity, endClipVelocity, false
	}
	return velocity, endVelocity, false
}

// stepSlideMove is slideMove that also tries to step up onto ledges up to StepSize high.
func (p *Player) stepSlideMove(gravity bool) {
	startPosition := p.Position()
	startVelocity := p.body.Velocity

	// got where we wanted on the first try
	if !p.slideMove(gravity) {
		return
	}

	stepSize := p.settings.StepSize
	down := startPosition
	down[1] -= stepSize
	trace := p.trace(startPosition, down)

	// never step up when you have up velocity
	if p.body.Velocity.Y() > 0 && (trace.Fraction == 1 || trace.Normal.Dot(util.UpVector) < p.settings.MinWalkNormal) {
		return
	}

	up := startPosition
	up[1] += stepSize

	// test the player position if they were a step height higher
	trace = p.trace(startPosition, up)
	if trace.AllSolid {
		return
	}

	rise := trace.EndPos.Y() - startPosition.Y()
	p.setPosition(trace.EndPos)
	p.body.Velocity = startVelocity

	p.slideMove(gravity)

	// push down the final amount
	position := p.Position()
	down = position
	down[1] -= rise
	trace = p.trace(position, down)
	if !trace.AllSolid {
		p.setPosition(trace.EndPos)
	}
	if trace.Fraction < 1 {
		p.body.Velocity = util.ClipVelocity(p.body.Velocity, trace.Normal, p.settings.Overclip)
	}

	delta := p.Position().Y() - startPosition.Y()
	if delta > minSmoothedStep {
		p.stepOffset = util.Min(delta, maxSmoothedStep)
	}
}
