package viewer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const tau = 2 * math32.Pi

// spinGain scales the phase increments into per-frame rotation angles.
const spinGain = tau * 20

// Spin is the tumbling animation of the demo box. A phase advances at Speed
// radians per second; each step rotates the box about world Z by the change
// of cos(phase) and then about world Y by the change of -sin(phase), both
// scaled by spinGain and the frame time. The motion is smooth and never
// settles into a single axis.
type Spin struct {
	Speed       float32
	Paused      bool
	phase       float32
	orientation mgl32.Quat
}

// NewSpin returns a spin at rest orientation advancing at speed rad/s.
func NewSpin(speed float32) *Spin {
	return &Spin{Speed: speed, orientation: mgl32.QuatIdent()}
}

// Advance steps the animation by dt seconds.
func (s *Spin) Advance(dt float32) {
	if s.Paused || dt <= 0 {
		return
	}
	ta := s.phase
	s.phase = math32.Mod(ta+s.Speed*dt, tau)
	tb := s.phase

	i1 := math32.Cos(tb) - math32.Cos(ta)
	i2 := math32.Sin(ta) - math32.Sin(tb)

	rz := mgl32.QuatRotate(spinGain*i1*dt, mgl32.Vec3{0, 0, 1})
	ry := mgl32.QuatRotate(spinGain*i2*dt, mgl32.Vec3{0, 1, 0})
	s.orientation = ry.Mul(rz.Mul(s.orientation)).Normalize()
}

// Phase returns the current phase in [0, 2π).
func (s *Spin) Phase() float32 { return s.phase }

// Orientation returns the current rotation.
func (s *Spin) Orientation() mgl32.Quat { return s.orientation }

// Matrix returns the model matrix of the current rotation.
func (s *Spin) Matrix() mgl32.Mat4 { return s.orientation.Mat4() }

// Reset returns the box to its rest orientation.
func (s *Spin) Reset() {
	s.phase = 0
	s.orientation = mgl32.QuatIdent()
}
