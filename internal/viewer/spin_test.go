package viewer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSpinPhaseWraps(t *testing.T) {
	s := NewSpin(0.5)
	for i := 0; i < 2000; i++ {
		s.Advance(1.0 / 60)
		if p := s.Phase(); p < 0 || p >= tau {
			t.Fatalf("step %d: phase %v outside [0, 2π)", i, p)
		}
	}
	// 2000 frames at 1/60 s advance the phase by 16.67 rad, wrapping twice.
	want := math32.Mod(0.5*2000.0/60, tau)
	if !mgl32.FloatEqualThreshold(s.Phase(), want, 1e-2) {
		t.Errorf("phase %v, want %v", s.Phase(), want)
	}
}

func TestSpinStaysUnit(t *testing.T) {
	s := NewSpin(0.5)
	for i := 0; i < 500; i++ {
		s.Advance(1.0 / 30)
	}
	if l := s.Orientation().Len(); !mgl32.FloatEqualThreshold(l, 1, 1e-4) {
		t.Errorf("orientation length %v, want 1", l)
	}
}

func TestSpinFirstStep(t *testing.T) {
	const dt = 0.1
	s := NewSpin(0.5)
	s.Advance(dt)

	tb := float32(0.05)
	i1 := math32.Cos(tb) - 1
	i2 := -math32.Sin(tb)
	rz := mgl32.QuatRotate(spinGain*i1*dt, mgl32.Vec3{0, 0, 1})
	ry := mgl32.QuatRotate(spinGain*i2*dt, mgl32.Vec3{0, 1, 0})
	want := ry.Mul(rz)

	if !s.Orientation().ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("orientation %v, want %v", s.Orientation(), want)
	}
}

func TestSpinPausedAndReset(t *testing.T) {
	s := NewSpin(0.5)
	s.Advance(0.25)
	moved := s.Orientation()
	if moved.ApproxEqual(mgl32.QuatIdent()) {
		t.Fatal("spin did not rotate")
	}

	s.Paused = true
	s.Advance(0.25)
	if s.Orientation() != moved {
		t.Error("paused spin rotated")
	}

	s.Advance(-1)
	s.Paused = false
	s.Advance(0)
	if s.Orientation() != moved {
		t.Error("non-positive step rotated")
	}

	s.Reset()
	if s.Phase() != 0 || s.Orientation() != mgl32.QuatIdent() {
		t.Errorf("reset left phase %v orientation %v", s.Phase(), s.Orientation())
	}
}

func TestSpinMatrixIsRotation(t *testing.T) {
	s := NewSpin(1)
	for i := 0; i < 37; i++ {
		s.Advance(0.02)
	}
	m := s.Matrix()
	if d := m.Mat3().Det(); !mgl32.FloatEqualThreshold(d, 1, 1e-4) {
		t.Errorf("determinant %v, want 1", d)
	}
	v := m.Mul4x1(mgl32.Vec4{1, 2, 3, 1}).Vec3()
	if !mgl32.FloatEqualThreshold(v.Len(), mgl32.Vec3{1, 2, 3}.Len(), 1e-4) {
		t.Errorf("rotation changed length: %v", v)
	}
}
