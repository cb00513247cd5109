package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	x := Vec2{1, 0}
	y := Vec2{0, 1}
	if got := x.Cross(y); got != 1 {
		t.Errorf("Vec2.Cross() = %v, want 1", got)
	}
	if got := y.Cross(x); got != -1 {
		t.Errorf("Vec2.Cross() = %v, want -1", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", got)
	}
}

func TestVec3ComponentWise(t *testing.T) {
	a := Vec3{-1, 2, -3}
	b := Vec3{2, -4, 1}

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"Abs", a.Abs(), Vec3{1, 2, 3}},
		{"Min", a.Min(b), Vec3{-1, -4, -3}},
		{"Max", a.Max(b), Vec3{2, 2, 1}},
		{"Mul", a.Mul(b), Vec3{-2, -8, -3}},
		{"Splat", Splat(2), Vec3{2, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if got := (Vec3{3, 1, 2}).MinComponent(); got != 1 {
		t.Errorf("MinComponent() = %v, want 1", got)
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 2, 3}
	if !a.ApproxEqual(Vec3{1.00001, 2, 2.99999}, 1e-4) {
		t.Error("expected vectors within tolerance to be equal")
	}
	if a.ApproxEqual(Vec3{1.1, 2, 3}, 1e-4) {
		t.Error("expected vectors outside tolerance to differ")
	}
}
