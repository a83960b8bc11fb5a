package math

import "testing"

func TestIdentity3x4(t *testing.T) {
	p := Vec3{1, 2, 3}
	if got := Identity3x4().TransformPoint(p); got != p {
		t.Errorf("identity moved point: %v", got)
	}
}

func TestFromAxes(t *testing.T) {
	// 90 degrees about Z: X axis maps to Y.
	m := FromAxes(Vec3{10, 20, 30}, [3]Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}})

	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{10, 21, 30}
	if got != want {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
	if m.Origin() != (Vec3{10, 20, 30}) {
		t.Errorf("Origin = %v", m.Origin())
	}
	if m.Axis(1) != (Vec3{-1, 0, 0}) {
		t.Errorf("Axis(1) = %v", m.Axis(1))
	}
	if d := m.TransformDirection(Vec3{1, 0, 0}); d != (Vec3{0, 1, 0}) {
		t.Errorf("TransformDirection = %v", d)
	}
}

func TestMat3x4Mul(t *testing.T) {
	a := FromAxes(Vec3{1, 0, 0}, [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	b := FromAxes(Vec3{0, 2, 0}, [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	got := a.Mul(b).TransformPoint(Vec3{})
	if got != (Vec3{1, 2, 0}) {
		t.Errorf("Mul translation = %v", got)
	}
}
