package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if math.Abs(length-1.0) > 1e-9 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-identity[i]) > 1e-9 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/2)

	if math.Abs(q.W-math.Cos(math.Pi/4)) > 1e-9 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", math.Cos(math.Pi/4), q.W)
	}
	if math.Abs(q.Y-math.Sin(math.Pi/4)) > 1e-9 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", math.Sin(math.Pi/4), q.Y)
	}
}

func TestYawRotatesCounterClockwise(t *testing.T) {
	for _, angle := range []float64{0, 0.3, math.Pi / 2, 2.5, -1} {
		p := Vec3{1.5, -0.5, 2}
		got := Yaw(angle).ToMat4().TransformDirection(p)
		c, s := math.Cos(angle), math.Sin(angle)
		want := Vec3{p.X*c - p.Y*s, p.X*s + p.Y*c, p.Z}
		if got.Distance(want) > 1e-9 {
			t.Errorf("angle %v: got %v, want %v", angle, got, want)
		}
	}
}

func TestYawPreservesLength(t *testing.T) {
	p := Vec3{3, 4, 12}
	got := Yaw(1.234).ToMat4().TransformDirection(p).Length()
	if math.Abs(got-13) > 1e-9 {
		t.Errorf("rotated length = %v, want 13", got)
	}
}
