package math

import (
	"math"
	"testing"
)

const tolerance = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= tolerance
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got := v1.Add(v2); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := v2.Sub(v1); got != NewVec3(3, 3, 3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := v1.Dot(v2); got != 32 {
		t.Errorf("Dot: expected 32, got %v", got)
	}
	// Right x Up = Front in a right-handed system
	if got := Vec3Right.Cross(Vec3Up); got != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, got)
	}
	if got := NewVec3(3, 0, 0).Normalize(); got != Vec3Right {
		t.Errorf("Normalize: got %v", got)
	}
}

func TestMat4TranslationMovesPoints(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	if got := m.MulPoint(Vec3Zero); got != NewVec3(1, 2, 3) {
		t.Errorf("Translation: got %v", got)
	}
}

func TestMat4ComposeAppliesScaleRotateTranslate(t *testing.T) {
	rot := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))
	m := Mat4Compose(NewVec3(10, 0, 0), rot, Splat(2))

	// (1,0,0) scaled to (2,0,0), rotated about Y to (0,0,-2), then moved by +10 X
	got := m.MulPoint(Vec3Right)
	if !got.ApproxEqual(NewVec3(10, 0, -2), tolerance) {
		t.Errorf("Compose: expected (10,0,-2), got %v", got)
	}

	chained := Mat4Scale(Splat(2)).Mul(rot.ToMat4()).Mul(Mat4Translation(NewVec3(10, 0, 0)))
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !near(chained[i][j], m[i][j]) {
				t.Fatalf("Compose differs from S*R*T at [%d][%d]: %v vs %v", i, j, m[i][j], chained[i][j])
			}
		}
	}
}

func TestMat4Inverse(t *testing.T) {
	rot := QuaternionFromAxisAngle(NewVec3(1, 1, 0), 0.7)
	m := Mat4Compose(NewVec3(3, -2, 5), rot, NewVec3(2, 3, 4))

	product := m.Mul(m.Inverse())
	identity := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !near(product[i][j], identity[i][j]) {
				t.Fatalf("M * M^-1 at [%d][%d] = %v", i, j, product[i][j])
			}
		}
	}
}

func TestMat4InverseSingularFallsBackToIdentity(t *testing.T) {
	var zero Mat4
	if zero.Inverse() != Mat4Identity() {
		t.Error("expected identity for a singular matrix")
	}
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))
	got := q.RotateVector(Vec3Right)
	if !got.ApproxEqual(NewVec3(0, 0, -1), tolerance) {
		t.Errorf("expected approximately (0,0,-1), got %v", got)
	}

	viaMatrix := q.ToMat4().MulPoint(Vec3Right)
	if !viaMatrix.ApproxEqual(got, tolerance) {
		t.Errorf("matrix rotation %v disagrees with quaternion rotation %v", viaMatrix, got)
	}
}

func TestQuaternionSlerp(t *testing.T) {
	a := QuaternionIdentity()
	b := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))

	if got := a.Slerp(b, 0); !near(got.Dot(a), 1) {
		t.Errorf("t=0: expected start rotation, got %v", got)
	}
	if got := a.Slerp(b, 1); !near(got.Dot(b), 1) {
		t.Errorf("t=1: expected end rotation, got %v", got)
	}

	half := a.Slerp(b, 0.5)
	want := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/4))
	if !near(half.Dot(want), 1) {
		t.Errorf("t=0.5: expected 45 degree rotation, got %v", half)
	}
}

func TestQuaternionSlerpTakesShortestArc(t *testing.T) {
	a := QuaternionFromAxisAngle(Vec3Up, 0.1)
	b := QuaternionFromAxisAngle(Vec3Up, 0.3)
	negB := Quaternion{-b.X, -b.Y, -b.Z, -b.W}

	got := a.Slerp(negB, 0.5)
	want := QuaternionFromAxisAngle(Vec3Up, 0.2)
	if !near(float32(math.Abs(float64(got.Dot(want)))), 1) {
		t.Errorf("expected 0.2 rad rotation, got %v", got)
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 50, 100)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	if got := m.MulPoint(eye); !got.ApproxEqual(Vec3Zero, tolerance) {
		t.Errorf("LookAt: expected eye at origin, got %v", got)
	}
	// The target lies straight ahead on -Z in view space.
	target := m.MulPoint(Vec3Zero)
	if !near(target.X, 0) || !near(target.Y, 0) || target.Z >= 0 {
		t.Errorf("LookAt: expected target on -Z axis, got %v", target)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Translation(NewVec3(1, 2, 3))

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func TestMat4DecomposeRoundTrip(t *testing.T) {
	rotation := QuaternionFromAxisAngle(NewVec3(1, 2, 3).Normalize(), 2.2)
	m := Mat4Compose(NewVec3(4, -5, 6), rotation, NewVec3(2, 3, 0.5))

	translation, gotRotation, scale := m.Decompose()

	if !translation.ApproxEqual(NewVec3(4, -5, 6), tolerance) {
		t.Errorf("translation = %v", translation)
	}
	if !scale.ApproxEqual(NewVec3(2, 3, 0.5), tolerance) {
		t.Errorf("scale = %v", scale)
	}
	if d := gotRotation.Dot(rotation); !near(float32(math.Abs(float64(d))), 1) {
		t.Errorf("rotation = %v, want %v", gotRotation, rotation)
	}
}
