package math

// Mat3x4 is an affine transform stored as three rows of (rotation|translation).
// Row i holds the i-th component of each basis axis followed by the origin.
type Mat3x4 [3][4]float32

// Identity3x4 returns an identity transform.
func Identity3x4() Mat3x4 {
	return Mat3x4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
}

// FromAxes builds a transform from an origin and three basis axes.
func FromAxes(origin Vec3, axes [3]Vec3) Mat3x4 {
	var m Mat3x4
	for i := 0; i < 3; i++ {
		m[i][0] = axes[0].Index(i)
		m[i][1] = axes[1].Index(i)
		m[i][2] = axes[2].Index(i)
		m[i][3] = origin.Index(i)
	}
	return m
}

// Origin returns the translation column.
func (m Mat3x4) Origin() Vec3 {
	return Vec3{m[0][3], m[1][3], m[2][3]}
}

// Axis returns basis axis i (0..2).
func (m Mat3x4) Axis(i int) Vec3 {
	return Vec3{m[0][i], m[1][i], m[2][i]}
}

// TransformPoint applies rotation and translation to p.
func (m Mat3x4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformDirection applies only the rotation part to d.
func (m Mat3x4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

// Mul returns the composition m * other (other applied first).
func (m Mat3x4) Mul(other Mat3x4) Mat3x4 {
	var r Mat3x4
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
		r[i][3] += m[i][3]
	}
	return r
}
