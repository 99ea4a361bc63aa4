package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// ViewMatrix builds a camera rotation that turns the scene by yaw around the
// vertical (Z) axis and then tilts it by pitch around the screen X axis.
// Angles in degrees.
func ViewMatrix(yawDeg, pitchDeg float64) Mat3 {
	// Z-up world to Y-up screen: Rx(-90°)
	flip := RotX(-math.Pi / 2)
	return Mat3Mul(RotX(Deg2Rad(pitchDeg)), Mat3Mul(flip, RotZ(Deg2Rad(yawDeg))))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
