package inkview

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// ViewTransform maps model coordinates to viewport pixels:
//
//	view = model*Scale - Offset
//
// Scale is always positive.
type ViewTransform struct {
	Offset Vec2
	Scale  float64
}

// Matrix returns the transform as an affine matrix [a, b, c, d, tx, ty].
func (t ViewTransform) Matrix() [6]float64 {
	return [6]float64{t.Scale, 0, 0, t.Scale, -t.Offset.X, -t.Offset.Y}
}

// linear returns the transform with its translation dropped.
func (t ViewTransform) linear() [6]float64 {
	m := t.Matrix()
	m[4], m[5] = 0, 0
	return m
}

// ModelToView converts a model-space point to viewport pixels.
func (t ViewTransform) ModelToView(p Vec2) Vec2 {
	x, y := transformPoint(t.Matrix(), p.X, p.Y)
	return Vec2{x, y}
}

// ViewToModel converts a viewport pixel position to model space.
func (t ViewTransform) ViewToModel(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(t.Matrix()), p.X, p.Y)
	return Vec2{x, y}
}

// invertAffine computes the inverse of a 2D affine matrix.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
