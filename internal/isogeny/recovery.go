package isogeny

import (
	"errors"
	"math/big"

	"github.com/nume-crypto/sidh/internal/fp751"
)

var errSingularInput = errors.New("isogeny: degenerate point arithmetic input")

// RecoverCoordinateA computes the Montgomery coefficient A of the curve on
// which xP, xQ and xR = x(Q - P) are consistent:
//
//	A = (1 - xP xQ - xP xR - xQ xR)^2 / (4 xP xQ xR) - xP - xQ - xR
func RecoverCoordinateA(xP, xQ, xR *fp751.ExtensionFieldElement) fp751.ExtensionFieldElement {
	var one, t, num, den, a fp751.ExtensionFieldElement
	one.SetOne()

	t.Mul(xP, xQ)
	num.Sub(&one, &t)
	t.Mul(xP, xR)
	num.Sub(&num, &t)
	t.Mul(xQ, xR)
	num.Sub(&num, &t)
	num.Square(&num)

	den.Mul(xP, xQ)
	den.Mul(&den, xR)
	den.Add(&den, &den)
	den.Add(&den, &den)
	den.Inv(&den)

	a.Mul(&num, &den)
	a.Sub(&a, xP)
	a.Sub(&a, xQ)
	a.Sub(&a, xR)
	return a
}

// curveRHS computes x^3 + A x^2 + x.
func curveRHS(x, a *fp751.ExtensionFieldElement) fp751.ExtensionFieldElement {
	var t, r fp751.ExtensionFieldElement
	t.Square(x)
	r.Mul(a, x)
	r.Add(&r, &t)
	var one fp751.ExtensionFieldElement
	one.SetOne()
	r.Add(&r, &one)
	r.Mul(&r, x) // x(x^2 + Ax + 1)
	return r
}

// OkeyaSakuraiRecover returns the affine coordinates of Q given the affine
// base point P = (x, y), Q = (X1 : Z1) and Q + P = (X2 : Z2):
//
//	y(Q) = (rhs(xQ) + y^2 - (x(Q+P) + A + xQ + x) (xQ - x)^2) / (2y)
//
// Variable time; used on public decompression data only.
func OkeyaSakuraiRecover(p *AffinePoint, q, qPlusP *ProjectivePoint, a *fp751.ExtensionFieldElement) (AffinePoint, error) {
	if q.IsIdentity() || qPlusP.IsIdentity() || p.Y.IsZero() {
		return AffinePoint{}, errSingularInput
	}
	zs := []fp751.ExtensionFieldElement{q.Z, qPlusP.Z}
	inv := make([]fp751.ExtensionFieldElement, 2)
	fp751.BatchInvert(inv, zs)
	var x1, x2 fp751.ExtensionFieldElement
	x1.Mul(&q.X, &inv[0])
	x2.Mul(&qPlusP.X, &inv[1])

	rhs := curveRHS(&x1, a)
	var ysq, t, num, den fp751.ExtensionFieldElement
	ysq.Square(&p.Y)
	num.Add(&rhs, &ysq)
	t.Add(&x2, a)
	t.Add(&t, &x1)
	t.Add(&t, &p.X)
	var d fp751.ExtensionFieldElement
	d.Sub(&x1, &p.X)
	d.Square(&d)
	t.Mul(&t, &d)
	num.Sub(&num, &t)

	den.Add(&p.Y, &p.Y)
	den.Inv(&den)

	var out AffinePoint
	out.X = x1
	out.Y.Mul(&num, &den)
	return out, nil
}

// DistortAndDifference computes x(tau(P) - P) = (i (x^2 + 1) : 2x) for the
// distortion map tau(x, y) = (-x, iy) on E0, with x in the base field.
func DistortAndDifference(xP *fp751.PrimeFieldElement) ProjectivePoint {
	var out ProjectivePoint
	var t fp751.PrimeFieldElement
	t.Square(xP)
	var one fp751.PrimeFieldElement
	one.SetOne()
	t.Add(&t, &one)
	out.X.A = fp751.Element{}
	out.X.B = t.A // i (x^2 + 1)
	var two fp751.PrimeFieldElement
	two.Add(xP, xP)
	out.Z.A = two.A
	out.Z.B = fp751.Element{}
	return out
}

// SecretPoint computes x(P + [m]tau(P)) for P = (x, y) in E0(GF(p)), without
// leaving the base field until the final assembly: a constant-time GF(p)
// ladder produces [m]P and [m+1]P, the y-coordinate of [m]P is recovered in
// projective form, and the trace-zero sum is assembled from the fractions
// directly.  Constant time over the scalar.
func SecretPoint(xP, yP *fp751.PrimeFieldElement, scalar []byte, nbits int) ProjectivePoint {
	r0, r1 := primeFieldLadder(xP, scalar, nbits)
	x1, d := &r0.X, &r0.Z
	x2, z2 := &r1.X, &r1.Z

	var dsq, dcub, ypsq fp751.PrimeFieldElement
	dsq.Square(d)
	dcub.Mul(&dsq, d)
	ypsq.Square(yP)

	// NN = (X1^3 + X1 D^2 + yP^2 D^3) Z2 - (X2 D + X1 Z2 + xP D Z2)(X1 - xP D)^2
	var nn, t0, t1, t2 fp751.PrimeFieldElement
	t0.Square(x1)
	t0.Mul(&t0, x1)  // X1^3
	t1.Mul(x1, &dsq) // X1 D^2
	t0.Add(&t0, &t1)
	t1.Mul(&ypsq, &dcub) // yP^2 D^3
	t0.Add(&t0, &t1)
	nn.Mul(&t0, z2)

	var xpd fp751.PrimeFieldElement
	xpd.Mul(xP, d) // xP D
	t0.Mul(x2, d)  // X2 D
	t1.Mul(x1, z2) // X1 Z2
	t0.Add(&t0, &t1)
	t1.Mul(&xpd, z2) // xP D Z2
	t0.Add(&t0, &t1)
	t1.Sub(x1, &xpd) // X1 - xP D
	t2.Square(&t1)
	t0.Mul(&t0, &t2)
	nn.Sub(&nn, &t0)

	// YD = 2 yP D^3 Z2
	var yd fp751.PrimeFieldElement
	yd.Mul(yP, &dcub)
	yd.Mul(&yd, z2)
	yd.Add(&yd, &yd)

	var ydsq, sum, sumsq fp751.PrimeFieldElement
	ydsq.Square(&yd)
	sum.Add(x1, &xpd) // X1 + xP D
	sumsq.Square(&sum)

	// XR.A = yP^2 YD^2 D^3 - NN^2 D^3 + YD^2 (X1 - xP D)(X1 + xP D)^2
	var xra, xrb, zr fp751.PrimeFieldElement
	t0.Mul(&ypsq, &ydsq)
	t0.Mul(&t0, &dcub)
	t2.Square(&nn)
	t2.Mul(&t2, &dcub)
	xra.Sub(&t0, &t2)
	t0.Mul(&ydsq, &t1) // YD^2 (X1 - xP D)
	t0.Mul(&t0, &sumsq)
	xra.Add(&xra, &t0)

	// XR.B = -2 yP NN YD D^3
	xrb.Mul(yP, &nn)
	xrb.Mul(&xrb, &yd)
	xrb.Mul(&xrb, &dcub)
	xrb.Add(&xrb, &xrb)
	xrb.Neg(&xrb)

	// ZR = YD^2 D (X1 + xP D)^2
	zr.Mul(&ydsq, d)
	zr.Mul(&zr, &sumsq)

	var out ProjectivePoint
	out.X.A = xra.A
	out.X.B = xrb.A
	out.Z.A = zr.A
	out.Z.B = fp751.Element{}
	return out
}

// affineAdd is the generic Montgomery affine addition P + Q on E_A.
// Variable time; public data only.
func affineAdd(p, q *AffinePoint, a *fp751.ExtensionFieldElement) (AffinePoint, error) {
	var lam, num, den fp751.ExtensionFieldElement
	if p.X.VartimeEq(&q.X) {
		var negY fp751.ExtensionFieldElement
		negY.Neg(&q.Y)
		if p.Y.VartimeEq(&negY) {
			return AffinePoint{}, errSingularInput
		}
		// tangent slope (3x^2 + 2Ax + 1) / 2y
		var t fp751.ExtensionFieldElement
		num.Square(&p.X)
		t.Add(&num, &num)
		num.Add(&num, &t) // 3x^2
		t.Mul(a, &p.X)
		t.Add(&t, &t)
		num.Add(&num, &t)
		var one fp751.ExtensionFieldElement
		one.SetOne()
		num.Add(&num, &one)
		den.Add(&p.Y, &p.Y)
	} else {
		num.Sub(&q.Y, &p.Y)
		den.Sub(&q.X, &p.X)
	}
	den.Inv(&den)
	lam.Mul(&num, &den)

	var out AffinePoint
	out.X.Square(&lam)
	out.X.Sub(&out.X, a)
	out.X.Sub(&out.X, &p.X)
	out.X.Sub(&out.X, &q.X)
	var t fp751.ExtensionFieldElement
	t.Sub(&p.X, &out.X)
	out.Y.Mul(&lam, &t)
	out.Y.Sub(&out.Y, &p.Y)
	return out, nil
}

// TwoDimScalarMult computes x(R1 + [t]R2) for public t: an x-only ladder on
// R2, Okeya-Sakurai recovery of [t]R2, and one affine addition with R1.
func TwoDimScalarMult(r1, r2 *AffinePoint, t *big.Int, a *fp751.ExtensionFieldElement) (ProjectivePoint, error) {
	var out ProjectivePoint
	if t.Sign() == 0 {
		out.FromAffine(&r1.X)
		return out, nil
	}
	curve := CurveParams{A: *a}
	curve.C.SetOne()
	scalar := t.Bytes()
	// big.Int gives big-endian bytes; the ladder reads little-endian
	for i, j := 0, len(scalar)-1; i < j; i, j = i+1, j-1 {
		scalar[i], scalar[j] = scalar[j], scalar[i]
	}
	l0, l1 := Ladder(&r2.X, scalar, t.BitLen(), &curve)
	m, err := OkeyaSakuraiRecover(r2, &l0, &l1, a)
	if err != nil {
		return out, err
	}
	s, err := affineAdd(r1, &m, a)
	if err != nil {
		return out, err
	}
	out.FromAffine(&s.X)
	return out, nil
}
