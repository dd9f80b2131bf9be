// Package isogeny implements x-only Montgomery curve arithmetic and the 3- and
// 4-isogeny machinery for the SIDH prime p = 2^372 * 3^239 - 1.
package isogeny

import (
	"github.com/nume-crypto/sidh/internal/fp751"
)

// ProjectivePoint is an x-only point (X : Z); Z = 0 denotes the identity.
type ProjectivePoint struct {
	X fp751.ExtensionFieldElement
	Z fp751.ExtensionFieldElement
}

// ProjectivePrimeFieldPoint is an x-only point with base field coordinates,
// used by the trace-zero secret-point ladder which runs entirely over GF(p).
type ProjectivePrimeFieldPoint struct {
	X fp751.PrimeFieldElement
	Z fp751.PrimeFieldElement
}

// AffinePoint is a full (x, y) point on a Montgomery curve over GF(p^2).
type AffinePoint struct {
	X fp751.ExtensionFieldElement
	Y fp751.ExtensionFieldElement
}

// CurveParams is a projective Montgomery coefficient pair (A : C) for the
// curve C y^2 = x^3 + A x^2 + C x.
type CurveParams struct {
	A fp751.ExtensionFieldElement
	C fp751.ExtensionFieldElement
}

// CachedParams holds (A24, C24) = (A + 2C, 4C), the combination the doubling
// and tripling formulas consume.
type CachedParams struct {
	A24 fp751.ExtensionFieldElement
	C24 fp751.ExtensionFieldElement
}

// Cached computes (A + 2C, 4C) from (A : C).
func (c *CurveParams) Cached() CachedParams {
	var r CachedParams
	var t fp751.ExtensionFieldElement
	t.Add(&c.C, &c.C)   // 2C
	r.A24.Add(&c.A, &t) // A + 2C
	r.C24.Add(&t, &t)   // 4C
	return r
}

// FromAffine builds (x : 1).
func (p *ProjectivePoint) FromAffine(x *fp751.ExtensionFieldElement) *ProjectivePoint {
	p.X = *x
	p.Z.SetOne()
	return p
}

// SetIdentity sets p to the group identity (1 : 0).
func (p *ProjectivePoint) SetIdentity() *ProjectivePoint {
	p.X.SetOne()
	p.Z.SetZero()
	return p
}

// IsIdentity reports whether p has Z = 0.
func (p *ProjectivePoint) IsIdentity() bool { return p.Z.IsZero() }

// Affine returns X/Z.  The point must not be the identity.
func (p *ProjectivePoint) Affine() fp751.ExtensionFieldElement {
	var zinv, x fp751.ExtensionFieldElement
	zinv.Inv(&p.Z)
	x.Mul(&p.X, &zinv)
	return x
}

// VartimeEq reports projective equality X1 Z2 = X2 Z1.
func (p *ProjectivePoint) VartimeEq(q *ProjectivePoint) bool {
	var l, r fp751.ExtensionFieldElement
	l.Mul(&p.X, &q.Z)
	r.Mul(&q.X, &p.Z)
	return l.VartimeEq(&r)
}

func conditionalSwapPoints(p, q *ProjectivePoint, choice uint8) {
	fp751.ExtConditionalSwap(&p.X, &q.X, choice)
	fp751.ExtConditionalSwap(&p.Z, &q.Z, choice)
}

func conditionalAssignPoint(p, q *ProjectivePoint, choice uint8) {
	fp751.ExtConditionalAssign(&p.X, &q.X, choice)
	fp751.ExtConditionalAssign(&p.Z, &q.Z, choice)
}

// Double sets dest = [2]p.
// Returns dest to allow chaining operations.
func (dest *ProjectivePoint) Double(p *ProjectivePoint, curve *CachedParams) *ProjectivePoint {
	var t0, t1, t2, x2, z2 fp751.ExtensionFieldElement
	t0.Sub(&p.X, &p.Z)
	t0.Square(&t0) // (X-Z)^2
	t1.Add(&p.X, &p.Z)
	t1.Square(&t1) // (X+Z)^2
	x2.Mul(&curve.C24, &t0)
	x2.Mul(&x2, &t1) // C24 (X-Z)^2 (X+Z)^2
	t2.Sub(&t1, &t0) // 4XZ
	t1.Mul(&curve.A24, &t2)
	t0.Mul(&curve.C24, &t0)
	t1.Add(&t0, &t1)
	z2.Mul(&t1, &t2)
	dest.X = x2
	dest.Z = z2
	return dest
}

// DoubleN sets dest = [2^n]p.
func (dest *ProjectivePoint) DoubleN(p *ProjectivePoint, curve *CachedParams, n int) *ProjectivePoint {
	*dest = *p
	for i := 0; i < n; i++ {
		dest.Double(dest, curve)
	}
	return dest
}

// Add sets dest = p + q given pMinusQ = x(p - q) (differential addition).
func (dest *ProjectivePoint) Add(p, q, pMinusQ *ProjectivePoint) *ProjectivePoint {
	var a, b, t0, t1 fp751.ExtensionFieldElement
	t0.Sub(&p.X, &p.Z)
	t1.Add(&q.X, &q.Z)
	a.Mul(&t0, &t1) // (X1-Z1)(X2+Z2)
	t0.Add(&p.X, &p.Z)
	t1.Sub(&q.X, &q.Z)
	b.Mul(&t0, &t1) // (X1+Z1)(X2-Z2)
	t0.Add(&a, &b)
	t0.Square(&t0)
	t1.Sub(&a, &b)
	t1.Square(&t1)
	var x3, z3 fp751.ExtensionFieldElement
	x3.Mul(&pMinusQ.Z, &t0)
	z3.Mul(&pMinusQ.X, &t1)
	dest.X = x3
	dest.Z = z3
	return dest
}

// DblAdd computes [2]p and p + q simultaneously, sharing the (X1 +- Z1)
// subexpressions; pMinusQ is x(p - q).
func DblAdd(dbl, sum *ProjectivePoint, p, q, pMinusQ *ProjectivePoint, curve *CachedParams) {
	var sm, df fp751.ExtensionFieldElement
	sm.Add(&p.X, &p.Z)
	df.Sub(&p.X, &p.Z)

	var a, b, t fp751.ExtensionFieldElement
	t.Sub(&q.X, &q.Z)
	a.Mul(&sm, &t) // (X1+Z1)(X2-Z2)
	t.Add(&q.X, &q.Z)
	b.Mul(&df, &t) // (X1-Z1)(X2+Z2)

	var t0, t1, t2 fp751.ExtensionFieldElement
	t0.Square(&df) // (X1-Z1)^2
	t1.Square(&sm) // (X1+Z1)^2
	var x2, z2 fp751.ExtensionFieldElement
	x2.Mul(&curve.C24, &t0)
	x2.Mul(&x2, &t1)
	t2.Sub(&t1, &t0)
	t1.Mul(&curve.A24, &t2)
	t0.Mul(&curve.C24, &t0)
	t1.Add(&t0, &t1)
	z2.Mul(&t1, &t2)

	var sumX, sumZ fp751.ExtensionFieldElement
	t.Add(&a, &b)
	t.Square(&t)
	sumX.Mul(&pMinusQ.Z, &t)
	t.Sub(&a, &b)
	t.Square(&t)
	sumZ.Mul(&pMinusQ.X, &t)

	dbl.X, dbl.Z = x2, z2
	sum.X, sum.Z = sumX, sumZ
}

// Triple sets dest = [3]p as a doubling followed by a differential addition.
func (dest *ProjectivePoint) Triple(p *ProjectivePoint, curve *CachedParams) *ProjectivePoint {
	var p2 ProjectivePoint
	p2.Double(p, curve)
	return dest.Add(&p2, p, p)
}

// TripleN sets dest = [3^n]p.
func (dest *ProjectivePoint) TripleN(p *ProjectivePoint, curve *CachedParams, n int) *ProjectivePoint {
	*dest = *p
	for i := 0; i < n; i++ {
		dest.Triple(dest, curve)
	}
	return dest
}

// Jinvariant computes j(E_(A:C)) = 256 (A^2 - 3C^2)^3 / (C^4 (A^2 - 4C^2)),
// with the 256 absorbed by doublings.
func (curve *CurveParams) Jinvariant() fp751.ExtensionFieldElement {
	var asq, csq, t, num, den fp751.ExtensionFieldElement
	asq.Square(&curve.A)
	csq.Square(&curve.C)

	t.Add(&csq, &csq)
	t.Add(&t, &csq)   // 3C^2
	num.Sub(&asq, &t) // A^2 - 3C^2
	t.Square(&num)
	num.Mul(&num, &t) // (A^2 - 3C^2)^3
	for i := 0; i < 8; i++ {
		num.Add(&num, &num)
	}

	t.Add(&csq, &csq)
	t.Add(&t, &t)     // 4C^2
	den.Sub(&asq, &t) // A^2 - 4C^2
	t.Square(&csq)    // C^4
	den.Mul(&den, &t)
	den.Inv(&den)

	var j fp751.ExtensionFieldElement
	j.Mul(&num, &den)
	return j
}

// Batch3Inv simultaneously inverts three field elements with one inversion.
func Batch3Inv(x1, x2, x3, y1, y2, y3 *fp751.ExtensionFieldElement) {
	in := []fp751.ExtensionFieldElement{*x1, *x2, *x3}
	out := make([]fp751.ExtensionFieldElement, 3)
	fp751.BatchInvert(out, in)
	*y1, *y2, *y3 = out[0], out[1], out[2]
}
