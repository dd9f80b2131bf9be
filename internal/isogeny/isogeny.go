package isogeny

import (
	"github.com/nume-crypto/sidh/internal/fp751"
)

// ThreeIsogeny is a degree-3 isogeny determined by a kernel point x(P_3) of
// order 3.  Evaluation recomputes the needed cross products, so nothing but
// the kernel is stored.
type ThreeIsogeny struct {
	X fp751.ExtensionFieldElement
	Z fp751.ExtensionFieldElement
}

// ComputeThreeIsogeny builds the 3-isogeny with kernel <x3> and returns its
// codomain (A' : C') = (Z^4 + 18 X^2 Z^2 - 27 X^4 : 4 X Z^3).
func ComputeThreeIsogeny(x3 *ProjectivePoint) (ThreeIsogeny, CurveParams) {
	var phi ThreeIsogeny
	phi.X = x3.X
	phi.Z = x3.Z

	var codomain CurveParams
	var xx, zz, t0, t1, t2 fp751.ExtensionFieldElement
	xx.Square(&x3.X)
	zz.Square(&x3.Z)

	t0.Square(&zz)   // Z^4
	t1.Mul(&xx, &zz) // X^2 Z^2
	t2.Add(&t1, &t1) // 2
	t1.Add(&t2, &t2) // 4
	t1.Add(&t1, &t1) // 8
	t1.Add(&t1, &t1) // 16
	t1.Add(&t1, &t2) // 18 X^2 Z^2
	t0.Add(&t0, &t1)

	var x4, s fp751.ExtensionFieldElement
	x4.Square(&xx)   // X^4
	s.Add(&x4, &x4)  // 2
	t2.Add(&s, &s)   // 4
	t2.Add(&t2, &t2) // 8
	t1.Add(&t2, &t2) // 16
	s.Add(&s, &t2)   // 2 + 8
	s.Add(&s, &t1)   // + 16
	s.Add(&s, &x4)   // 27 X^4
	codomain.A.Sub(&t0, &s)

	var xz3 fp751.ExtensionFieldElement
	xz3.Mul(&x3.X, &x3.Z)
	xz3.Mul(&xz3, &zz)
	xz3.Add(&xz3, &xz3)
	xz3.Add(&xz3, &xz3) // 4 X Z^3
	codomain.C = xz3
	return phi, codomain
}

// Eval computes x(phi(P)) at a cost of 6M + 2S:
// X' = X (X3 X - Z3 Z)^2, Z' = Z (Z3 X - X3 Z)^2.
func (phi *ThreeIsogeny) Eval(p *ProjectivePoint) ProjectivePoint {
	var q ProjectivePoint
	var t0, t1, t2 fp751.ExtensionFieldElement
	t0.Mul(&phi.X, &p.X)
	t1.Mul(&phi.Z, &p.Z)
	t2.Sub(&t0, &t1)
	t0.Mul(&phi.Z, &p.X)
	t1.Mul(&phi.X, &p.Z)
	t0.Sub(&t0, &t1)
	t2.Square(&t2)
	t0.Square(&t0)
	q.X.Mul(&t2, &p.X)
	q.Z.Mul(&t0, &p.Z)
	return q
}

// FourIsogeny is a degree-4 isogeny determined by a kernel point x(P_4) of
// order 4 with [2]P_4 != (0, 0).  Five coefficients are cached for evaluation.
type FourIsogeny struct {
	XsqPlusZsq  fp751.ExtensionFieldElement // X4^2 + Z4^2
	XsqMinusZsq fp751.ExtensionFieldElement // X4^2 - Z4^2
	XZ4         fp751.ExtensionFieldElement // 4 X4 Z4
	Xpow4       fp751.ExtensionFieldElement // X4^4
	Zpow4       fp751.ExtensionFieldElement // Z4^4
}

// ComputeFourIsogeny builds the 4-isogeny with kernel <x4> and returns its
// codomain (A' : C') = (2 (2 X4^4 - Z4^4) : Z4^4).
func ComputeFourIsogeny(x4 *ProjectivePoint) (FourIsogeny, CurveParams) {
	var phi FourIsogeny
	var xx, zz fp751.ExtensionFieldElement
	xx.Square(&x4.X)
	zz.Square(&x4.Z)
	phi.XsqPlusZsq.Add(&xx, &zz)
	phi.XsqMinusZsq.Sub(&xx, &zz)
	phi.XZ4.Mul(&x4.X, &x4.Z)
	phi.XZ4.Add(&phi.XZ4, &phi.XZ4)
	phi.XZ4.Add(&phi.XZ4, &phi.XZ4)
	phi.Xpow4.Square(&xx)
	phi.Zpow4.Square(&zz)

	var codomain CurveParams
	var t fp751.ExtensionFieldElement
	t.Add(&phi.Xpow4, &phi.Xpow4)
	t.Sub(&t, &phi.Zpow4)
	codomain.A.Add(&t, &t)
	codomain.C = phi.Zpow4
	return phi, codomain
}

// Eval computes x(phi(P)).  With a = X X4 - Z Z4, b = Z X4 - X Z4 and
// F = Z4^2 (X^2 - Z^2), the image is (a^2 (a^2 + F) : b^2 (b^2 - F)); the
// doubled forms below avoid any halving:
//
//	2a^2 = s c0 + d c1 - XZ c2,  2b^2 = s c0 - d c1 - XZ c2,  2F = (c0 - c1) d
//
// with s = X^2 + Z^2, d = X^2 - Z^2 and (c0, c1, c2) the cached coefficients.
func (phi *FourIsogeny) Eval(p *ProjectivePoint) ProjectivePoint {
	var q ProjectivePoint
	var xx, zz, xz, s, d fp751.ExtensionFieldElement
	xx.Square(&p.X)
	zz.Square(&p.Z)
	xz.Mul(&p.X, &p.Z)
	s.Add(&xx, &zz)
	d.Sub(&xx, &zz)

	var a2, b2, f2, t0, t1 fp751.ExtensionFieldElement
	t0.Mul(&s, &phi.XsqPlusZsq)
	t1.Mul(&d, &phi.XsqMinusZsq)
	var txz fp751.ExtensionFieldElement
	txz.Mul(&xz, &phi.XZ4)
	a2.Add(&t0, &t1)
	a2.Sub(&a2, &txz)
	b2.Sub(&t0, &t1)
	b2.Sub(&b2, &txz)
	f2.Sub(&phi.XsqPlusZsq, &phi.XsqMinusZsq)
	f2.Mul(&f2, &d)

	var t fp751.ExtensionFieldElement
	t.Add(&a2, &f2)
	q.X.Mul(&a2, &t)
	t.Sub(&b2, &f2)
	q.Z.Mul(&b2, &t)
	return q
}

// FirstFourIsogeny is the special first 4-isogeny of the Alice walk, whose
// kernel contains the point with x = 1 lying above (0, 0); the preliminary
// curve isomorphism is absorbed into the map.  Only the domain coefficients
// are needed to evaluate it.
type FirstFourIsogeny struct {
	A fp751.ExtensionFieldElement
	C fp751.ExtensionFieldElement
}

// ComputeFirstFourIsogeny builds the first 4-isogeny on E_(A:C) and returns
// its codomain (A' : C') = (2 (A + 6C) : A - 2C).
func ComputeFirstFourIsogeny(domain *CurveParams) (FirstFourIsogeny, CurveParams) {
	var phi FirstFourIsogeny
	phi.A = domain.A
	phi.C = domain.C

	var codomain CurveParams
	var twoC, sixC fp751.ExtensionFieldElement
	twoC.Add(&domain.C, &domain.C)
	sixC.Add(&twoC, &twoC)
	sixC.Add(&sixC, &twoC) // 6C
	codomain.A.Add(&domain.A, &sixC)
	codomain.A.Add(&codomain.A, &codomain.A) // 2(A + 6C)
	codomain.C.Sub(&domain.A, &twoC)         // A - 2C
	return phi, codomain
}

// Eval computes x(phi(P)):
//
//	X' = (X + Z)^2 (C (X^2 + Z^2) + A X Z)
//	Z' = (2C - A) X Z (X - Z)^2
func (phi *FirstFourIsogeny) Eval(p *ProjectivePoint) ProjectivePoint {
	var q ProjectivePoint
	var xz, s, t0, t1 fp751.ExtensionFieldElement
	xz.Mul(&p.X, &p.Z)
	t0.Square(&p.X)
	t1.Square(&p.Z)
	s.Add(&t0, &t1) // X^2 + Z^2

	var num fp751.ExtensionFieldElement
	num.Mul(&phi.C, &s)
	t0.Mul(&phi.A, &xz)
	num.Add(&num, &t0)
	t0.Add(&p.X, &p.Z)
	t0.Square(&t0)
	q.X.Mul(&t0, &num)

	var den fp751.ExtensionFieldElement
	den.Add(&phi.C, &phi.C)
	den.Sub(&den, &phi.A) // 2C - A
	t0.Sub(&p.X, &p.Z)
	t0.Square(&t0)
	den.Mul(&den, &xz)
	q.Z.Mul(&den, &t0)
	return q
}
