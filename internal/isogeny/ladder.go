package isogeny

import (
	"github.com/nume-crypto/sidh/internal/fp751"
)

// scalarBit extracts bit i of a little-endian scalar.
func scalarBit(scalar []byte, i int) uint8 {
	return (scalar[i/8] >> (uint(i) % 8)) & 1
}

// ScalarMul3Pt computes x(P + [m]Q) from xP, xQ and xPQ = x(P - Q) with the
// three-point ladder.  The loop always runs nbits iterations regardless of the
// bit length of m; the iterations above the top set bit are absorbed by the
// (1 : 0) identity representation, which the differential addition maps
// through unchanged.  All selections are mask-based.
func ScalarMul3Pt(curve *CurveParams, xP, xQ, xPQ *fp751.ExtensionFieldElement, nbits int, scalar []byte) ProjectivePoint {
	cached := curve.Cached()

	var u, v, w ProjectivePoint
	u.SetIdentity()
	v.FromAffine(xQ)
	w.FromAffine(xP)

	var dP, dQ, dPQ ProjectivePoint
	dP.FromAffine(xP)
	dQ.FromAffine(xQ)
	dPQ.FromAffine(xPQ)

	// Invariant before each step, with k the processed prefix of m:
	// u = [k]Q, v = [k+1]Q, w = P + [k]Q.
	//
	// bit 0: (u,v,w) <- (2u, u+v, w+u)   diffs (xQ, xP)
	// bit 1: (u,v,w) <- (u+v, 2v, v+w)   diffs (xQ, xPQ)
	// Both are the same schedule on the rotated triple (v, w, u).
	for i := nbits - 1; i >= 0; i-- {
		bit := scalarBit(scalar, i)

		// rotate (u,v,w) -> (v,w,u) when bit is set
		conditionalSwapPoints(&u, &v, bit)
		conditionalSwapPoints(&v, &w, bit)
		var d12, d31 ProjectivePoint
		d12 = dQ
		conditionalAssignPoint(&d12, &dPQ, bit)
		d31 = dP
		conditionalAssignPoint(&d31, &dQ, bit)

		var s1, s2, s3 ProjectivePoint
		DblAdd(&s1, &s2, &u, &v, &d12, &cached)
		s3.Add(&w, &u, &d31)
		u, v, w = s1, s2, s3

		// rotate back
		conditionalSwapPoints(&v, &w, bit)
		conditionalSwapPoints(&u, &v, bit)
	}
	return w
}

// Ladder computes ([m]P, [m+1]P) x-only for a public scalar, scanning all
// nbits bits from bit nbits-1 down; leading zero bits keep (identity, P).
// It branches on the scalar bits, so it is variable time.
func Ladder(xP *fp751.ExtensionFieldElement, scalar []byte, nbits int, curve *CurveParams) (r0, r1 ProjectivePoint) {
	cached := curve.Cached()
	var d ProjectivePoint
	d.FromAffine(xP)
	r0.SetIdentity()
	r1.FromAffine(xP)
	for i := nbits - 1; i >= 0; i-- {
		if scalarBit(scalar, i) == 1 {
			r0.Add(&r0, &r1, &d)
			r1.Double(&r1, &cached)
		} else {
			r1.Add(&r0, &r1, &d)
			r0.Double(&r0, &cached)
		}
	}
	return
}

// Prime field ladder for the secret point computation on E0, which runs
// entirely over GF(p).  Constant time over the scalar.

func primeDouble(dest, p *ProjectivePrimeFieldPoint, a24, c24 *fp751.PrimeFieldElement) {
	var t0, t1, t2, x2, z2 fp751.PrimeFieldElement
	t0.Sub(&p.X, &p.Z)
	t0.Square(&t0)
	t1.Add(&p.X, &p.Z)
	t1.Square(&t1)
	x2.Mul(c24, &t0)
	x2.Mul(&x2, &t1)
	t2.Sub(&t1, &t0)
	t1.Mul(a24, &t2)
	t0.Mul(c24, &t0)
	t1.Add(&t0, &t1)
	z2.Mul(&t1, &t2)
	dest.X = x2
	dest.Z = z2
}

func primeAdd(dest, p, q, pMinusQ *ProjectivePrimeFieldPoint) {
	var a, b, t0, t1 fp751.PrimeFieldElement
	t0.Sub(&p.X, &p.Z)
	t1.Add(&q.X, &q.Z)
	a.Mul(&t0, &t1)
	t0.Add(&p.X, &p.Z)
	t1.Sub(&q.X, &q.Z)
	b.Mul(&t0, &t1)
	t0.Add(&a, &b)
	t0.Square(&t0)
	t1.Sub(&a, &b)
	t1.Square(&t1)
	var x3, z3 fp751.PrimeFieldElement
	x3.Mul(&pMinusQ.Z, &t0)
	z3.Mul(&pMinusQ.X, &t1)
	dest.X = x3
	dest.Z = z3
}

func primeConditionalSwap(p, q *ProjectivePrimeFieldPoint, choice uint8) {
	fp751.ConditionalSwap(&p.X.A, &q.X.A, choice)
	fp751.ConditionalSwap(&p.Z.A, &q.Z.A, choice)
}

// primeFieldLadder computes ([m]P, [m+1]P) over GF(p) on E0 in constant time,
// running exactly nbits iterations.
func primeFieldLadder(xP *fp751.PrimeFieldElement, scalar []byte, nbits int) (r0, r1 ProjectivePrimeFieldPoint) {
	var a24, c24 fp751.PrimeFieldElement
	a24.SetUint64(2) // A = 0, C = 1: A24 = 2, C24 = 4
	c24.SetUint64(4)

	var d ProjectivePrimeFieldPoint
	d.X = *xP
	d.Z.SetOne()
	r0.X.SetOne()
	r0.Z.SetZero()
	r1 = d

	// standard swap-form ladder: swap when the bit differs from the previous
	prev := uint8(0)
	for i := nbits - 1; i >= 0; i-- {
		bit := scalarBit(scalar, i)
		primeConditionalSwap(&r0, &r1, prev^bit)
		prev = bit
		// now (r0, r1) is ordered so this is always the bit = 0 step
		var s0, s1 ProjectivePrimeFieldPoint
		primeAdd(&s1, &r0, &r1, &d)
		primeDouble(&s0, &r0, &a24, &c24)
		r0, r1 = s0, s1
	}
	primeConditionalSwap(&r0, &r1, prev)
	return
}
