// Package pairing implements the batched order-2^372 and order-3^239 reduced
// Tate pairings, the windowed Pohlig-Hellman discrete logarithm in the
// cyclotomic subgroup, and deterministic torsion-basis generation, as used by
// public-key compression.
package pairing

import (
	"errors"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
)

// ErrNotCyclotomic is returned when a final-exponentiation residue is not in
// the norm-one subgroup.  It cannot occur on well-formed inputs.
var ErrNotCyclotomic = errors.New("pairing: final exponentiation left the cyclotomic subgroup")

// fullPoint is a projective point (X : Y : Z) on C y^2 = x^3 + A x^2 + C x
// with C = 1, carrying the y-coordinate the Miller loop needs.
type fullPoint struct {
	X, Y, Z fp751.ExtensionFieldElement
}

func fromAffine(p *isogeny.AffinePoint) fullPoint {
	var f fullPoint
	f.X = p.X
	f.Y = p.Y
	f.Z.SetOne()
	return f
}

// fullDouble doubles p and returns the tangent slope as the fraction U/W:
// U = 3X^2 + 2AXZ + Z^2, W = 2YZ.
func fullDouble(p *fullPoint, a *fp751.ExtensionFieldElement) (r fullPoint, u, w fp751.ExtensionFieldElement) {
	var xx, zz, xz, t fp751.ExtensionFieldElement
	xx.Square(&p.X)
	zz.Square(&p.Z)
	xz.Mul(&p.X, &p.Z)

	u.Add(&xx, &xx)
	u.Add(&u, &xx) // 3X^2
	t.Mul(a, &xz)
	t.Add(&t, &t) // 2AXZ
	u.Add(&u, &t)
	u.Add(&u, &zz)

	w.Mul(&p.Y, &p.Z)
	w.Add(&w, &w) // 2YZ

	var w2, usq fp751.ExtensionFieldElement
	w2.Square(&w)
	usq.Square(&u)

	// T = U^2 Z - A W^2 Z - 2 X W^2
	var tt fp751.ExtensionFieldElement
	tt.Mul(&usq, &p.Z)
	t.Mul(a, &w2)
	t.Mul(&t, &p.Z)
	tt.Sub(&tt, &t)
	t.Mul(&p.X, &w2)
	t.Add(&t, &t)
	tt.Sub(&tt, &t)

	r.X.Mul(&tt, &w)
	// Y' = U (X W^2 - T) - Y W^3
	t.Mul(&p.X, &w2)
	t.Sub(&t, &tt)
	r.Y.Mul(&u, &t)
	t.Mul(&w, &w2)
	var yw3 fp751.ExtensionFieldElement
	yw3.Mul(&p.Y, &t)
	r.Y.Sub(&r.Y, &yw3)
	// Z' = W^3 Z
	r.Z.Mul(&t, &p.Z)
	return
}

// fullAdd computes p1 + p2 and returns the chord slope u/v:
// u = Y2 Z1 - Y1 Z2, v = X2 Z1 - X1 Z2.
func fullAdd(p1, p2 *fullPoint, a *fp751.ExtensionFieldElement) (r fullPoint, u, v fp751.ExtensionFieldElement) {
	var t fp751.ExtensionFieldElement
	u.Mul(&p2.Y, &p1.Z)
	t.Mul(&p1.Y, &p2.Z)
	u.Sub(&u, &t)
	v.Mul(&p2.X, &p1.Z)
	t.Mul(&p1.X, &p2.Z)
	v.Sub(&v, &t)

	var v2, z1z2, usq fp751.ExtensionFieldElement
	v2.Square(&v)
	z1z2.Mul(&p1.Z, &p2.Z)
	usq.Square(&u)

	// T = U^2 Z1Z2 - A V^2 Z1Z2 - (X1 Z2 + X2 Z1) V^2
	var tt fp751.ExtensionFieldElement
	tt.Mul(&usq, &z1z2)
	t.Mul(a, &v2)
	t.Mul(&t, &z1z2)
	tt.Sub(&tt, &t)
	var xsum fp751.ExtensionFieldElement
	xsum.Mul(&p1.X, &p2.Z)
	t.Mul(&p2.X, &p1.Z)
	xsum.Add(&xsum, &t)
	t.Mul(&xsum, &v2)
	tt.Sub(&tt, &t)

	r.X.Mul(&tt, &v)
	// Y' = U (X1 V^2 Z2 - T) - Y1 V^3 Z2
	t.Mul(&p1.X, &v2)
	t.Mul(&t, &p2.Z)
	t.Sub(&t, &tt)
	r.Y.Mul(&u, &t)
	var v3 fp751.ExtensionFieldElement
	v3.Mul(&v, &v2)
	t.Mul(&p1.Y, &v3)
	t.Mul(&t, &p2.Z)
	r.Y.Sub(&r.Y, &t)
	// Z' = V^3 Z1 Z2
	r.Z.Mul(&v3, &z1z2)
	return
}

// accumulator is one (numerator, denominator) pair of a Miller function value.
type accumulator struct {
	n, d fp751.ExtensionFieldElement
}

// squareAndAbsorb folds an exact line/vertical pair into the accumulator
// after a squaring: n <- n^2 * lnum, d <- d^2 * dnum.
func (acc *accumulator) squareAndAbsorb(lnum, dnum *fp751.ExtensionFieldElement) {
	acc.n.Square(&acc.n)
	acc.n.Mul(&acc.n, lnum)
	acc.d.Square(&acc.d)
	acc.d.Mul(&acc.d, dnum)
}

// cubeAndAbsorb is the tripling-loop variant: n <- n^3 * lnum, d <- d^3 * dnum.
func (acc *accumulator) cubeAndAbsorb(lnum, dnum *fp751.ExtensionFieldElement) {
	var t fp751.ExtensionFieldElement
	t.Square(&acc.n)
	acc.n.Mul(&acc.n, &t)
	acc.n.Mul(&acc.n, lnum)
	t.Square(&acc.d)
	acc.d.Mul(&acc.d, &t)
	acc.d.Mul(&acc.d, dnum)
}

// lineAt evaluates the exact homogeneous line numerator through T with slope
// fraction num/den at the affine query (xq, yq):
//
//	l = den (yq Z - Y) - num (xq Z - X), with overall denominator Z*den.
func lineAt(t *fullPoint, num, den *fp751.ExtensionFieldElement, q *isogeny.AffinePoint) fp751.ExtensionFieldElement {
	var l, s, u fp751.ExtensionFieldElement
	s.Mul(&q.Y, &t.Z)
	s.Sub(&s, &t.Y)
	l.Mul(den, &s)
	u.Mul(&q.X, &t.Z)
	u.Sub(&u, &t.X)
	u.Mul(num, &u)
	l.Sub(&l, &u)
	return l
}

// verticalAt evaluates the vertical-line numerator x_q Z - X at a query;
// its denominator is Z.
func verticalAt(t *fullPoint, q *isogeny.AffinePoint) fp751.ExtensionFieldElement {
	var v, s fp751.ExtensionFieldElement
	v.Mul(&q.X, &t.Z)
	s.Sub(&v, &t.X)
	return s
}

// millerDoubling runs the doubling-only Miller loop of length e for the orbit
// of m, absorbing each iteration's shared line into every query accumulator.
// The final iteration uses the cached (X, Z) of the order-2 point, where the
// tangent degenerates to the vertical x - x_T.
func millerDoubling(m *isogeny.AffinePoint, queries []*isogeny.AffinePoint, accs []*accumulator, a *fp751.ExtensionFieldElement, e int) {
	t := fromAffine(m)
	for k := 0; k < e; k++ {
		if k != e-1 {
			t2, u, w := fullDouble(&t, a)
			var zw fp751.ExtensionFieldElement
			zw.Mul(&t.Z, &w)
			for j, q := range queries {
				l := lineAt(&t, &u, &w, q)
				l.Mul(&l, &t2.Z)
				v := verticalAt(&t2, q)
				v.Mul(&v, &zw)
				accs[j].squareAndAbsorb(&l, &v)
			}
			t = t2
		} else {
			for j, q := range queries {
				l := verticalAt(&t, q)
				accs[j].squareAndAbsorb(&l, &t.Z)
			}
		}
	}
}

// millerTripling runs the tripling-only Miller loop of length e: each step
// absorbs the parabola (tangent at T times the chord through T and 2T) over
// the verticals at 2T and 3T.  At the final order-3 point the cubed value
// times the tangent alone closes the divisor.
func millerTripling(m *isogeny.AffinePoint, queries []*isogeny.AffinePoint, accs []*accumulator, a *fp751.ExtensionFieldElement, e int) {
	t := fromAffine(m)
	for k := 0; k < e; k++ {
		t2, u, w := fullDouble(&t, a)
		if k != e-1 {
			t3, cu, cv := fullAdd(&t2, &t, a)
			var dshared fp751.ExtensionFieldElement
			dshared.Square(&t.Z)
			dshared.Mul(&dshared, &w)
			dshared.Mul(&dshared, &cv) // Z^2 W V
			var nshared fp751.ExtensionFieldElement
			nshared.Mul(&t2.Z, &t3.Z)
			for j, q := range queries {
				l1 := lineAt(&t, &u, &w, q)
				l2 := lineAt(&t, &cu, &cv, q)
				var ln fp751.ExtensionFieldElement
				ln.Mul(&l1, &l2)
				ln.Mul(&ln, &nshared)
				v2 := verticalAt(&t2, q)
				v3 := verticalAt(&t3, q)
				var dn fp751.ExtensionFieldElement
				dn.Mul(&v2, &v3)
				dn.Mul(&dn, &dshared)
				accs[j].cubeAndAbsorb(&ln, &dn)
			}
			t = t3
		} else {
			var zw fp751.ExtensionFieldElement
			zw.Mul(&t.Z, &w)
			for j, q := range queries {
				l := lineAt(&t, &u, &w, q)
				accs[j].cubeAndAbsorb(&l, &zw)
			}
		}
	}
}

// finalExponentiation reduces the accumulators to the cyclotomic subgroup and
// raises them to the torsion cofactor.  All ten numerators and denominators
// share a single simultaneous inversion:
//
//	r = (n/d)^(1-p) = n dbar / (d nbar)
//
// followed by 239 cyclotomic cubings (ell = 2 case) or 372 cyclotomic
// squarings (ell = 3 case).
func finalExponentiation(accs []*accumulator, ell int) ([]fp751.ExtensionFieldElement, error) {
	n := len(accs)
	batch := make([]fp751.ExtensionFieldElement, 0, 2*n)
	for _, acc := range accs {
		var nbar fp751.ExtensionFieldElement
		nbar.Conj(&acc.n)
		batch = append(batch, acc.d, nbar)
	}
	inv := make([]fp751.ExtensionFieldElement, len(batch))
	fp751.BatchInvert(inv, batch)

	out := make([]fp751.ExtensionFieldElement, n)
	for i, acc := range accs {
		var r, dbar fp751.ExtensionFieldElement
		dbar.Conj(&acc.d)
		r.Mul(&acc.n, &dbar)
		r.Mul(&r, &inv[2*i])   // / d
		r.Mul(&r, &inv[2*i+1]) // / nbar
		if ell == 2 {
			r.CyclotomicPow3k(&r, 239)
		} else {
			r.CyclotomicPow2k(&r, 372)
		}
		if !r.InCyclotomicSubgroup() {
			return nil, ErrNotCyclotomic
		}
		out[i] = r
	}
	return out, nil
}

// FivePairings2 computes the five order-2^372 reduced Tate pairings used by
// compression of a Bob public key on the curve E_A:
//
//	g = e(R1, R2), t0 = e(R1, phiP), t1 = e(R1, phiQ),
//	r0 = e(R2, phiP), r1 = e(R2, phiQ)
func FivePairings2(r1, r2, phiP, phiQ *isogeny.AffinePoint, a *fp751.ExtensionFieldElement) (g, t0, t1, rr0, rr1 fp751.ExtensionFieldElement, err error) {
	accs := make([]*accumulator, 5)
	for i := range accs {
		accs[i] = &accumulator{}
		accs[i].n.SetOne()
		accs[i].d.SetOne()
	}
	millerDoubling(r1, []*isogeny.AffinePoint{r2, phiP, phiQ}, accs[:3], a, 372)
	millerDoubling(r2, []*isogeny.AffinePoint{phiP, phiQ}, accs[3:], a, 372)
	out, err := finalExponentiation(accs, 2)
	if err != nil {
		return
	}
	g, t0, t1, rr0, rr1 = out[0], out[1], out[2], out[3], out[4]
	return
}

// FivePairings3 is the order-3^239 variant used by compression of an Alice
// public key.
func FivePairings3(r1, r2, phiP, phiQ *isogeny.AffinePoint, a *fp751.ExtensionFieldElement) (g, t0, t1, rr0, rr1 fp751.ExtensionFieldElement, err error) {
	accs := make([]*accumulator, 5)
	for i := range accs {
		accs[i] = &accumulator{}
		accs[i].n.SetOne()
		accs[i].d.SetOne()
	}
	millerTripling(r1, []*isogeny.AffinePoint{r2, phiP, phiQ}, accs[:3], a, 239)
	millerTripling(r2, []*isogeny.AffinePoint{phiP, phiQ}, accs[3:], a, 239)
	out, err := finalExponentiation(accs, 3)
	if err != nil {
		return
	}
	g, t0, t1, rr0, rr1 = out[0], out[1], out[2], out[3], out[4]
	return
}

// PairOne computes a single reduced Tate pairing; the 3-torsion basis search
// uses it for its cube filter.
func PairOne(m, q *isogeny.AffinePoint, a *fp751.ExtensionFieldElement, ell, e int) (fp751.ExtensionFieldElement, error) {
	acc := &accumulator{}
	acc.n.SetOne()
	acc.d.SetOne()
	if ell == 2 {
		millerDoubling(m, []*isogeny.AffinePoint{q}, []*accumulator{acc}, a, e)
	} else {
		millerTripling(m, []*isogeny.AffinePoint{q}, []*accumulator{acc}, a, e)
	}
	out, err := finalExponentiation([]*accumulator{acc}, ell)
	if err != nil {
		return fp751.ExtensionFieldElement{}, err
	}
	return out[0], nil
}
