package pairing

import (
	"errors"
	"math/big"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
)

// ErrBasisSearch is returned when the deterministic candidate walk fails to
// produce a torsion basis; on a supersingular curve this cannot happen before
// the search bound.
var ErrBasisSearch = errors.New("pairing: torsion basis search exhausted")

const basisSearchBound = 2048

var (
	cofactor3e239 = new(big.Int).Exp(big.NewInt(3), big.NewInt(239), nil)
	cofactor2e372 = new(big.Int).Lsh(big.NewInt(1), 372)
)

func isFullIdentity(p *fullPoint) bool { return p.Z.IsZero() }

func fullIdentity() fullPoint {
	var p fullPoint
	p.Y.SetOne()
	return p
}

func fullEq(p, q *fullPoint) bool {
	var l, r fp751.ExtensionFieldElement
	l.Mul(&p.X, &q.Z)
	r.Mul(&q.X, &p.Z)
	if !l.VartimeEq(&r) {
		return false
	}
	l.Mul(&p.Y, &q.Z)
	r.Mul(&q.Y, &p.Z)
	return l.VartimeEq(&r)
}

func fullNeg(p *fullPoint) fullPoint {
	n := *p
	n.Y.Neg(&p.Y)
	return n
}

// completeAdd is a complete addition on the full point representation,
// dispatching to doubling and identity handling as needed.  Variable time;
// used only on public basis candidates.
func completeAdd(p, q *fullPoint, a *fp751.ExtensionFieldElement) fullPoint {
	if isFullIdentity(p) {
		return *q
	}
	if isFullIdentity(q) {
		return *p
	}
	neg := fullNeg(q)
	if fullEq(p, &neg) {
		return fullIdentity()
	}
	if fullEq(p, q) {
		r, _, _ := fullDouble(p, a)
		return r
	}
	r, _, _ := fullAdd(p, q, a)
	return r
}

// fullScalarMul computes [k]p by double-and-add.
func fullScalarMul(p *fullPoint, k *big.Int, a *fp751.ExtensionFieldElement) fullPoint {
	acc := fullIdentity()
	base := *p
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			acc = completeAdd(&acc, &base, a)
		}
		d, _, _ := fullDouble(&base, a)
		base = d
	}
	return acc
}

func (p *fullPoint) toAffine() (isogeny.AffinePoint, bool) {
	var out isogeny.AffinePoint
	if isFullIdentity(p) {
		return out, false
	}
	var zinv fp751.ExtensionFieldElement
	zinv.Inv(&p.Z)
	out.X.Mul(&p.X, &zinv)
	out.Y.Mul(&p.Y, &zinv)
	return out, true
}

func curveRHS(x, a *fp751.ExtensionFieldElement) fp751.ExtensionFieldElement {
	var one, t, r fp751.ExtensionFieldElement
	one.SetOne()
	t.Square(x)
	r.Mul(a, x)
	r.Add(&r, &t)
	r.Add(&r, &one)
	r.Mul(&r, x)
	return r
}

// candidateX produces the alpha-th candidate x = alpha * (i + 4), so the walk
// and therefore the basis is a pure function of the curve coefficient.
func candidateX(alpha uint64) fp751.ExtensionFieldElement {
	var re, im fp751.PrimeFieldElement
	re.SetUint64(4 * alpha)
	im.SetUint64(alpha)
	var x fp751.ExtensionFieldElement
	x.A = re.A
	x.B = im.A
	return x
}

// liftCandidate turns a candidate abscissa into a cofactor-cleared full point,
// or reports that the right-hand side was not a square.
func liftCandidate(alpha uint64, a *fp751.ExtensionFieldElement, cofactor *big.Int) (isogeny.AffinePoint, bool) {
	x := candidateX(alpha)
	rhs := curveRHS(&x, a)
	if rhs.IsZero() || !rhs.VartimeIsSquare() {
		return isogeny.AffinePoint{}, false
	}
	var y fp751.ExtensionFieldElement
	if !y.Sqrt(&rhs) {
		return isogeny.AffinePoint{}, false
	}
	p := fullPoint{X: x, Y: y}
	p.Z.SetOne()
	cleared := fullScalarMul(&p, cofactor, a)
	return cleared.toAffine()
}

// twoTorsionX returns x([2^371]P) projectively, or identity.
func twoTorsionX(p *isogeny.AffinePoint, curve *isogeny.CurveParams) isogeny.ProjectivePoint {
	var xp isogeny.ProjectivePoint
	xp.FromAffine(&p.X)
	cached := curve.Cached()
	var t isogeny.ProjectivePoint
	t.DoubleN(&xp, &cached, 371)
	return t
}

// GenerateTwoTorsionBasis deterministically generates a basis (R1, R2) of the
// 2^372-torsion of E_A, with y-coordinates lifted by the canonical square
// root.  Candidates that survive cofactor clearing are accepted when they
// have exact order 2^372; the second point must additionally be independent
// of the first, which is visible on the order-2 points: X1 Z2 - X2 Z1 != 0
// after clearing down to the 2-torsion.
func GenerateTwoTorsionBasis(a *fp751.ExtensionFieldElement) (r1, r2 isogeny.AffinePoint, err error) {
	curve := isogeny.CurveParams{A: *a}
	curve.C.SetOne()

	var have1 bool
	var t1 isogeny.ProjectivePoint
	for alpha := uint64(1); alpha < basisSearchBound; alpha++ {
		p, ok := liftCandidate(alpha, a, cofactor3e239)
		if !ok {
			continue
		}
		t := twoTorsionX(&p, &curve)
		if t.IsIdentity() {
			continue // order < 2^372
		}
		if !have1 {
			r1, t1, have1 = p, t, true
			continue
		}
		if t.VartimeEq(&t1) {
			continue // same 2-torsion: dependent
		}
		r2 = p
		return
	}
	err = ErrBasisSearch
	return
}

// GenerateThreeTorsionBasis is the 3^239 analogue.  Independence of the
// second point is decided with the cube filter: the pair is a basis exactly
// when the order-3^239 Tate pairing of the two points is not a cube.
func GenerateThreeTorsionBasis(a *fp751.ExtensionFieldElement) (r1, r2 isogeny.AffinePoint, err error) {
	curve := isogeny.CurveParams{A: *a}
	curve.C.SetOne()
	cached := curve.Cached()

	var have1 bool
	for alpha := uint64(1); alpha < basisSearchBound; alpha++ {
		p, ok := liftCandidate(alpha, a, cofactor2e372)
		if !ok {
			continue
		}
		var xp, t isogeny.ProjectivePoint
		xp.FromAffine(&p.X)
		t.TripleN(&xp, &cached, 238)
		if t.IsIdentity() {
			continue // order < 3^239
		}
		if !have1 {
			r1, have1 = p, true
			continue
		}
		g, perr := PairOne(&r1, &p, a, 3, 239)
		if perr != nil {
			err = perr
			return
		}
		if g.IsCube() {
			continue // lands in the 3-torsion span of the first point
		}
		r2 = p
		return
	}
	err = ErrBasisSearch
	return
}
