package fp751

// PrimeFieldElement is an element of GF(p) in Montgomery form: the value a is
// represented by a*R mod p.
type PrimeFieldElement struct {
	A Element
}

// SetUint64 sets dest to the small integer x.
// Returns dest to allow chaining operations.
func (dest *PrimeFieldElement) SetUint64(x uint64) *PrimeFieldElement {
	var xRR ElementX2
	dest.A = Element{}
	dest.A[0] = x
	Mul(&xRR, &dest.A, &montgomeryRsq)
	MontgomeryReduce(&dest.A, &xRR)
	return dest
}

// SetOne sets dest to 1 (in Montgomery form).
func (dest *PrimeFieldElement) SetOne() *PrimeFieldElement {
	dest.A = montgomeryR
	return dest
}

// SetZero sets dest to 0.
func (dest *PrimeFieldElement) SetZero() *PrimeFieldElement {
	dest.A = Element{}
	return dest
}

// Mul sets dest = lhs * rhs.  Allowed to overlap.
// Returns dest to allow chaining operations.
func (dest *PrimeFieldElement) Mul(lhs, rhs *PrimeFieldElement) *PrimeFieldElement {
	var ab ElementX2
	Mul(&ab, &lhs.A, &rhs.A)
	MontgomeryReduce(&dest.A, &ab)
	return dest
}

// Square sets dest = x^2.
func (dest *PrimeFieldElement) Square(x *PrimeFieldElement) *PrimeFieldElement {
	return dest.Mul(x, x)
}

// Pow2k sets dest = x^(2^k) by k repeated squarings, k >= 1.
func (dest *PrimeFieldElement) Pow2k(x *PrimeFieldElement, k uint8) *PrimeFieldElement {
	dest.Square(x)
	for i := uint8(1); i < k; i++ {
		dest.Square(dest)
	}
	return dest
}

// Add sets dest = lhs + rhs.
func (dest *PrimeFieldElement) Add(lhs, rhs *PrimeFieldElement) *PrimeFieldElement {
	AddReduced(&dest.A, &lhs.A, &rhs.A)
	return dest
}

// Sub sets dest = lhs - rhs.
func (dest *PrimeFieldElement) Sub(lhs, rhs *PrimeFieldElement) *PrimeFieldElement {
	SubReduced(&dest.A, &lhs.A, &rhs.A)
	return dest
}

// Neg sets dest = -x.
func (dest *PrimeFieldElement) Neg(x *PrimeFieldElement) *PrimeFieldElement {
	var zero PrimeFieldElement
	return dest.Sub(&zero, x)
}

// Inv sets dest = 1/x via the binary Montgomery inverse.  Variable time.
func (dest *PrimeFieldElement) Inv(x *PrimeFieldElement) *PrimeFieldElement {
	Inv(&dest.A, &x.A)
	return dest
}

// Sqrt sets dest = sqrt(x), assuming x is a square: since p = 3 mod 4 this is
// x^((p+1)/4) = x * x^((p-3)/4).  If x is nonsquare, dest is undefined.
func (dest *PrimeFieldElement) Sqrt(x *PrimeFieldElement) *PrimeFieldElement {
	tmp := *x
	dest.P34(x)
	return dest.Mul(dest, &tmp)
}

// VartimeIsSquare reports whether x is a quadratic residue, by computing the
// Legendre symbol x^((p-1)/2) = x^((p-3)/4) * x^((p+1)/4) = p34(x)^2 * x.
func (x *PrimeFieldElement) VartimeIsSquare() bool {
	var t PrimeFieldElement
	t.P34(x)
	t.Square(&t)
	t.Mul(&t, x)
	return t.A.vartimeEq(montgomeryR)
}

// VartimeEq returns true if lhs = rhs.  Takes variable time.
func (lhs *PrimeFieldElement) VartimeEq(rhs *PrimeFieldElement) bool {
	return lhs.A.vartimeEq(rhs.A)
}

// IsZero reports whether x is zero.  Takes variable time.
func (x *PrimeFieldElement) IsZero() bool {
	return x.A.isZero()
}

// P34 sets dest = x^((p-3)/4).
//
// The sliding-window chain below performs sum(powStrategy) = 744 squarings and
// 137 + 15 multiplications; it was computed once for this exponent and should
// not be edited by hand.
func (dest *PrimeFieldElement) P34(x *PrimeFieldElement) *PrimeFieldElement {
	powStrategy := [137]uint8{5, 7, 6, 2, 10, 4, 6, 9, 8, 5, 9, 4, 7, 5, 5, 4, 8, 3, 9, 5, 5, 4, 10, 4, 6, 6, 6, 5, 8, 9, 3, 4, 9, 4, 5, 6, 6, 2, 9, 4, 5, 5, 5, 7, 7, 9, 4, 6, 4, 8, 5, 8, 6, 6, 2, 9, 7, 4, 8, 8, 8, 4, 6, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 2}
	mulStrategy := [137]uint8{31, 23, 21, 1, 31, 7, 7, 7, 9, 9, 19, 15, 23, 23, 11, 7, 25, 5, 21, 17, 11, 5, 17, 7, 11, 9, 23, 9, 1, 19, 5, 3, 25, 15, 11, 29, 31, 1, 29, 11, 13, 9, 11, 27, 13, 19, 15, 31, 3, 29, 23, 31, 25, 11, 1, 21, 19, 15, 15, 21, 29, 13, 23, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 31, 3}
	initialMul := uint8(27)

	// lookup table of odd powers: lookup[i] = x^(2i+1)
	var lookup [16]PrimeFieldElement
	var xx PrimeFieldElement
	xx.Square(x)
	lookup[0] = *x
	for i := 1; i < 16; i++ {
		lookup[i].Mul(&lookup[i-1], &xx)
	}

	*dest = lookup[initialMul/2]
	for i := 0; i < 137; i++ {
		dest.Pow2k(dest, powStrategy[i])
		dest.Mul(dest, &lookup[mulStrategy[i]/2])
	}
	return dest
}
