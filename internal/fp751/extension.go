package fp751

// ExtensionFieldElement is an element a + b*i of GF(p^2) = GF(p)[i]/(i^2+1),
// with both coordinates in Montgomery form.  The coordinate pair is a fixed
// layout, never a sparse polynomial.
type ExtensionFieldElement struct {
	A Element
	B Element
}

// Mul sets dest = lhs * rhs using Karatsuba (3 base field multiplications).
// Allowed to overlap lhs or rhs with dest.
// Returns dest to allow chaining operations.
func (dest *ExtensionFieldElement) Mul(lhs, rhs *ExtensionFieldElement) *ExtensionFieldElement {
	a, b := &lhs.A, &lhs.B
	c, d := &rhs.A, &rhs.B

	// (a+bi)*(c+di) = (ac - bd) + (ad + bc)i, with
	// ad + bc = (b-a)*(c-d) + ac + bd.
	var ac, bd ElementX2
	Mul(&ac, a, c)
	Mul(&bd, b, d)

	var bMinusA, cMinusD Element
	SubReduced(&bMinusA, b, a)
	SubReduced(&cMinusD, c, d)

	var adPlusBc ElementX2
	Mul(&adPlusBc, &bMinusA, &cMinusD)
	X2AddLazy(&adPlusBc, &adPlusBc, &ac)
	X2AddLazy(&adPlusBc, &adPlusBc, &bd)
	MontgomeryReduce(&dest.B, &adPlusBc)

	var acMinusBd ElementX2
	X2SubLazy(&acMinusBd, &ac, &bd)
	MontgomeryReduce(&dest.A, &acMinusBd)

	return dest
}

// Square sets dest = x^2.  Allowed to overlap.
// Returns dest to allow chaining operations.
func (dest *ExtensionFieldElement) Square(x *ExtensionFieldElement) *ExtensionFieldElement {
	a, b := &x.A, &x.B

	// (a+bi)^2 = (a+b)(a-b) + 2abi
	var a2, aPlusB, aMinusB Element
	AddReduced(&a2, a, a)
	AddReduced(&aPlusB, a, b)
	SubReduced(&aMinusB, a, b)

	var asqMinusBsq, ab2 ElementX2
	Mul(&asqMinusBsq, &aPlusB, &aMinusB)
	Mul(&ab2, &a2, b)

	MontgomeryReduce(&dest.A, &asqMinusBsq)
	MontgomeryReduce(&dest.B, &ab2)
	return dest
}

// Cube sets dest = x^3 at a cost of two squarings and two multiplications in
// the base field chain: (a+bi)^3 = a(a^2-3b^2) + b(3a^2-b^2)i.
func (dest *ExtensionFieldElement) Cube(x *ExtensionFieldElement) *ExtensionFieldElement {
	a, b := &x.A, &x.B

	var asq, bsq ElementX2
	Mul(&asq, a, a)
	Mul(&bsq, b, b)
	var s1, s2 Element
	MontgomeryReduce(&s1, &asq) // a^2
	MontgomeryReduce(&s2, &bsq) // b^2

	var t0, t1 Element
	AddReduced(&t0, &s2, &s2)
	AddReduced(&t0, &t0, &s2)
	SubReduced(&t0, &s1, &t0) // a^2 - 3b^2
	AddReduced(&t1, &s1, &s1)
	AddReduced(&t1, &t1, &s1)
	SubReduced(&t1, &t1, &s2) // 3a^2 - b^2

	var u ElementX2
	Mul(&u, a, &t0)
	MontgomeryReduce(&dest.A, &u)
	Mul(&u, b, &t1)
	MontgomeryReduce(&dest.B, &u)
	return dest
}

// Add sets dest = lhs + rhs.
func (dest *ExtensionFieldElement) Add(lhs, rhs *ExtensionFieldElement) *ExtensionFieldElement {
	AddReduced(&dest.A, &lhs.A, &rhs.A)
	AddReduced(&dest.B, &lhs.B, &rhs.B)
	return dest
}

// Sub sets dest = lhs - rhs.
func (dest *ExtensionFieldElement) Sub(lhs, rhs *ExtensionFieldElement) *ExtensionFieldElement {
	SubReduced(&dest.A, &lhs.A, &rhs.A)
	SubReduced(&dest.B, &lhs.B, &rhs.B)
	return dest
}

// Neg sets dest = -x.
func (dest *ExtensionFieldElement) Neg(x *ExtensionFieldElement) *ExtensionFieldElement {
	var zero ExtensionFieldElement
	return dest.Sub(&zero, x)
}

// Conj sets dest = a - bi, the GF(p^2)/GF(p) conjugate of x.
func (dest *ExtensionFieldElement) Conj(x *ExtensionFieldElement) *ExtensionFieldElement {
	var zero Element
	dest.A = x.A
	SubReduced(&dest.B, &zero, &x.B)
	return dest
}

// Inv sets dest = 1/x: for x = a + bi, 1/x = (a - bi)/(a^2 + b^2).
// Inverting zero is a caller error; the result is zero.
func (dest *ExtensionFieldElement) Inv(x *ExtensionFieldElement) *ExtensionFieldElement {
	a, b := &x.A, &x.B

	var asq, bsq ElementX2
	Mul(&asq, a, a)
	Mul(&bsq, b, b)
	X2AddLazy(&asq, &asq, &bsq)
	var normInv PrimeFieldElement
	MontgomeryReduce(&normInv.A, &asq)
	normInv.Inv(&normInv)

	var ac, minusBc ElementX2
	Mul(&ac, a, &normInv.A)
	var minusB Element
	var zero Element
	SubReduced(&minusB, &zero, b)
	Mul(&minusBc, &minusB, &normInv.A)
	MontgomeryReduce(&dest.A, &ac)
	MontgomeryReduce(&dest.B, &minusBc)
	return dest
}

// SetOne sets dest = 1.
func (dest *ExtensionFieldElement) SetOne() *ExtensionFieldElement {
	dest.A = montgomeryR
	dest.B = Element{}
	return dest
}

// SetZero sets dest = 0.
func (dest *ExtensionFieldElement) SetZero() *ExtensionFieldElement {
	dest.A = Element{}
	dest.B = Element{}
	return dest
}

// VartimeEq returns true if lhs = rhs.  Takes variable time.
func (lhs *ExtensionFieldElement) VartimeEq(rhs *ExtensionFieldElement) bool {
	return lhs.A.vartimeEq(rhs.A) && lhs.B.vartimeEq(rhs.B)
}

// IsZero reports whether x = 0.  Takes variable time.
func (x *ExtensionFieldElement) IsZero() bool {
	return x.A.isZero() && x.B.isZero()
}

// IsOne reports whether x = 1.  Takes variable time.
func (x *ExtensionFieldElement) IsOne() bool {
	return x.A.vartimeEq(montgomeryR) && x.B.isZero()
}

// ExtConditionalSwap exchanges x and y when choice = 1, in constant time.
func ExtConditionalSwap(x, y *ExtensionFieldElement, choice uint8) {
	ConditionalSwap(&x.A, &y.A, choice)
	ConditionalSwap(&x.B, &y.B, choice)
}

// ExtConditionalAssign sets x = y when choice = 1, in constant time.
func ExtConditionalAssign(x, y *ExtensionFieldElement, choice uint8) {
	ConditionalAssign(&x.A, &y.A, choice)
	ConditionalAssign(&x.B, &y.B, choice)
}

// VartimeIsSquare reports whether x is a square in GF(p^2), via the norm map:
// x is a square iff a^2 + b^2 is a quadratic residue in GF(p).
func (x *ExtensionFieldElement) VartimeIsSquare() bool {
	var asq, bsq ElementX2
	Mul(&asq, &x.A, &x.A)
	Mul(&bsq, &x.B, &x.B)
	X2AddLazy(&asq, &asq, &bsq)
	var n PrimeFieldElement
	MontgomeryReduce(&n.A, &asq)
	if n.IsZero() {
		return true
	}
	return n.VartimeIsSquare()
}
