package fp751

// Operations restricted to the cyclotomic subgroup of GF(p^2)*, the elements
// of norm one (a^2 + b^2 = 1).  The pairing outputs and all Pohlig-Hellman
// work live here; inversion degenerates to conjugation and squaring and cubing
// get cheaper than their generic counterparts.

// CyclotomicSquare sets dest = x^2 for x of norm 1, using two base field
// squarings: a' = 2a^2 - 1, b' = (a+b)^2 - 1.
func (dest *ExtensionFieldElement) CyclotomicSquare(x *ExtensionFieldElement) *ExtensionFieldElement {
	var t0, t1 Element
	AddReduced(&t0, &x.A, &x.B)
	var sq ElementX2
	Mul(&sq, &t0, &t0)
	MontgomeryReduce(&t0, &sq) // (a+b)^2
	Mul(&sq, &x.A, &x.A)
	MontgomeryReduce(&t1, &sq) // a^2
	AddReduced(&t1, &t1, &t1)  // 2a^2
	SubReduced(&dest.A, &t1, &montgomeryR)
	SubReduced(&dest.B, &t0, &montgomeryR)
	return dest
}

// CyclotomicCube sets dest = x^3 for x of norm 1:
// a' = a(4a^2 - 3), b' = b(4a^2 - 1).
func (dest *ExtensionFieldElement) CyclotomicCube(x *ExtensionFieldElement) *ExtensionFieldElement {
	var asq ElementX2
	Mul(&asq, &x.A, &x.A)
	var t Element
	MontgomeryReduce(&t, &asq)
	AddReduced(&t, &t, &t)
	AddReduced(&t, &t, &t) // 4a^2

	var t0, t1 Element
	SubReduced(&t0, &t, &montgomeryR)
	SubReduced(&t1, &t0, &montgomeryR)
	SubReduced(&t1, &t1, &montgomeryR) // 4a^2 - 3
	// t0 = 4a^2 - 1

	var prod ElementX2
	Mul(&prod, &x.A, &t1)
	var newA Element
	MontgomeryReduce(&newA, &prod)
	Mul(&prod, &x.B, &t0)
	MontgomeryReduce(&dest.B, &prod)
	dest.A = newA
	return dest
}

// CyclotomicInv sets dest = 1/x for x of norm 1, which is the conjugate.
func (dest *ExtensionFieldElement) CyclotomicInv(x *ExtensionFieldElement) *ExtensionFieldElement {
	return dest.Conj(x)
}

// CyclotomicPow2k sets dest = x^(2^k) by repeated cyclotomic squarings.
func (dest *ExtensionFieldElement) CyclotomicPow2k(x *ExtensionFieldElement, k int) *ExtensionFieldElement {
	*dest = *x
	for i := 0; i < k; i++ {
		dest.CyclotomicSquare(dest)
	}
	return dest
}

// CyclotomicPow3k sets dest = x^(3^k) by repeated cyclotomic cubings.
func (dest *ExtensionFieldElement) CyclotomicPow3k(x *ExtensionFieldElement, k int) *ExtensionFieldElement {
	*dest = *x
	for i := 0; i < k; i++ {
		dest.CyclotomicCube(dest)
	}
	return dest
}

// InCyclotomicSubgroup reports whether x has norm one.
func (x *ExtensionFieldElement) InCyclotomicSubgroup() bool {
	var asq, bsq ElementX2
	Mul(&asq, &x.A, &x.A)
	Mul(&bsq, &x.B, &x.B)
	X2AddLazy(&asq, &asq, &bsq)
	var n Element
	MontgomeryReduce(&n, &asq)
	return n.vartimeEq(montgomeryR)
}

// IsCube reports whether x is a cube in GF(p^2)*: it computes
// x^((p^2-1)/3) = (xbar/x)^(2^372 * 3^238) by a conjugate-quotient into the
// cyclotomic subgroup followed by 372 cyclotomic squarings and 238 cyclotomic
// cubings, and compares against one.
func (x *ExtensionFieldElement) IsCube() bool {
	var v, c ExtensionFieldElement
	v.Inv(x)
	c.Conj(x)
	v.Mul(&v, &c)
	v.CyclotomicPow2k(&v, 372)
	v.CyclotomicPow3k(&v, 238)
	return v.IsOne()
}
