package fp751

// Square roots in GF(p^2) for elements known (or expected) to be squares.
// The returned root is deterministic: its A coordinate has an even canonical
// representative, falling back to the B coordinate when A is zero.  Both
// parties of a key exchange must agree on this convention, since the sign is
// observable through Okeya-Sakurai recovery.

func (y *ExtensionFieldElement) normalizeSqrtSign() {
	var t Element
	if !y.A.isZero() {
		FromMontgomery(&t, &y.A)
	} else {
		FromMontgomery(&t, &y.B)
	}
	if t[0]&1 == 1 {
		y.Neg(y)
	}
}

// Sqrt sets dest to the canonical square root of u and reports whether u was
// a square.  On failure dest is unspecified.
func (dest *ExtensionFieldElement) Sqrt(u *ExtensionFieldElement) (ok bool) {
	if u.IsZero() {
		dest.SetZero()
		return true
	}

	a := PrimeFieldElement{A: u.A}
	b := PrimeFieldElement{A: u.B}
	half := PrimeFieldElement{A: montgomeryHalf}

	if b.IsZero() {
		// u is a base field value: sqrt(a) or sqrt(-a)*i
		if a.VartimeIsSquare() {
			var y0 PrimeFieldElement
			y0.Sqrt(&a)
			dest.A = y0.A
			dest.B = Element{}
		} else {
			var na, y1 PrimeFieldElement
			na.Neg(&a)
			y1.Sqrt(&na)
			dest.A = Element{}
			dest.B = y1.A
		}
		dest.normalizeSqrtSign()
		return true
	}

	// alpha = (a^2 + b^2)^((p+1)/4), a square root of the norm
	var n, alpha PrimeFieldElement
	n.Square(&a)
	var bsq PrimeFieldElement
	bsq.Square(&b)
	n.Add(&n, &bsq)
	alpha.Sqrt(&n)

	// y0^2 = (a + alpha)/2 for one of the two branches
	for branch := 0; branch < 2; branch++ {
		var t, y0 PrimeFieldElement
		if branch == 0 {
			t.Add(&a, &alpha)
		} else {
			t.Sub(&a, &alpha)
		}
		t.Mul(&t, &half)
		y0.Sqrt(&t)
		var check PrimeFieldElement
		check.Square(&y0)
		if !check.VartimeEq(&t) || y0.IsZero() {
			continue
		}
		// y1 = b / (2 y0)
		var y1, den PrimeFieldElement
		den.Add(&y0, &y0)
		den.Inv(&den)
		y1.Mul(&b, &den)
		dest.A = y0.A
		dest.B = y1.A
		var sq ExtensionFieldElement
		sq.Square(dest)
		if sq.VartimeEq(u) {
			dest.normalizeSqrtSign()
			return true
		}
	}
	return false
}

// SqrtFrac sets dest = sqrt(u/v) without a field inversion, via Hamburg's
// trick: r = sqrt(u * conj(v)) * N(v)^((p-3)/4) squares to u/v times the
// Legendre symbol of the norm N(v) in GF(p); when that symbol is -1, r is
// multiplied by i.  Reports whether u/v was a square.
func (dest *ExtensionFieldElement) SqrtFrac(u, v *ExtensionFieldElement) (ok bool) {
	var w ExtensionFieldElement
	w.Conj(v)
	w.Mul(u, &w)
	if !dest.Sqrt(&w) {
		return false
	}

	var n, s PrimeFieldElement
	n.Square(&PrimeFieldElement{A: v.A})
	var bsq PrimeFieldElement
	bsq.Square(&PrimeFieldElement{A: v.B})
	n.Add(&n, &bsq)
	s.P34(&n)

	// chi = s^2 * N(v) = N(v)^((p-1)/2), the Legendre symbol of the norm
	var chi PrimeFieldElement
	chi.Square(&s)
	chi.Mul(&chi, &n)

	var prod ElementX2
	Mul(&prod, &dest.A, &s.A)
	MontgomeryReduce(&dest.A, &prod)
	Mul(&prod, &dest.B, &s.A)
	MontgomeryReduce(&dest.B, &prod)
	if !chi.VartimeEq(&PrimeFieldElement{A: montgomeryR}) {
		// i * (a + b i) = -b + a i
		var nb PrimeFieldElement
		nb.Neg(&PrimeFieldElement{A: dest.B})
		dest.B = dest.A
		dest.A = nb.A
	}
	dest.normalizeSqrtSign()
	return true
}
