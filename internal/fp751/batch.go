package fp751

// BatchInvert sets out[i] = 1/in[i] for all i using Montgomery's simultaneous
// inversion: one field inversion plus 3(n-1) multiplications.  The slices must
// have equal length and may alias.  All inputs must be nonzero; that is a
// caller error, checked by the layers that feed public data in here.
func BatchInvert(out, in []ExtensionFieldElement) {
	n := len(in)
	if n == 0 {
		return
	}
	prods := make([]ExtensionFieldElement, n)
	prods[0] = in[0]
	for i := 1; i < n; i++ {
		prods[i].Mul(&prods[i-1], &in[i])
	}
	var acc ExtensionFieldElement
	acc.Inv(&prods[n-1])
	for i := n - 1; i >= 1; i-- {
		var t ExtensionFieldElement
		t.Mul(&acc, &prods[i-1])
		acc.Mul(&acc, &in[i])
		out[i] = t
	}
	out[0] = acc
}
