package fp751

import "math/bits"

// ElementBytes is the wire size of a GF(p) element: 12 limbs, little-endian.
const ElementBytes = 96

// ExtensionBytes is the wire size of a GF(p^2) element: A then B.
const ExtensionBytes = 2 * ElementBytes

// FromMontgomery strips the Montgomery factor: dest = x / R mod p, strongly
// reduced.
func FromMontgomery(dest *Element, x *Element) {
	var wide ElementX2
	copy(wide[:NumWords], x[:])
	MontgomeryReduce(dest, &wide)
	StrongReduce(dest)
}

// ToMontgomery sets dest = x * R mod p.
func ToMontgomery(dest *Element, x *Element) {
	var wide ElementX2
	Mul(&wide, x, &montgomeryRsq)
	MontgomeryReduce(dest, &wide)
}

// ToBytes writes the canonical 192-byte encoding of x into output.
// Panics if the buffer is too short.
func (x *ExtensionFieldElement) ToBytes(output []byte) {
	if len(output) < ExtensionBytes {
		panic("fp751: output byte slice too short")
	}
	var a, b Element
	FromMontgomery(&a, &x.A)
	FromMontgomery(&b, &x.B)
	for i := 0; i < ElementBytes; i++ {
		j := i / 8
		k := uint64(i % 8)
		output[i] = byte(a[j] >> (8 * k))
		output[i+ElementBytes] = byte(b[j] >> (8 * k))
	}
}

// FromBytes reads a 192-byte encoding.  Panics if the input is too short.
func (x *ExtensionFieldElement) FromBytes(input []byte) {
	if len(input) < ExtensionBytes {
		panic("fp751: input byte slice too short")
	}
	var a, b Element
	for i := 0; i < ElementBytes; i++ {
		j := i / 8
		k := uint64(i % 8)
		a[j] |= uint64(input[i]) << (8 * k)
		b[j] |= uint64(input[i+ElementBytes]) << (8 * k)
	}
	ToMontgomery(&x.A, &a)
	ToMontgomery(&x.B, &b)
}

// Lt3e238Mask returns an all-ones mask when the 379-bit scalar x (6 limbs,
// little-endian) is >= 3^238, and zero otherwise.  Used for rejection sampling
// of Bob's secret scalar; variable time is fine there since a rejected sample
// is discarded.
func Lt3e238Mask(x *[6]uint64) uint64 {
	var b uint64
	for i := 0; i < 6; i++ {
		_, b = bits.Sub64(x[i], three238[i], b)
	}
	// b = 1 iff x < 3^238
	return b - 1
}

// MulByThree multiplies the 379-bit scalar x (6 limbs) by three in place.
func MulByThree(x *[6]uint64) {
	var t [6]uint64
	var c uint64
	for i := 0; i < 6; i++ {
		t[i], c = bits.Add64(x[i], x[i], c)
	}
	c = 0
	for i := 0; i < 6; i++ {
		x[i], c = bits.Add64(t[i], x[i], c)
	}
}
