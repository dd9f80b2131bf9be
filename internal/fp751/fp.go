// Package fp751 implements arithmetic in GF(p) and GF(p^2) for the SIDH prime
// p = 2^372 * 3^239 - 1.
//
// Elements are held in Montgomery form with R = 2^768; values stay in [0, 2p)
// between operations and are brought to [0, p) by StrongReduce before any
// comparison or serialization.
package fp751

import "math/bits"

// NumWords is the number of 64-bit limbs in a base field element.
const NumWords = 12

// Element is a 751-bit base field value in 12 little-endian uint64 limbs.
// No particular meaning is assigned to the representation; it can hold a value
// in Montgomery form or not, which is tracked by the higher types.
type Element [NumWords]uint64

// ElementX2 holds an intermediate 1502-bit product of two Elements.
type ElementX2 [2 * NumWords]uint64

// AddReduced computes z = x + y (mod 2p).
func AddReduced(z, x, y *Element) {
	var c uint64
	for i := 0; i < NumWords; i++ {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	var b uint64
	for i := 0; i < NumWords; i++ {
		z[i], b = bits.Sub64(z[i], p751X2[i], b)
	}
	// add 2p back if the subtraction borrowed
	mask := uint64(0) - b
	c = 0
	for i := 0; i < NumWords; i++ {
		z[i], c = bits.Add64(z[i], p751X2[i]&mask, c)
	}
}

// SubReduced computes z = x - y (mod 2p).
func SubReduced(z, x, y *Element) {
	var b uint64
	for i := 0; i < NumWords; i++ {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	mask := uint64(0) - b
	var c uint64
	for i := 0; i < NumWords; i++ {
		z[i], c = bits.Add64(z[i], p751X2[i]&mask, c)
	}
}

// StrongReduce reduces x from [0, 2p) to the canonical range [0, p).
func StrongReduce(x *Element) {
	var b uint64
	for i := 0; i < NumWords; i++ {
		x[i], b = bits.Sub64(x[i], p751[i], b)
	}
	mask := uint64(0) - b
	var c uint64
	for i := 0; i < NumWords; i++ {
		x[i], c = bits.Add64(x[i], p751[i]&mask, c)
	}
}

// ConditionalSwap exchanges x and y when choice = 1, in constant time.
func ConditionalSwap(x, y *Element, choice uint8) {
	mask := uint64(0) - uint64(choice&1)
	for i := 0; i < NumWords; i++ {
		t := mask & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
}

// ConditionalAssign sets x = y when choice = 1, in constant time.
func ConditionalAssign(x, y *Element, choice uint8) {
	mask := uint64(0) - uint64(choice&1)
	for i := 0; i < NumWords; i++ {
		x[i] ^= mask & (x[i] ^ y[i])
	}
}

// comba6 computes the 768-bit product z = a * b of two 6-limb halves by
// product scanning.
func comba6(z *[12]uint64, a, b *[6]uint64) {
	var t, u, v uint64
	for i := 0; i < 11; i++ {
		lo := 0
		if i > 5 {
			lo = i - 5
		}
		hi := i
		if hi > 5 {
			hi = 5
		}
		for j := lo; j <= hi; j++ {
			mh, ml := bits.Mul64(a[j], b[i-j])
			var c uint64
			v, c = bits.Add64(ml, v, 0)
			u, c = bits.Add64(mh, u, c)
			t += c
		}
		z[i] = v
		v, u, t = u, t, 0
	}
	z[11] = v
}

// Mul computes the full 1502-bit product z = x * y using one level of
// Karatsuba over three 6x6 Comba half-products.
func Mul(z *ElementX2, x, y *Element) {
	var aL, aH, bL, bH [6]uint64
	copy(aL[:], x[:6])
	copy(aH[:], x[6:])
	copy(bL[:], y[:6])
	copy(bH[:], y[6:])

	var t0, t2, t1 [12]uint64
	comba6(&t0, &aL, &bL)
	comba6(&t2, &aH, &bH)

	var sA, sB [6]uint64
	var cA, cB uint64
	for i := 0; i < 6; i++ {
		sA[i], cA = bits.Add64(aL[i], aH[i], cA)
	}
	for i := 0; i < 6; i++ {
		sB[i], cB = bits.Add64(bL[i], bH[i], cB)
	}
	comba6(&t1, &sA, &sB)

	// complete (sA + cA*2^384)(sB + cB*2^384) in a 14-limb accumulator
	var m [14]uint64
	copy(m[:12], t1[:])
	maskA := uint64(0) - cA
	maskB := uint64(0) - cB
	var c uint64
	for i := 0; i < 6; i++ {
		m[6+i], c = bits.Add64(m[6+i], sB[i]&maskA, c)
	}
	m[12], c = bits.Add64(m[12], 0, c)
	m[13] += c
	c = 0
	for i := 0; i < 6; i++ {
		m[6+i], c = bits.Add64(m[6+i], sA[i]&maskB, c)
	}
	m[12], c = bits.Add64(m[12], 0, c)
	m[13] += c
	m[12], c = bits.Add64(m[12], 1&maskA&maskB, 0)
	m[13] += c

	// m <- m - t0 - t2 (never negative)
	var b uint64
	for i := 0; i < 12; i++ {
		m[i], b = bits.Sub64(m[i], t0[i], b)
	}
	m[12], b = bits.Sub64(m[12], 0, b)
	m[13], _ = bits.Sub64(m[13], 0, b)
	b = 0
	for i := 0; i < 12; i++ {
		m[i], b = bits.Sub64(m[i], t2[i], b)
	}
	m[12], b = bits.Sub64(m[12], 0, b)
	m[13], _ = bits.Sub64(m[13], 0, b)

	// z = t0 + m*2^384 + t2*2^768
	copy(z[:12], t0[:])
	copy(z[12:], t2[:])
	c = 0
	for i := 0; i < 14; i++ {
		z[6+i], c = bits.Add64(z[6+i], m[i], c)
	}
	for i := 20; i < 24 && c != 0; i++ {
		z[i], c = bits.Add64(z[i], 0, c)
	}
}

// montgomeryReduceZeros is the number of zero low limbs of p+1.
const montgomeryReduceZeros = 5

// MontgomeryReduce sets z = x * R^{-1} (mod 2p) with R = 2^768, using the
// special shape of p+1 (its five low limbs are zero).  Destroys x.
func MontgomeryReduce(z *Element, x *ElementX2) {
	var t, u, v uint64
	count := montgomeryReduceZeros
	for i := 0; i < NumWords; i++ {
		for j := 0; j < i; j++ {
			if j < i-count+1 {
				mh, ml := bits.Mul64(z[j], p751P1[i-j])
				var c uint64
				v, c = bits.Add64(ml, v, 0)
				u, c = bits.Add64(mh, u, c)
				t += c
			}
		}
		var c uint64
		v, c = bits.Add64(v, x[i], 0)
		u, c = bits.Add64(u, 0, c)
		t += c
		z[i] = v
		v, u, t = u, t, 0
	}
	for i := NumWords; i < 2*NumWords-1; i++ {
		if count > 0 {
			count--
		}
		for j := i - NumWords + 1; j < NumWords; j++ {
			if j < NumWords-count {
				mh, ml := bits.Mul64(z[j], p751P1[i-j])
				var c uint64
				v, c = bits.Add64(ml, v, 0)
				u, c = bits.Add64(mh, u, c)
				t += c
			}
		}
		var c uint64
		v, c = bits.Add64(v, x[i], 0)
		u, c = bits.Add64(u, 0, c)
		t += c
		z[i-NumWords] = v
		v, u, t = u, t, 0
	}
	v, _ = bits.Add64(v, x[2*NumWords-1], 0)
	z[NumWords-1] = v
}

// X2AddLazy computes z = x + y without reduction.
func X2AddLazy(z, x, y *ElementX2) {
	var c uint64
	for i := 0; i < 2*NumWords; i++ {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
}

// X2SubLazy computes z = x - y, adding p*2^768 back on borrow so the result
// stays a valid double-width representative.
func X2SubLazy(z, x, y *ElementX2) {
	var b uint64
	for i := 0; i < 2*NumWords; i++ {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	mask := uint64(0) - b
	var c uint64
	for i := NumWords; i < 2*NumWords; i++ {
		z[i], c = bits.Add64(z[i], p751[i-NumWords]&mask, c)
	}
}

func (x Element) vartimeEq(y Element) bool {
	StrongReduce(&x)
	StrongReduce(&y)
	eq := true
	for i := 0; i < NumWords; i++ {
		eq = eq && (x[i] == y[i])
	}
	return eq
}

func (x *Element) isZero() bool {
	t := *x
	StrongReduce(&t)
	var acc uint64
	for i := 0; i < NumWords; i++ {
		acc |= t[i]
	}
	return acc == 0
}
