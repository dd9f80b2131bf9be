package pairing

import (
	"errors"
	"math/big"

	"github.com/nume-crypto/sidh/internal/fp751"
)

// ErrNoDigit is returned when a Pohlig-Hellman digit falls outside its window
// range; on well-typed inputs this cannot happen.
var ErrNoDigit = errors.New("pairing: pohlig-hellman digit outside window range")

// Window widths.  The total weight of the windows must equal the exponent of
// the group order: 62 * 6 = 372 and 79 * 3 + 2 = 239.
const (
	window2 = 6
	window3 = 3
)

// PohligHellman2 solves g^alpha = r in the order-2^372 cyclotomic subgroup by
// windowed digit extraction: the table powers[i] = g^(2^(6i)) is precomputed,
// each 6-bit digit is exposed by raising the running target to the cofactor
// that maps it into the order-64 subgroup, and digits are matched against the
// order-64 generator by a linear scan.
func PohligHellman2(g, r *fp751.ExtensionFieldElement) (*big.Int, error) {
	return pohligHellman(g, r, 2, 372, window2)
}

// PohligHellman3 solves g^alpha = r in the order-3^239 subgroup with windows
// of three base-3 digits (and a trailing width-2 window).
func PohligHellman3(g, r *fp751.ExtensionFieldElement) (*big.Int, error) {
	return pohligHellman(g, r, 3, 239, window3)
}

func cycloPowSmall(base *fp751.ExtensionFieldElement, k int) fp751.ExtensionFieldElement {
	var acc fp751.ExtensionFieldElement
	acc.SetOne()
	for i := 0; i < k; i++ {
		acc.Mul(&acc, base)
	}
	return acc
}

func cycloPowEll(x *fp751.ExtensionFieldElement, ell, k int) fp751.ExtensionFieldElement {
	var t fp751.ExtensionFieldElement
	if ell == 2 {
		t.CyclotomicPow2k(x, k)
	} else {
		t.CyclotomicPow3k(x, k)
	}
	return t
}

func pohligHellman(g, r *fp751.ExtensionFieldElement, ell, e, w int) (*big.Int, error) {
	nw := (e + w - 1) / w
	ellW := 1
	for i := 0; i < w; i++ {
		ellW *= ell
	}

	// powers[i] = g^(ell^(w i))
	powers := make([]fp751.ExtensionFieldElement, nw)
	powers[0] = *g
	for i := 1; i < nw; i++ {
		powers[i] = cycloPowEll(&powers[i-1], ell, w)
	}

	bigEll := big.NewInt(int64(ell))
	alpha := new(big.Int)
	shift := new(big.Int).SetInt64(1)

	s := *r
	for i := 0; i < nw; i++ {
		wi := w
		if e-w*i < w {
			wi = e - w*i
		}
		// expose the digit: t has order dividing ell^wi
		t := cycloPowEll(&s, ell, e-w*i-wi)
		// base of the order-ell^wi subgroup
		base := cycloPowEll(g, ell, e-wi)

		digits := 1
		for j := 0; j < wi; j++ {
			digits *= ell
		}
		d := -1
		var acc fp751.ExtensionFieldElement
		acc.SetOne()
		for cand := 0; cand < digits; cand++ {
			if acc.VartimeEq(&t) {
				d = cand
				break
			}
			acc.Mul(&acc, &base)
		}
		if d < 0 {
			return nil, ErrNoDigit
		}

		// alpha += d * ell^(w i)
		term := new(big.Int).Mul(big.NewInt(int64(d)), shift)
		alpha.Add(alpha, term)

		// s <- s * powers[i]^(-d)
		var gd fp751.ExtensionFieldElement
		gd = cycloPowSmall(&powers[i], d)
		gd.CyclotomicInv(&gd)
		s.Mul(&s, &gd)

		for j := 0; j < w; j++ {
			shift.Mul(shift, bigEll)
		}
	}
	return alpha, nil
}
