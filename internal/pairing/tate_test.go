package pairing

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
)

func e0Coefficient() fp751.ExtensionFieldElement {
	var a fp751.ExtensionFieldElement
	return a // A = 0: the starting curve y^2 = x^3 + x
}

// cycloPowBig raises a norm-one element to a positive big integer exponent.
func cycloPowBig(x *fp751.ExtensionFieldElement, k *big.Int) fp751.ExtensionFieldElement {
	var acc fp751.ExtensionFieldElement
	acc.SetOne()
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc.CyclotomicSquare(&acc)
		if k.Bit(i) == 1 {
			acc.Mul(&acc, x)
		}
	}
	return acc
}

func TestTwoTorsionBasisAndPairing(t *testing.T) {
	assert := require.New(t)
	a := e0Coefficient()

	r1, r2, err := GenerateTwoTorsionBasis(&a)
	assert.NoError(err)

	// both basis points have exact order 2^372
	curve := isogeny.CurveParams{A: a}
	curve.C.SetOne()
	for _, p := range []*isogeny.AffinePoint{&r1, &r2} {
		tp := twoTorsionX(p, &curve)
		assert.False(tp.IsIdentity(), "order below 2^372")
		cached := curve.Cached()
		var o isogeny.ProjectivePoint
		o.DoubleN(&tp, &cached, 1)
		assert.True(o.IsIdentity(), "order above 2^372")
	}

	g, err := PairOne(&r1, &r2, &a, 2, 372)
	assert.NoError(err)
	assert.True(g.InCyclotomicSubgroup())

	// e(R1, R2) must have exact order 2^372
	var tpow fp751.ExtensionFieldElement
	tpow.CyclotomicPow2k(&g, 371)
	assert.False(tpow.IsOne(), "pairing is degenerate")
	tpow.CyclotomicSquare(&tpow)
	assert.True(tpow.IsOne(), "pairing value is off the 2-power subgroup")

	// bilinearity: e(R1, [k]R2) = g^k
	full2 := fullPoint{X: r2.X, Y: r2.Y}
	full2.Z.SetOne()
	k := big.NewInt(23)
	kr2 := fullScalarMul(&full2, k, &a)
	kr2aff, ok := kr2.toAffine()
	assert.True(ok)
	gk, err := PairOne(&r1, &kr2aff, &a, 2, 372)
	assert.NoError(err)
	want := cycloPowBig(&g, k)
	assert.True(gk.VartimeEq(&want), "pairing is not bilinear")
}

func TestThreeTorsionBasisAndPairing(t *testing.T) {
	assert := require.New(t)
	a := e0Coefficient()

	r1, r2, err := GenerateThreeTorsionBasis(&a)
	assert.NoError(err)

	curve := isogeny.CurveParams{A: a}
	curve.C.SetOne()
	cached := curve.Cached()
	for _, p := range []*isogeny.AffinePoint{&r1, &r2} {
		var xp, tp isogeny.ProjectivePoint
		xp.FromAffine(&p.X)
		tp.TripleN(&xp, &cached, 238)
		assert.False(tp.IsIdentity(), "order below 3^239")
		var o isogeny.ProjectivePoint
		o.TripleN(&tp, &cached, 1)
		assert.True(o.IsIdentity(), "order above 3^239")
	}

	g, err := PairOne(&r1, &r2, &a, 3, 239)
	assert.NoError(err)
	assert.True(g.InCyclotomicSubgroup())
	assert.False(g.IsCube(), "basis pairing must generate the full subgroup")

	var tpow fp751.ExtensionFieldElement
	tpow.CyclotomicPow3k(&g, 238)
	assert.False(tpow.IsOne())
	tpow.CyclotomicCube(&tpow)
	assert.True(tpow.IsOne())
}

func TestPohligHellmanRecoversExponents(t *testing.T) {
	assert := require.New(t)
	a := e0Coefficient()

	r1, r2, err := GenerateTwoTorsionBasis(&a)
	assert.NoError(err)
	g2, err := PairOne(&r1, &r2, &a, 2, 372)
	assert.NoError(err)

	order2 := new(big.Int).Lsh(big.NewInt(1), 372)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 3; i++ {
		alpha := new(big.Int).Rand(rng, order2)
		r := cycloPowBig(&g2, alpha)
		got, err := PohligHellman2(&g2, &r)
		assert.NoError(err)
		assert.Zero(got.Cmp(alpha), "ell = 2 dlog mismatch")
	}

	s1, s2, err := GenerateThreeTorsionBasis(&a)
	assert.NoError(err)
	g3, err := PairOne(&s1, &s2, &a, 3, 239)
	assert.NoError(err)

	order3 := new(big.Int).Exp(big.NewInt(3), big.NewInt(239), nil)
	for i := 0; i < 3; i++ {
		alpha := new(big.Int).Rand(rng, order3)
		r := cycloPowBig(&g3, alpha)
		got, err := PohligHellman3(&g3, &r)
		assert.NoError(err)
		assert.Zero(got.Cmp(alpha), "ell = 3 dlog mismatch")
	}
}

func TestBasisIsDeterministic(t *testing.T) {
	assert := require.New(t)
	a := e0Coefficient()
	r1a, r2a, err := GenerateTwoTorsionBasis(&a)
	assert.NoError(err)
	r1b, r2b, err := GenerateTwoTorsionBasis(&a)
	assert.NoError(err)
	assert.True(r1a.X.VartimeEq(&r1b.X) && r1a.Y.VartimeEq(&r1b.Y))
	assert.True(r2a.X.VartimeEq(&r2b.X) && r2a.Y.VartimeEq(&r2b.Y))
}
