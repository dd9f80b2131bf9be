package fp751

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func bigP() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 372)
	t := new(big.Int).Exp(big.NewInt(3), big.NewInt(239), nil)
	p.Mul(p, t)
	return p.Sub(p, big.NewInt(1))
}

func elementToBig(x *Element) *big.Int {
	out := new(big.Int)
	for i := NumWords - 1; i >= 0; i-- {
		out.Lsh(out, 64)
		out.Or(out, new(big.Int).SetUint64(x[i]))
	}
	return out
}

func bigToElement(x *big.Int) Element {
	var e Element
	t := new(big.Int).Set(x)
	mask := new(big.Int).SetUint64(^uint64(0))
	for i := 0; i < NumWords; i++ {
		e[i] = new(big.Int).And(t, mask).Uint64()
		t.Rsh(t, 64)
	}
	return e
}

func genElement() gopter.Gen {
	p := bigP()
	return func(gp *gopter.GenParameters) *gopter.GenResult {
		var e Element
		for i := 0; i < NumWords; i++ {
			e[i] = gp.Rng.Uint64()
		}
		v := elementToBig(&e)
		v.Mod(v, p)
		e = bigToElement(v)
		return gopter.NewGenResult(e, gopter.NoShrinker)
	}
}

func TestMulMatchesBigInt(t *testing.T) {
	assert := require.New(t)
	p := bigP()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(rng, p)
		b := new(big.Int).Rand(rng, p)
		ea, eb := bigToElement(a), bigToElement(b)
		var wide ElementX2
		Mul(&wide, &ea, &eb)
		got := new(big.Int)
		for j := 2*NumWords - 1; j >= 0; j-- {
			got.Lsh(got, 64)
			got.Or(got, new(big.Int).SetUint64(wide[j]))
		}
		want := new(big.Int).Mul(a, b)
		assert.Zero(got.Cmp(want), "full product mismatch at %d", i)
	}
}

func TestMontgomeryReduceMatchesBigInt(t *testing.T) {
	assert := require.New(t)
	p := bigP()
	rInv := new(big.Int).ModInverse(new(big.Int).Lsh(big.NewInt(1), 768), p)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(rng, p)
		b := new(big.Int).Rand(rng, p)
		ea, eb := bigToElement(a), bigToElement(b)
		var wide ElementX2
		Mul(&wide, &ea, &eb)
		var z Element
		MontgomeryReduce(&z, &wide)
		StrongReduce(&z)
		want := new(big.Int).Mul(a, b)
		want.Mul(want, rInv)
		want.Mod(want, p)
		assert.Zero(elementToBig(&z).Cmp(want))
	}
}

func TestFieldProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("mul is commutative after strong reduction", prop.ForAll(
		func(a, b Element) bool {
			var ab, ba ElementX2
			var l, r Element
			Mul(&ab, &a, &b)
			Mul(&ba, &b, &a)
			MontgomeryReduce(&l, &ab)
			MontgomeryReduce(&r, &ba)
			return l.vartimeEq(r)
		},
		genElement(), genElement(),
	))

	properties.Property("strong reduction is idempotent", prop.ForAll(
		func(a Element) bool {
			x := a
			StrongReduce(&x)
			y := x
			StrongReduce(&y)
			return x == y
		},
		genElement(),
	))

	properties.Property("x + (p - x) = 0", prop.ForAll(
		func(a Element) bool {
			var neg, sum Element
			var zero Element
			SubReduced(&neg, &zero, &a)
			AddReduced(&sum, &a, &neg)
			return sum.isZero()
		},
		genElement(),
	))

	properties.Property("add/sub round-trip", prop.ForAll(
		func(a, b Element) bool {
			var s, d Element
			AddReduced(&s, &a, &b)
			SubReduced(&d, &s, &b)
			return d.vartimeEq(a)
		},
		genElement(), genElement(),
	))

	properties.TestingRun(t)
}

func TestInversion(t *testing.T) {
	assert := require.New(t)
	rng := rand.New(rand.NewSource(3))
	p := bigP()
	var one PrimeFieldElement
	one.SetOne()
	for i := 0; i < 25; i++ {
		a := new(big.Int).Rand(rng, p)
		if a.Sign() == 0 {
			continue
		}
		var x, xm PrimeFieldElement
		raw := bigToElement(a)
		ToMontgomery(&xm.A, &raw)
		x.Inv(&xm)
		x.Mul(&x, &xm)
		assert.True(x.VartimeEq(&one), "x * inv(x) != 1")
	}
}

func TestMulByOneInMontgomeryForm(t *testing.T) {
	assert := require.New(t)
	var one, x, y PrimeFieldElement
	one.SetOne()
	x.SetUint64(87239271)
	y.Mul(&x, &one)
	assert.True(y.VartimeEq(&x))
}

func TestSqrtPrimeField(t *testing.T) {
	assert := require.New(t)
	var x, sq, root PrimeFieldElement
	x.SetUint64(2374012)
	sq.Square(&x)
	root.Sqrt(&sq)
	var check PrimeFieldElement
	check.Square(&root)
	assert.True(check.VartimeEq(&sq))
	assert.True(sq.VartimeIsSquare())
}

func TestScalarHelpers(t *testing.T) {
	assert := require.New(t)
	// 3^238 - 1 is below the bound, 3^238 is not
	below := [6]uint64{
		0xedcd718a828384f8, 0x733b35bfd4427a14, 0xf88229cf94d7cf38,
		0x63c56c990c7c2ad6, 0xb858a87e8f4222c7, 0x0254c9c6b525eaf5,
	}
	assert.Zero(Lt3e238Mask(&below))
	at := [6]uint64{
		0xedcd718a828384f9, 0x733b35bfd4427a14, 0xf88229cf94d7cf38,
		0x63c56c990c7c2ad6, 0xb858a87e8f4222c7, 0x0254c9c6b525eaf5,
	}
	assert.Equal(^uint64(0), Lt3e238Mask(&at))

	s := [6]uint64{5, 0, 0, 0, 0, 0}
	MulByThree(&s)
	assert.Equal(uint64(15), s[0])
}

func BenchmarkMul(b *testing.B) {
	var x, y Element
	for i := range x {
		x[i] = uint64(i + 1)
		y[i] = uint64(i + 7)
	}
	var wide ElementX2
	var z Element
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Mul(&wide, &x, &y)
		MontgomeryReduce(&z, &wide)
	}
}

func BenchmarkInv(b *testing.B) {
	var x PrimeFieldElement
	x.SetUint64(0x1234567)
	var z PrimeFieldElement
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z.Inv(&x)
	}
}
