package isogeny

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/sidh/internal/fp751"
)

func extFromUints(a, b uint64) fp751.ExtensionFieldElement {
	var pa, pb fp751.PrimeFieldElement
	pa.SetUint64(a)
	pb.SetUint64(b)
	var e fp751.ExtensionFieldElement
	e.A = pa.A
	e.B = pb.A
	return e
}

func testCurve() CurveParams {
	var c CurveParams
	c.A = extFromUints(6, 3)
	c.C.SetOne()
	return c
}

func TestJinvariantOfStartingCurve(t *testing.T) {
	assert := require.New(t)
	// E0 : y^2 = x^3 + x has j = 1728
	var e0 CurveParams
	e0.C.SetOne()
	j := e0.Jinvariant()
	want := extFromUints(1728, 0)
	assert.True(j.VartimeEq(&want))
}

func TestDoubleNMatchesRepeatedDouble(t *testing.T) {
	assert := require.New(t)
	curve := testCurve()
	cached := curve.Cached()
	var p ProjectivePoint
	x := extFromUints(17, 9)
	p.FromAffine(&x)

	var byChain, byLoop ProjectivePoint
	byChain.DoubleN(&p, &cached, 7)
	byLoop = p
	for i := 0; i < 7; i++ {
		byLoop.Double(&byLoop, &cached)
	}
	assert.True(byChain.VartimeEq(&byLoop))
}

func TestTripleMatchesDoubleAdd(t *testing.T) {
	assert := require.New(t)
	curve := testCurve()
	cached := curve.Cached()
	var p, tr, d, s ProjectivePoint
	x := extFromUints(23, 41)
	p.FromAffine(&x)

	tr.Triple(&p, &cached)
	d.Double(&p, &cached)
	s.Add(&d, &p, &p)
	assert.True(tr.VartimeEq(&s))
}

func TestLadderAgainstDoublingChain(t *testing.T) {
	assert := require.New(t)
	curve := testCurve()
	cached := curve.Cached()
	x := extFromUints(101, 55)
	var p ProjectivePoint
	p.FromAffine(&x)

	// [8]P by ladder (with leading zero bits) and by three doublings
	scalar := []byte{8, 0, 0}
	l0, _ := Ladder(&x, scalar, 20, &curve)
	var d ProjectivePoint
	d.DoubleN(&p, &cached, 3)
	assert.True(l0.VartimeEq(&d))
}

func TestThreePointLadderOnMultiples(t *testing.T) {
	assert := require.New(t)
	curve := testCurve()
	cached := curve.Cached()
	x := extFromUints(14, 3)
	var p, q ProjectivePoint
	p.FromAffine(&x)
	q.Double(&p, &cached)
	var xq fp751.ExtensionFieldElement = q.Affine()

	// with Q = [2]P and x(P-Q) = x(-P) = x(P):
	// P + [m]Q = [2m+1]P
	for _, m := range []uint64{0, 1, 2, 5, 11, 1000} {
		scalar := make([]byte, 47)
		for i := 0; i < 8; i++ {
			scalar[i] = byte(m >> (8 * uint(i)))
		}
		got := ScalarMul3Pt(&curve, &x, &xq, &x, 372, scalar)

		want := make([]byte, 6)
		k := 2*m + 1
		for i := 0; i < 6; i++ {
			want[i] = byte(k >> (8 * uint(i)))
		}
		l0, _ := Ladder(&x, want, 48, &curve)
		assert.True(got.VartimeEq(&l0), "m=%d", m)
	}
}

func TestIsogenyKernelCollapse(t *testing.T) {
	assert := require.New(t)
	var k ProjectivePoint
	x := extFromUints(77, 13)
	k.FromAffine(&x)

	phi3, _ := ComputeThreeIsogeny(&k)
	img3 := phi3.Eval(&k)
	assert.True(img3.Z.IsZero(), "3-isogeny kernel must map to the identity")

	phi4, _ := ComputeFourIsogeny(&k)
	img4 := phi4.Eval(&k)
	assert.True(img4.Z.IsZero(), "4-isogeny kernel must map to the identity")
}

func TestFirstFourIsogenyKernelCollapse(t *testing.T) {
	assert := require.New(t)
	curve := testCurve()
	phi, codomain := ComputeFirstFourIsogeny(&curve)

	var k ProjectivePoint
	one := extFromUints(1, 0)
	k.FromAffine(&one)
	img := phi.Eval(&k)
	assert.True(img.Z.IsZero(), "x = 1 generates the kernel")

	var zero ProjectivePoint
	zx := extFromUints(0, 0)
	zero.FromAffine(&zx)
	img0 := phi.Eval(&zero)
	assert.True(img0.Z.IsZero(), "(0,0) lies in the kernel")

	assert.False(codomain.C.IsZero())
}

func TestBatch3Inv(t *testing.T) {
	assert := require.New(t)
	a := extFromUints(3, 5)
	b := extFromUints(7, 11)
	c := extFromUints(13, 2)
	var ia, ib, ic fp751.ExtensionFieldElement
	Batch3Inv(&a, &b, &c, &ia, &ib, &ic)
	var want fp751.ExtensionFieldElement
	want.Inv(&a)
	assert.True(ia.VartimeEq(&want))
	want.Inv(&b)
	assert.True(ib.VartimeEq(&want))
	want.Inv(&c)
	assert.True(ic.VartimeEq(&want))
}
