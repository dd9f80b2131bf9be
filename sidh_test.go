package sidh

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	xrand "golang.org/x/exp/rand"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
)

func aliceKeyFromUint(t *testing.T, params *Params, m uint64) *PrivateKeyAlice {
	t.Helper()
	var s [SecretKeySizeAlice]byte
	for i := 0; i < 8; i++ {
		s[i] = byte(m >> (8 * uint(i)))
	}
	sk, err := NewPrivateKeyAlice(params, s[:])
	require.NoError(t, err)
	return sk
}

func bobKeyFromUint(t *testing.T, params *Params, m uint64) *PrivateKeyBob {
	t.Helper()
	var s [SecretKeySizeBob]byte
	for i := 0; i < 8; i++ {
		s[i] = byte(m >> (8 * uint(i)))
	}
	sk, err := NewPrivateKeyBob(params, s[:])
	require.NoError(t, err)
	return sk
}

func bigToScalar(x *big.Int, size int) []byte {
	be := x.Bytes()
	le := make([]byte, size)
	for i := range be {
		le[i] = be[len(be)-1-i]
	}
	return le
}

func TestSharedSecretMinimalKeys(t *testing.T) {
	assert := require.New(t)
	params := P751()

	skA := aliceKeyFromUint(t, params, 2)
	skB := bobKeyFromUint(t, params, 3)

	pkA := skA.PublicKey()
	pkB := skB.PublicKey()

	ssA, err := skA.SharedSecret(pkB)
	assert.NoError(err)
	ssB, err := skB.SharedSecret(pkA)
	assert.NoError(err)
	assert.Equal(ssA, ssB, "minimal-key shared secrets disagree")
	assert.Len(ssA, SharedSecretSize)
}

func TestSharedSecretRandomKeys(t *testing.T) {
	assert := require.New(t)
	params := P751()

	skA, err := GenerateKeyAlice(params, rand.Reader)
	assert.NoError(err)
	skB, err := GenerateKeyBob(params, rand.Reader)
	assert.NoError(err)

	pkA := skA.PublicKey()
	pkB := skB.PublicKey()

	ssA, err := skA.SharedSecret(pkB)
	assert.NoError(err)
	ssB, err := skB.SharedSecret(pkA)
	assert.NoError(err)
	assert.Equal(ssA, ssB)
}

func TestSharedSecretEdgeKeys(t *testing.T) {
	assert := require.New(t)
	params := P751()

	// largest legal keys: 2^372 - 2 and 3^239 - 3
	mA := new(big.Int).Sub(params.OrderAlice, big.NewInt(2))
	mB := new(big.Int).Sub(params.OrderBob, big.NewInt(3))
	skA, err := NewPrivateKeyAlice(params, bigToScalar(mA, SecretKeySizeAlice))
	assert.NoError(err)
	skB, err := NewPrivateKeyBob(params, bigToScalar(mB, SecretKeySizeBob))
	assert.NoError(err)

	pkA := skA.PublicKey()
	pkB := skB.PublicKey()
	ssA, err := skA.SharedSecret(pkB)
	assert.NoError(err)
	ssB, err := skB.SharedSecret(pkA)
	assert.NoError(err)
	assert.Equal(ssA, ssB)
}

func TestSimpleTraversalMatchesStrategy(t *testing.T) {
	assert := require.New(t)
	params := P751()

	skA := aliceKeyFromUint(t, params, 0xace2)
	skB := bobKeyFromUint(t, params, 3*0x1b0b)

	pkAf := skA.PublicKey()
	pkAs := skA.PublicKey(WithSimpleTraversal())
	assert.Equal(pkAf.Export(), pkAs.Export(), "alice simple and fast keygen differ")

	pkBf := skB.PublicKey()
	pkBs := skB.PublicKey(WithSimpleTraversal())
	assert.Equal(pkBf.Export(), pkBs.Export(), "bob simple and fast keygen differ")

	ssF, err := skA.SharedSecret(pkBf)
	assert.NoError(err)
	ssS, err := skA.SharedSecret(pkBf, WithSimpleTraversal())
	assert.NoError(err)
	assert.Equal(ssF, ssS)

	ssBF, err := skB.SharedSecret(pkAf)
	assert.NoError(err)
	ssBS, err := skB.SharedSecret(pkAf, WithSimpleTraversal())
	assert.NoError(err)
	assert.Equal(ssBF, ssBS)
	assert.Equal(ssF, ssBF)
}

func TestExchangeDeterministicUnderFixedSeed(t *testing.T) {
	assert := require.New(t)
	params := P751()

	run := func(seed uint64) ([]byte, []byte, []byte) {
		rng := xrand.New(xrand.NewSource(seed))
		skA, err := GenerateKeyAlice(params, rng)
		assert.NoError(err)
		skB, err := GenerateKeyBob(params, rng)
		assert.NoError(err)
		pkA := skA.PublicKey()
		pkB := skB.PublicKey()
		ss, err := skA.SharedSecret(pkB)
		assert.NoError(err)
		return pkA.Export(), pkB.Export(), ss
	}

	a1, b1, s1 := run(42)
	a2, b2, s2 := run(42)
	assert.True(bytes.Equal(a1, a2), "public keys must be byte-identical under a fixed seed")
	assert.True(bytes.Equal(b1, b2))
	assert.True(bytes.Equal(s1, s2))
}

func TestSecretPointAgreesWithThreePointLadder(t *testing.T) {
	assert := require.New(t)
	params := P751()

	// On E0 the keygen kernel x(P + [m]tau(P)) computed over the base field
	// must agree with the generic three-point ladder on (xP, -xP, distort).
	curve := isogeny.CurveParams{}
	curve.C.SetOne()

	var xP, xQ fp751.ExtensionFieldElement
	xP.A = params.XPA.A
	var neg fp751.PrimeFieldElement
	neg.Neg(&params.XPA)
	xQ.A = neg.A
	xPQp := isogeny.DistortAndDifference(&params.XPA)
	xPQ := xPQp.Affine()

	for _, m := range []uint64{2, 8, 0xdeadbe} {
		scalar := make([]byte, SecretKeySizeAlice)
		for i := 0; i < 8; i++ {
			scalar[i] = byte(m >> (8 * uint(i)))
		}
		fromLadder := isogeny.ScalarMul3Pt(&curve, &xP, &xQ, &xPQ, EA, scalar)
		fromSecret := isogeny.SecretPoint(&params.XPA, &params.YPA, scalar, EA)
		assert.True(fromLadder.VartimeEq(&fromSecret), "m=%d", m)
	}
}

func TestBasePointOrders(t *testing.T) {
	assert := require.New(t)
	params := P751()
	curve := isogeny.CurveParams{}
	curve.C.SetOne()
	cached := curve.Cached()

	var xPA fp751.ExtensionFieldElement
	xPA.A = params.XPA.A
	var p, tp isogeny.ProjectivePoint
	p.FromAffine(&xPA)
	tp.DoubleN(&p, &cached, EA-1)
	assert.False(tp.IsIdentity(), "PA order divides 2^371")
	tp.Double(&tp, &cached)
	assert.True(tp.IsIdentity(), "PA order does not divide 2^372")

	var xPB fp751.ExtensionFieldElement
	xPB.A = params.XPB.A
	p.FromAffine(&xPB)
	tp.TripleN(&p, &cached, EB-1)
	assert.False(tp.IsIdentity(), "PB order divides 3^238")
	tp.Triple(&tp, &cached)
	assert.True(tp.IsIdentity(), "PB order does not divide 3^239")
}

func TestMalformedPublicKeyDetection(t *testing.T) {
	assert := require.New(t)
	params := P751()

	skA := aliceKeyFromUint(t, params, 2)
	skB := bobKeyFromUint(t, params, 3)
	pkB := skB.PublicKey()

	// clobber x(Q - P) so the ladder output leaves the 2^372-torsion
	var junk fp751.ExtensionFieldElement
	var t0 fp751.PrimeFieldElement
	t0.SetUint64(0x5eed)
	junk.A = t0.A
	t0.SetUint64(0xbad)
	junk.B = t0.A
	pkB.XQmP = junk

	_, err := skA.SharedSecret(pkB, WithKernelOrderCheck())
	assert.Error(err)
	assert.True(errors.Is(err, ErrParameterMismatch), "want ErrParameterMismatch, got %v", err)

	// without the order check the walk completes but the secrets disagree
	ssA, err := skA.SharedSecret(pkB)
	assert.NoError(err)
	pkA := skA.PublicKey()
	ssB, err := skB.SharedSecret(pkA)
	assert.NoError(err)
	assert.NotEqual(ssA, ssB)
}

func TestPrivateKeyValidation(t *testing.T) {
	assert := require.New(t)
	params := P751()

	odd := make([]byte, SecretKeySizeAlice)
	odd[0] = 3
	_, err := NewPrivateKeyAlice(params, odd)
	assert.True(errors.Is(err, ErrParameterMismatch))

	big_ := make([]byte, SecretKeySizeAlice)
	big_[SecretKeySizeAlice-1] = 0x10
	_, err = NewPrivateKeyAlice(params, big_)
	assert.True(errors.Is(err, ErrParameterMismatch))

	_, err = NewPrivateKeyAlice(params, make([]byte, SecretKeySizeAlice))
	assert.True(errors.Is(err, ErrParameterMismatch))

	notMultiple := make([]byte, SecretKeySizeBob)
	notMultiple[0] = 4
	_, err = NewPrivateKeyBob(params, notMultiple)
	assert.True(errors.Is(err, ErrParameterMismatch))

	over := bigToScalar(params.OrderBob, SecretKeySizeBob)
	_, err = NewPrivateKeyBob(params, over)
	assert.True(errors.Is(err, ErrParameterMismatch))
}

func TestGeneratedKeysAreWellFormed(t *testing.T) {
	assert := require.New(t)
	params := P751()
	for i := 0; i < 8; i++ {
		skA, err := GenerateKeyAlice(params, rand.Reader)
		assert.NoError(err)
		_, err = NewPrivateKeyAlice(params, skA.Scalar[:])
		assert.NoError(err)

		skB, err := GenerateKeyBob(params, rand.Reader)
		assert.NoError(err)
		_, err = NewPrivateKeyBob(params, skB.Scalar[:])
		assert.NoError(err)
	}
}

func TestPrivateKeySerialization(t *testing.T) {
	assert := require.New(t)
	params := P751()

	skA, err := GenerateKeyAlice(params, rand.Reader)
	assert.NoError(err)
	bufA := skA.Export()
	assert.Len(bufA, SecretKeySizeAlice)
	var backA PrivateKeyAlice
	assert.NoError(backA.Import(bufA))
	assert.Equal(skA.Scalar, backA.Scalar)
	assert.NotNil(backA.Params())

	// an imported key is as good as the original
	pk1 := skA.PublicKey()
	pk2 := backA.PublicKey()
	assert.True(pk1.Equal(pk2))

	skB, err := GenerateKeyBob(params, rand.Reader)
	assert.NoError(err)
	bufB := skB.Export()
	assert.Len(bufB, SecretKeySizeBob)
	var backB PrivateKeyBob
	assert.NoError(backB.Import(bufB))
	assert.Equal(skB.Scalar, backB.Scalar)
	assert.Same(params, skB.Params())

	// import applies the constructor validation
	bad := make([]byte, SecretKeySizeAlice)
	bad[0] = 1
	err = backA.Import(bad)
	assert.True(errors.Is(err, ErrParameterMismatch))
	badB := make([]byte, SecretKeySizeBob)
	badB[0] = 2
	err = backB.Import(badB)
	assert.True(errors.Is(err, ErrParameterMismatch))
}

func TestPublicKeyEqual(t *testing.T) {
	assert := require.New(t)
	params := P751()

	pk1 := aliceKeyFromUint(t, params, 2).PublicKey()
	pk2 := aliceKeyFromUint(t, params, 2).PublicKey()
	pk3 := aliceKeyFromUint(t, params, 4).PublicKey()
	assert.True(pk1.Equal(pk2))
	assert.False(pk1.Equal(pk3))

	pkB1 := bobKeyFromUint(t, params, 3).PublicKey()
	pkB2 := bobKeyFromUint(t, params, 3).PublicKey()
	pkB3 := bobKeyFromUint(t, params, 6).PublicKey()
	assert.True(pkB1.Equal(pkB2))
	assert.False(pkB1.Equal(pkB3))
}

func TestPublicKeySerialization(t *testing.T) {
	assert := require.New(t)
	params := P751()

	pkA := aliceKeyFromUint(t, params, 2).PublicKey()
	buf := pkA.Export()
	assert.Len(buf, PublicKeySize)
	var back PublicKeyAlice
	assert.NoError(back.Import(buf))
	assert.Equal(buf, back.Export())

	assert.Error(back.Import(buf[:17]))
}

func BenchmarkAliceKeygen(b *testing.B) {
	params := P751()
	var s [SecretKeySizeAlice]byte
	s[0] = 2
	sk, _ := NewPrivateKeyAlice(params, s[:])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sk.PublicKey()
	}
}

func BenchmarkBobKeygen(b *testing.B) {
	params := P751()
	var s [SecretKeySizeBob]byte
	s[0] = 3
	sk, _ := NewPrivateKeyBob(params, s[:])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sk.PublicKey()
	}
}

func BenchmarkThreePointLadder(b *testing.B) {
	params := P751()
	curve := isogeny.CurveParams{}
	curve.C.SetOne()
	var xP, xQ fp751.ExtensionFieldElement
	xP.A = params.XPA.A
	var neg fp751.PrimeFieldElement
	neg.Neg(&params.XPA)
	xQ.A = neg.A
	xPQp := isogeny.DistortAndDifference(&params.XPA)
	xPQ := xPQp.Affine()
	scalar := make([]byte, SecretKeySizeAlice)
	scalar[0] = 2
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		isogeny.ScalarMul3Pt(&curve, &xP, &xQ, &xPQ, EA, scalar)
	}
}

func BenchmarkSharedSecret(b *testing.B) {
	params := P751()
	var sa [SecretKeySizeAlice]byte
	sa[0] = 2
	skA, _ := NewPrivateKeyAlice(params, sa[:])
	var sb [SecretKeySizeBob]byte
	sb[0] = 3
	skB, _ := NewPrivateKeyBob(params, sb[:])
	pkB := skB.PublicKey()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skA.SharedSecret(pkB); err != nil {
			b.Fatal(err)
		}
	}
}
