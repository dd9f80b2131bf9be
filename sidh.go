// Copyright 2020 ConsenSys AG
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sidh implements ephemeral supersingular isogeny Diffie-Hellman over
// the prime p = 2^372 * 3^239 - 1 (P751), including public-key compression.
//
// Alice works in the 2^372-torsion and Bob in the 3^239-torsion of a common
// supersingular Montgomery curve; each party's secret is a walk in its isogeny
// graph, and the j-invariants of the two terminal curves coincide and form the
// shared secret.
//
// Each keypair must be used for at most one exchange.
package sidh

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
	"github.com/nume-crypto/sidh/internal/logger"
)

// PrivateKeyAlice is an even scalar in [2, 2^372), little-endian.
type PrivateKeyAlice struct {
	Scalar [SecretKeySizeAlice]byte
	params *Params
}

// PrivateKeyBob is a multiple of three in [3, 3^239), little-endian.
type PrivateKeyBob struct {
	Scalar [SecretKeySizeBob]byte
	params *Params
}

// PublicKeyAlice carries the images of Bob's basis points under Alice's
// isogeny, fully normalised: (x(phi(PB)), x(phi(QB)), x(phi(QB - PB))).
type PublicKeyAlice struct {
	XP, XQ, XQmP fp751.ExtensionFieldElement
}

// PublicKeyBob is the mirror image of PublicKeyAlice.
type PublicKeyBob struct {
	XP, XQ, XQmP fp751.ExtensionFieldElement
}

func isZeroScalar(s []byte) bool {
	var acc byte
	for _, b := range s {
		acc |= b
	}
	return acc == 0
}

// NewPrivateKeyAlice validates and imports a little-endian scalar.
func NewPrivateKeyAlice(params *Params, scalar []byte) (*PrivateKeyAlice, error) {
	if len(scalar) != SecretKeySizeAlice {
		return nil, fmt.Errorf("%w: alice secret must be %d bytes", ErrParameterMismatch, SecretKeySizeAlice)
	}
	if scalar[0]&1 != 0 {
		return nil, fmt.Errorf("%w: alice secret must be even", ErrParameterMismatch)
	}
	if scalar[SecretKeySizeAlice-1]&0xf0 != 0 {
		return nil, fmt.Errorf("%w: alice secret exceeds 2^372", ErrParameterMismatch)
	}
	if isZeroScalar(scalar) {
		return nil, fmt.Errorf("%w: alice secret is zero", ErrParameterMismatch)
	}
	sk := &PrivateKeyAlice{params: params}
	copy(sk.Scalar[:], scalar)
	return sk, nil
}

// GenerateKeyAlice draws a uniform even scalar in [2, 2^372) from rand.
func GenerateKeyAlice(params *Params, rand io.Reader) (*PrivateKeyAlice, error) {
	var s [SecretKeySizeAlice]byte
	for {
		if _, err := io.ReadFull(rand, s[:]); err != nil {
			return nil, err
		}
		s[SecretKeySizeAlice-1] &= 0x0f // 372 bits
		s[0] &= 0xfe                    // cofactor 2
		if !isZeroScalar(s[:]) {
			break
		}
	}
	sk := &PrivateKeyAlice{params: params}
	sk.Scalar = s
	return sk, nil
}

// NewPrivateKeyBob validates and imports a little-endian scalar.
func NewPrivateKeyBob(params *Params, scalar []byte) (*PrivateKeyBob, error) {
	if len(scalar) != SecretKeySizeBob {
		return nil, fmt.Errorf("%w: bob secret must be %d bytes", ErrParameterMismatch, SecretKeySizeBob)
	}
	m := scalarToBig(scalar)
	if m.Sign() == 0 || m.Cmp(params.OrderBob) >= 0 {
		return nil, fmt.Errorf("%w: bob secret out of range", ErrParameterMismatch)
	}
	if new(big.Int).Mod(m, big.NewInt(3)).Sign() != 0 {
		return nil, fmt.Errorf("%w: bob secret must be a multiple of three", ErrParameterMismatch)
	}
	sk := &PrivateKeyBob{params: params}
	copy(sk.Scalar[:], scalar)
	return sk, nil
}

// GenerateKeyBob rejection-samples k < 3^238 and returns 3k, so the scalar is
// a uniform nonzero multiple of three below 3^239.
func GenerateKeyBob(params *Params, rand io.Reader) (*PrivateKeyBob, error) {
	var limbs [6]uint64
	var buf [SecretKeySizeBob]byte
	for {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, err
		}
		buf[SecretKeySizeBob-1] &= 0x03 // 378 bits
		for i := 0; i < 6; i++ {
			limbs[i] = 0
			for j := 7; j >= 0; j-- {
				limbs[i] = limbs[i]<<8 | uint64(buf[8*i+j])
			}
		}
		if fp751.Lt3e238Mask(&limbs) != 0 {
			continue // k >= 3^238: reject
		}
		zero := true
		for _, l := range limbs {
			zero = zero && l == 0
		}
		if zero {
			continue
		}
		break
	}
	fp751.MulByThree(&limbs)
	sk := &PrivateKeyBob{params: params}
	for i := 0; i < 6; i++ {
		for j := 0; j < 8; j++ {
			sk.Scalar[8*i+j] = byte(limbs[i] >> (8 * uint(j)))
		}
	}
	return sk, nil
}

func scalarToBig(scalar []byte) *big.Int {
	be := make([]byte, len(scalar))
	for i := range scalar {
		be[len(scalar)-1-i] = scalar[i]
	}
	return new(big.Int).SetBytes(be)
}

// starting curve E0 : y^2 = x^3 + x
func startingCurve() isogeny.CurveParams {
	var c isogeny.CurveParams
	c.C.SetOne()
	return c
}

// evaluationPoints builds (x(P), x(Q), x(Q - P)) for Q = tau(P), the three
// receiver points a keygen walk pushes through every isogeny.
func evaluationPoints(xP *fp751.PrimeFieldElement) [3]isogeny.ProjectivePoint {
	var pts [3]isogeny.ProjectivePoint
	var x fp751.ExtensionFieldElement
	x.A = xP.A
	pts[0].FromAffine(&x)
	var negXP fp751.PrimeFieldElement
	negXP.Neg(xP)
	var nx fp751.ExtensionFieldElement
	nx.A = negXP.A
	pts[1].FromAffine(&nx)
	pts[2] = isogeny.DistortAndDifference(xP)
	return pts
}

// traverseAlice walks the 4-isogeny tree from kernel point r, pushing any
// extra points through every constructed isogeny.  The strategy entries give
// the number of 4-multiplications before each split; all n = len(strategy)+1
// isogenies, the last one (j = n) included, are built inside the loop.
func traverseAlice(curve isogeny.CurveParams, r isogeny.ProjectivePoint, pts []isogeny.ProjectivePoint, strategy []uint32) (isogeny.CurveParams, []isogeny.ProjectivePoint) {
	n := len(strategy) + 1
	points := make([]isogeny.ProjectivePoint, 0, 8)
	indices := make([]int, 0, 8)
	i, sidx := 0, 0

	for j := 1; j <= n; j++ {
		for i < n-j {
			points = append(points, r)
			indices = append(indices, i)
			k := int(strategy[sidx])
			sidx++
			cached := curve.Cached()
			r.DoubleN(&r, &cached, 2*k)
			i += k
		}
		phi, codomain := isogeny.ComputeFourIsogeny(&r)
		curve = codomain
		for k := range points {
			points[k] = phi.Eval(&points[k])
		}
		for k := range pts {
			pts[k] = phi.Eval(&pts[k])
		}
		if len(points) > 0 {
			r = points[len(points)-1]
			points = points[:len(points)-1]
			i = indices[len(indices)-1]
			indices = indices[:len(indices)-1]
		}
	}
	return curve, pts
}

// traverseAliceSimple is the iterative cross-check: row by row, multiply the
// kernel down to an order-4 point, build the isogeny, push everything through.
func traverseAliceSimple(curve isogeny.CurveParams, r isogeny.ProjectivePoint, pts []isogeny.ProjectivePoint) (isogeny.CurveParams, []isogeny.ProjectivePoint) {
	for row := 0; row < MaxAlice; row++ {
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.DoubleN(&r, &cached, 2*(MaxAlice-1-row))
		phi, codomain := isogeny.ComputeFourIsogeny(&t)
		curve = codomain
		r = phi.Eval(&r)
		for k := range pts {
			pts[k] = phi.Eval(&pts[k])
		}
	}
	return curve, pts
}

func traverseBob(curve isogeny.CurveParams, r isogeny.ProjectivePoint, pts []isogeny.ProjectivePoint, strategy []uint32) (isogeny.CurveParams, []isogeny.ProjectivePoint) {
	n := len(strategy) + 1
	points := make([]isogeny.ProjectivePoint, 0, 8)
	indices := make([]int, 0, 8)
	i, sidx := 0, 0

	for j := 1; j <= n; j++ {
		for i < n-j {
			points = append(points, r)
			indices = append(indices, i)
			k := int(strategy[sidx])
			sidx++
			cached := curve.Cached()
			r.TripleN(&r, &cached, k)
			i += k
		}
		phi, codomain := isogeny.ComputeThreeIsogeny(&r)
		curve = codomain
		for k := range points {
			points[k] = phi.Eval(&points[k])
		}
		for k := range pts {
			pts[k] = phi.Eval(&pts[k])
		}
		if len(points) > 0 {
			r = points[len(points)-1]
			points = points[:len(points)-1]
			i = indices[len(indices)-1]
			indices = indices[:len(indices)-1]
		}
	}
	return curve, pts
}

func traverseBobSimple(curve isogeny.CurveParams, r isogeny.ProjectivePoint, pts []isogeny.ProjectivePoint) (isogeny.CurveParams, []isogeny.ProjectivePoint) {
	for row := 0; row < MaxBob; row++ {
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.TripleN(&r, &cached, MaxBob-1-row)
		phi, codomain := isogeny.ComputeThreeIsogeny(&t)
		curve = codomain
		r = phi.Eval(&r)
		for k := range pts {
			pts[k] = phi.Eval(&pts[k])
		}
	}
	return curve, pts
}

// PublicKey computes Alice's public key: the secret kernel x(PA + [m]tau(PA))
// is built over the base field, the special first 4-isogeny absorbs the
// preliminary isomorphism, and the strategy-guided walk pushes Bob's three
// points through every 4-isogeny.  The 3-way simultaneous inversion at the
// end is the commit point.
func (sk *PrivateKeyAlice) PublicKey(opts ...Option) *PublicKeyAlice {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	params := sk.params
	pts3 := evaluationPoints(&params.XPB)
	r := isogeny.SecretPoint(&params.XPA, &params.YPA, sk.Scalar[:], EA)

	curve := startingCurve()
	phi1, codomain := isogeny.ComputeFirstFourIsogeny(&curve)
	r = phi1.Eval(&r)
	for i := range pts3 {
		pts3[i] = phi1.Eval(&pts3[i])
	}

	var pts []isogeny.ProjectivePoint
	if cfg.simpleTraversal {
		_, pts = traverseAliceSimple(codomain, r, pts3[:])
	} else {
		_, pts = traverseAlice(codomain, r, pts3[:], params.SplitsAlice)
	}

	var pk PublicKeyAlice
	var iz0, iz1, iz2 fp751.ExtensionFieldElement
	isogeny.Batch3Inv(&pts[0].Z, &pts[1].Z, &pts[2].Z, &iz0, &iz1, &iz2)
	pk.XP.Mul(&pts[0].X, &iz0)
	pk.XQ.Mul(&pts[1].X, &iz1)
	pk.XQmP.Mul(&pts[2].X, &iz2)

	log.Debug().Dur("took", time.Since(start)).Msg("alice keygen")
	return &pk
}

// PublicKey computes Bob's public key with the 3-isogeny walk.
func (sk *PrivateKeyBob) PublicKey(opts ...Option) *PublicKeyBob {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	params := sk.params
	pts2 := evaluationPoints(&params.XPA)
	r := isogeny.SecretPoint(&params.XPB, &params.YPB, sk.Scalar[:], params.OrderBob.BitLen())

	curve := startingCurve()
	var pts []isogeny.ProjectivePoint
	if cfg.simpleTraversal {
		_, pts = traverseBobSimple(curve, r, pts2[:])
	} else {
		_, pts = traverseBob(curve, r, pts2[:], params.SplitsBob)
	}

	var pk PublicKeyBob
	var iz0, iz1, iz2 fp751.ExtensionFieldElement
	isogeny.Batch3Inv(&pts[0].Z, &pts[1].Z, &pts[2].Z, &iz0, &iz1, &iz2)
	pk.XP.Mul(&pts[0].X, &iz0)
	pk.XQ.Mul(&pts[1].X, &iz1)
	pk.XQmP.Mul(&pts[2].X, &iz2)

	log.Debug().Dur("took", time.Since(start)).Msg("bob keygen")
	return &pk
}

// aliceSharedCurve runs Alice's walk from an already-computed kernel on E_A
// and returns the final curve.
func aliceSharedCurve(a *fp751.ExtensionFieldElement, r isogeny.ProjectivePoint, simple bool, splits []uint32) isogeny.CurveParams {
	curve := isogeny.CurveParams{A: *a}
	curve.C.SetOne()
	phi1, codomain := isogeny.ComputeFirstFourIsogeny(&curve)
	r = phi1.Eval(&r)
	if simple {
		final, _ := traverseAliceSimple(codomain, r, nil)
		return final
	}
	final, _ := traverseAlice(codomain, r, nil, splits)
	return final
}

func bobSharedCurve(a *fp751.ExtensionFieldElement, r isogeny.ProjectivePoint, simple bool, splits []uint32) isogeny.CurveParams {
	curve := isogeny.CurveParams{A: *a}
	curve.C.SetOne()
	if simple {
		final, _ := traverseBobSimple(curve, r, nil)
		return final
	}
	final, _ := traverseBob(curve, r, nil, splits)
	return final
}

// SharedSecret computes Alice's view of the shared secret from Bob's public
// key: recover the curve, run the three-point ladder to the kernel, walk the
// tree, and serialize the terminal j-invariant.
func (sk *PrivateKeyAlice) SharedSecret(pk *PublicKeyBob, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	a := isogeny.RecoverCoordinateA(&pk.XP, &pk.XQ, &pk.XQmP)
	curve := isogeny.CurveParams{A: a}
	curve.C.SetOne()
	r := isogeny.ScalarMul3Pt(&curve, &pk.XP, &pk.XQ, &pk.XQmP, EA, sk.Scalar[:])
	if cfg.kernelOrderCheck {
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.DoubleN(&r, &cached, EA)
		if !t.IsIdentity() {
			return nil, fmt.Errorf("%w: kernel point is not in the 2^372-torsion", ErrParameterMismatch)
		}
	}

	final := aliceSharedCurve(&a, r, cfg.simpleTraversal, sk.params.SplitsAlice)
	j := final.Jinvariant()
	out := make([]byte, SharedSecretSize)
	j.ToBytes(out)
	log.Debug().Dur("took", time.Since(start)).Msg("alice shared secret")
	return out, nil
}

// SharedSecret computes Bob's view of the shared secret from Alice's public
// key.
func (sk *PrivateKeyBob) SharedSecret(pk *PublicKeyAlice, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	a := isogeny.RecoverCoordinateA(&pk.XP, &pk.XQ, &pk.XQmP)
	curve := isogeny.CurveParams{A: a}
	curve.C.SetOne()
	r := isogeny.ScalarMul3Pt(&curve, &pk.XP, &pk.XQ, &pk.XQmP, sk.params.OrderBob.BitLen(), sk.Scalar[:])
	if cfg.kernelOrderCheck {
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.TripleN(&r, &cached, EB)
		if !t.IsIdentity() {
			return nil, fmt.Errorf("%w: kernel point is not in the 3^239-torsion", ErrParameterMismatch)
		}
	}

	final := bobSharedCurve(&a, r, cfg.simpleTraversal, sk.params.SplitsBob)
	j := final.Jinvariant()
	out := make([]byte, SharedSecretSize)
	j.ToBytes(out)
	log.Debug().Dur("took", time.Since(start)).Msg("bob shared secret")
	return out, nil
}

// Params returns the exchange parameters this key was created with.
func (sk *PrivateKeyAlice) Params() *Params { return sk.params }

// Params returns the exchange parameters this key was created with.
func (sk *PrivateKeyBob) Params() *Params { return sk.params }

// Export writes the secret scalar, little-endian.
func (sk *PrivateKeyAlice) Export() []byte {
	out := make([]byte, SecretKeySizeAlice)
	copy(out, sk.Scalar[:])
	return out
}

// Import replaces the key with the given scalar, applying the same
// range and parity validation as NewPrivateKeyAlice.
func (sk *PrivateKeyAlice) Import(input []byte) error {
	params := sk.params
	if params == nil {
		params = P751()
	}
	imported, err := NewPrivateKeyAlice(params, input)
	if err != nil {
		return err
	}
	*sk = *imported
	return nil
}

// Export writes the secret scalar, little-endian.
func (sk *PrivateKeyBob) Export() []byte {
	out := make([]byte, SecretKeySizeBob)
	copy(out, sk.Scalar[:])
	return out
}

// Import replaces the key with the given scalar, applying the same
// range and divisibility validation as NewPrivateKeyBob.
func (sk *PrivateKeyBob) Import(input []byte) error {
	params := sk.params
	if params == nil {
		params = P751()
	}
	imported, err := NewPrivateKeyBob(params, input)
	if err != nil {
		return err
	}
	*sk = *imported
	return nil
}

// Equal reports whether the two public keys hold the same point triple.
// Takes variable time.
func (pk *PublicKeyAlice) Equal(other *PublicKeyAlice) bool {
	return pk.XP.VartimeEq(&other.XP) &&
		pk.XQ.VartimeEq(&other.XQ) &&
		pk.XQmP.VartimeEq(&other.XQmP)
}

// Equal reports whether the two public keys hold the same point triple.
// Takes variable time.
func (pk *PublicKeyBob) Equal(other *PublicKeyBob) bool {
	return pk.XP.VartimeEq(&other.XP) &&
		pk.XQ.VartimeEq(&other.XQ) &&
		pk.XQmP.VartimeEq(&other.XQmP)
}

// Export writes the 576-byte public key.
func (pk *PublicKeyAlice) Export() []byte {
	out := make([]byte, PublicKeySize)
	pk.XP.ToBytes(out[0:])
	pk.XQ.ToBytes(out[fp751.ExtensionBytes:])
	pk.XQmP.ToBytes(out[2*fp751.ExtensionBytes:])
	return out
}

// Import reads a 576-byte public key.  No validation beyond length is
// performed; use WithKernelOrderCheck at shared secret time to reject keys
// off the expected torsion.
func (pk *PublicKeyAlice) Import(input []byte) error {
	if len(input) != PublicKeySize {
		return fmt.Errorf("%w: public key must be %d bytes", ErrParameterMismatch, PublicKeySize)
	}
	pk.XP.FromBytes(input[0:])
	pk.XQ.FromBytes(input[fp751.ExtensionBytes:])
	pk.XQmP.FromBytes(input[2*fp751.ExtensionBytes:])
	return nil
}

// Export writes the 576-byte public key.
func (pk *PublicKeyBob) Export() []byte {
	out := make([]byte, PublicKeySize)
	pk.XP.ToBytes(out[0:])
	pk.XQ.ToBytes(out[fp751.ExtensionBytes:])
	pk.XQmP.ToBytes(out[2*fp751.ExtensionBytes:])
	return out
}

// Import reads a 576-byte public key.
func (pk *PublicKeyBob) Import(input []byte) error {
	if len(input) != PublicKeySize {
		return fmt.Errorf("%w: public key must be %d bytes", ErrParameterMismatch, PublicKeySize)
	}
	pk.XP.FromBytes(input[0:])
	pk.XQ.FromBytes(input[fp751.ExtensionBytes:])
	pk.XQmP.FromBytes(input[2*fp751.ExtensionBytes:])
	return nil
}
