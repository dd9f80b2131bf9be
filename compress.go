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

package sidh

import (
	"fmt"
	"math/big"
	"time"

	"github.com/nume-crypto/sidh/internal/fp751"
	"github.com/nume-crypto/sidh/internal/isogeny"
	"github.com/nume-crypto/sidh/internal/logger"
	"github.com/nume-crypto/sidh/internal/pairing"
)

// CompressedPublicKeyAlice is Alice's public key compressed to a
// normalisation bit, three scalars modulo 3^239 and the recovered curve
// coefficient.  With the bit clear the key satisfies
// phi(PB) + [s] phi(QB) ~ R1 + [t] R2 on the deterministic 3-torsion basis
// (R1, R2) of E_A; with the bit set the roles of R1 and R2 swap.
type CompressedPublicKeyAlice struct {
	Bit        uint8
	S1, S2, S3 *big.Int
	A          fp751.ExtensionFieldElement
}

// CompressedPublicKeyBob is the 2^372 mirror image.
type CompressedPublicKeyBob struct {
	Bit        uint8
	S1, S2, S3 *big.Int
	A          fp751.ExtensionFieldElement
}

// liftTorsionPoints recovers affine lifts of the two public key points,
// resolving the relative sign of y(Q) against x(Q - P).
func liftTorsionPoints(xP, xQ, xQmP, a *fp751.ExtensionFieldElement) (p, q isogeny.AffinePoint, err error) {
	rhsP := curveRHSExt(xP, a)
	rhsQ := curveRHSExt(xQ, a)
	var yP, yQ fp751.ExtensionFieldElement
	if !yP.Sqrt(&rhsP) || !yQ.Sqrt(&rhsQ) {
		err = fmt.Errorf("%w: public key point is not on the curve", ErrDomainViolation)
		return
	}
	p = isogeny.AffinePoint{X: *xP, Y: yP}
	q = isogeny.AffinePoint{X: *xQ, Y: yQ}

	if !differenceMatches(&p, &q, xQmP, a) {
		q.Y.Neg(&q.Y)
		if !differenceMatches(&p, &q, xQmP, a) {
			err = fmt.Errorf("%w: x(Q-P) inconsistent with public key", ErrDomainViolation)
			return
		}
	}
	return
}

func curveRHSExt(x, a *fp751.ExtensionFieldElement) fp751.ExtensionFieldElement {
	var one, t, r fp751.ExtensionFieldElement
	one.SetOne()
	t.Square(x)
	r.Mul(a, x)
	r.Add(&r, &t)
	r.Add(&r, &one)
	r.Mul(&r, x)
	return r
}

// differenceMatches checks x(Q - P) against the third public key element.
// The chord through Q and -P has slope (yP + yQ)/(xP - xQ), whose sign drops
// out after squaring:
//
//	x(Q - P) = (yP + yQ)^2 / (xP - xQ)^2 - A - xP - xQ
func differenceMatches(p, q *isogeny.AffinePoint, xQmP, a *fp751.ExtensionFieldElement) bool {
	if q.X.VartimeEq(&p.X) {
		return false
	}
	var num, den, x3 fp751.ExtensionFieldElement
	num.Add(&p.Y, &q.Y)
	num.Square(&num)
	den.Sub(&p.X, &q.X)
	den.Square(&den)
	den.Inv(&den)
	x3.Mul(&num, &den)
	x3.Sub(&x3, a)
	x3.Sub(&x3, &p.X)
	x3.Sub(&x3, &q.X)
	return x3.VartimeEq(xQmP)
}

func negMod(x, order *big.Int) *big.Int {
	t := new(big.Int).Neg(x)
	return t.Mod(t, order)
}

// compressScalars runs the Pohlig-Hellman extractions and the normalisation
// shared by both directions: phi(P) = a0 R1 + b0 R2, phi(Q) = a1 R1 + b1 R2,
// then division by whichever of a0, b0 is invertible.
func compressScalars(g, t0, t1, r0, r1 *fp751.ExtensionFieldElement, ell int64, order *big.Int) (bit uint8, s1, s2, s3 *big.Int, err error) {
	var dlog func(g, r *fp751.ExtensionFieldElement) (*big.Int, error)
	if ell == 2 {
		dlog = pairing.PohligHellman2
	} else {
		dlog = pairing.PohligHellman3
	}
	b0, err := dlog(g, t0)
	if err != nil {
		return 0, nil, nil, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	b1, err := dlog(g, t1)
	if err != nil {
		return 0, nil, nil, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	a0, err := dlog(g, r0)
	if err != nil {
		return 0, nil, nil, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	a1, err := dlog(g, r1)
	if err != nil {
		return 0, nil, nil, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	a0 = negMod(a0, order) // e(R2, phiP) = g^(-a0)
	a1 = negMod(a1, order)

	bigEll := big.NewInt(ell)
	if new(big.Int).Mod(a0, bigEll).Sign() != 0 {
		inv := new(big.Int).ModInverse(a0, order)
		s1 = new(big.Int).Mul(b0, inv)
		s1.Mod(s1, order)
		s2 = new(big.Int).Mul(a1, inv)
		s2.Mod(s2, order)
		s3 = new(big.Int).Mul(b1, inv)
		s3.Mod(s3, order)
		return 0, s1, s2, s3, nil
	}
	inv := new(big.Int).ModInverse(b0, order)
	if inv == nil {
		return 0, nil, nil, nil, fmt.Errorf("%w: public key point of non-maximal order", ErrDomainViolation)
	}
	s1 = new(big.Int).Mul(a0, inv)
	s1.Mod(s1, order)
	s2 = new(big.Int).Mul(a1, inv)
	s2.Mod(s2, order)
	s3 = new(big.Int).Mul(b1, inv)
	s3.Mod(s3, order)
	return 1, s1, s2, s3, nil
}

// CompressAlice compresses Alice's public key via the deterministic 3-torsion
// basis of the recovered curve, five batched Tate pairings and four windowed
// discrete logarithms.
func CompressAlice(params *Params, pk *PublicKeyAlice) (*CompressedPublicKeyAlice, error) {
	log := logger.Logger()
	start := time.Now()

	a := isogeny.RecoverCoordinateA(&pk.XP, &pk.XQ, &pk.XQmP)
	phiP, phiQ, err := liftTorsionPoints(&pk.XP, &pk.XQ, &pk.XQmP, &a)
	if err != nil {
		return nil, err
	}
	r1, r2, err := pairing.GenerateThreeTorsionBasis(&a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	g, t0, t1, rr0, rr1, err := pairing.FivePairings3(&r1, &r2, &phiP, &phiQ, &a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	bit, s1, s2, s3, err := compressScalars(&g, &t0, &t1, &rr0, &rr1, 3, params.OrderBob)
	if err != nil {
		return nil, err
	}
	log.Debug().Dur("took", time.Since(start)).Msg("compress alice key")
	return &CompressedPublicKeyAlice{Bit: bit, S1: s1, S2: s2, S3: s3, A: a}, nil
}

// CompressBob compresses Bob's public key on the 2^372 side.
func CompressBob(params *Params, pk *PublicKeyBob) (*CompressedPublicKeyBob, error) {
	log := logger.Logger()
	start := time.Now()

	a := isogeny.RecoverCoordinateA(&pk.XP, &pk.XQ, &pk.XQmP)
	phiP, phiQ, err := liftTorsionPoints(&pk.XP, &pk.XQ, &pk.XQmP, &a)
	if err != nil {
		return nil, err
	}
	r1, r2, err := pairing.GenerateTwoTorsionBasis(&a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	g, t0, t1, rr0, rr1, err := pairing.FivePairings2(&r1, &r2, &phiP, &phiQ, &a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	bit, s1, s2, s3, err := compressScalars(&g, &t0, &t1, &rr0, &rr1, 2, params.OrderAlice)
	if err != nil {
		return nil, err
	}
	log.Debug().Dur("took", time.Since(start)).Msg("compress bob key")
	return &CompressedPublicKeyBob{Bit: bit, S1: s1, S2: s2, S3: s3, A: a}, nil
}

// decompressionKernel merges decompression into the shared secret walk: the
// kernel scalar is t = (s1 + sk*s3) / (1 + sk*s2) on the unswapped basis, or
// the bit-swapped analogue, realised by a single two-dimensional scalar
// multiplication.
func decompressionKernel(bit uint8, s1, s2, s3, m, order *big.Int, r1, r2 *isogeny.AffinePoint, a *fp751.ExtensionFieldElement) (isogeny.ProjectivePoint, error) {
	var num, den *big.Int
	if bit == 0 {
		num = new(big.Int).Mul(m, s3)
		num.Add(num, s1)
		den = new(big.Int).Mul(m, s2)
		den.Add(den, big.NewInt(1))
	} else {
		num = new(big.Int).Mul(m, s2)
		num.Add(num, s1)
		den = new(big.Int).Mul(m, s3)
		den.Add(den, big.NewInt(1))
	}
	num.Mod(num, order)
	denInv := new(big.Int).ModInverse(den, order)
	if denInv == nil {
		return isogeny.ProjectivePoint{}, fmt.Errorf("%w: scalars inconsistent with normalisation bit", ErrDomainViolation)
	}
	t := num.Mul(num, denInv)
	t.Mod(t, order)

	base1, base2 := r1, r2
	if bit == 1 {
		base1, base2 = r2, r1
	}
	kernel, err := isogeny.TwoDimScalarMult(base1, base2, t, a)
	if err != nil {
		return isogeny.ProjectivePoint{}, fmt.Errorf("%w: %v", ErrDomainViolation, err)
	}
	return kernel, nil
}

// SharedSecretCompressed computes Bob's shared secret directly from Alice's
// compressed public key.
func (sk *PrivateKeyBob) SharedSecretCompressed(c *CompressedPublicKeyAlice, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	r1, r2, err := pairing.GenerateThreeTorsionBasis(&c.A)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	m := scalarToBig(sk.Scalar[:])
	kernel, err := decompressionKernel(c.Bit, c.S1, c.S2, c.S3, m, sk.params.OrderBob, &r1, &r2, &c.A)
	if err != nil {
		return nil, err
	}
	if cfg.kernelOrderCheck {
		curve := isogeny.CurveParams{A: c.A}
		curve.C.SetOne()
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.TripleN(&kernel, &cached, EB)
		if !t.IsIdentity() {
			return nil, fmt.Errorf("%w: kernel point is not in the 3^239-torsion", ErrParameterMismatch)
		}
	}

	final := bobSharedCurve(&c.A, kernel, cfg.simpleTraversal, sk.params.SplitsBob)
	j := final.Jinvariant()
	out := make([]byte, SharedSecretSize)
	j.ToBytes(out)
	log.Debug().Dur("took", time.Since(start)).Msg("bob shared secret (compressed)")
	return out, nil
}

// SharedSecretCompressed computes Alice's shared secret directly from Bob's
// compressed public key.
func (sk *PrivateKeyAlice) SharedSecretCompressed(c *CompressedPublicKeyBob, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	log := logger.Logger()
	start := time.Now()

	r1, r2, err := pairing.GenerateTwoTorsionBasis(&c.A)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	m := scalarToBig(sk.Scalar[:])
	kernel, err := decompressionKernel(c.Bit, c.S1, c.S2, c.S3, m, sk.params.OrderAlice, &r1, &r2, &c.A)
	if err != nil {
		return nil, err
	}
	if cfg.kernelOrderCheck {
		curve := isogeny.CurveParams{A: c.A}
		curve.C.SetOne()
		cached := curve.Cached()
		var t isogeny.ProjectivePoint
		t.DoubleN(&kernel, &cached, EA)
		if !t.IsIdentity() {
			return nil, fmt.Errorf("%w: kernel point is not in the 2^372-torsion", ErrParameterMismatch)
		}
	}

	final := aliceSharedCurve(&c.A, kernel, cfg.simpleTraversal, sk.params.SplitsAlice)
	j := final.Jinvariant()
	out := make([]byte, SharedSecretSize)
	j.ToBytes(out)
	log.Debug().Dur("took", time.Since(start)).Msg("alice shared secret (compressed)")
	return out, nil
}
