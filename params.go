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
	"math/big"

	"github.com/nume-crypto/sidh/internal/fp751"
)

// Domain sizes for the prime p = 2^372 * 3^239 - 1.
const (
	// EA and EB are the 2- and 3-adic valuations of p + 1.
	EA = 372
	EB = 239

	// MaxAlice and MaxBob are the leaf counts of the two isogeny trees:
	// Alice walks 4-isogenies after a special first step, Bob 3-isogenies.
	MaxAlice = 185
	MaxBob   = 239

	// Secret scalar sizes in bytes: 372 bits for Alice, 379 for Bob.
	SecretKeySizeAlice = 47
	SecretKeySizeBob   = 48

	// PublicKeySize is three normalised GF(p^2) elements.
	PublicKeySize = 3 * fp751.ExtensionBytes

	// SharedSecretSize is one GF(p^2) element, the j-invariant.
	SharedSecretSize = fp751.ExtensionBytes

	// Compressed key sizes: a normalisation bit, three scalars packed to
	// ceil(e log2(ell)) bits each, and the curve coefficient packed to
	// 2 * 751 bits.
	CompressedPublicKeySizeAlice = (1 + 3*379 + 2*751 + 7) / 8 // scalars mod 3^239
	CompressedPublicKeySizeBob   = (1 + 3*372 + 2*751 + 7) / 8 // scalars mod 2^372
)

// Params carries the read-only P751 exchange parameters: the affine
// generators of the two base field torsion groups on E0 : y^2 = x^3 + x, the
// group orders, and the traversal strategies.  Parameters are passed
// explicitly; there is no mutable global state.
type Params struct {
	XPA, YPA fp751.PrimeFieldElement // generator of E0(GF(p))[2^372]
	XPB, YPB fp751.PrimeFieldElement // generator of E0(GF(p))[3^239]

	OrderAlice *big.Int // 2^372
	OrderBob   *big.Int // 3^239

	SplitsAlice []uint32
	SplitsBob   []uint32

	// Cost weights (multiplications by ell vs isogeny evaluation) that the
	// strategy vectors above minimise.
	StrategyWeightsAlice [2]float64
	StrategyWeightsBob   [2]float64
}

// P751 returns the exchange parameters for p = 2^372 * 3^239 - 1.
func P751() *Params {
	p := &Params{
		XPA:                  fp751.PrimeFieldElement{A: xPA},
		YPA:                  fp751.PrimeFieldElement{A: yPA},
		XPB:                  fp751.PrimeFieldElement{A: xPB},
		YPB:                  fp751.PrimeFieldElement{A: yPB},
		OrderAlice:           new(big.Int).Lsh(big.NewInt(1), EA),
		OrderBob:             new(big.Int).Exp(big.NewInt(3), big.NewInt(EB), nil),
		SplitsAlice:          splitsAlice[:],
		SplitsBob:            splitsBob[:],
		StrategyWeightsAlice: [2]float64{24.2, 21.6},
		StrategyWeightsBob:   [2]float64{24.3, 16.9},
	}
	return p
}

// Montgomery-form coordinates of the base points.  PA has exact order 2^372
// and PB exact order 3^239 in E0(GF(p)); both were chosen as the smallest
// abscissas whose cofactor-cleared points have full order, with even y.

var xPA = fp751.Element{
	0xd56fe52627914862, 0x1fad60dc96b5baea, 0x01e137d0bf07ab91, 0x404d3e9252161964,
	0x3c5385e4cd09a337, 0x4476426769e4af73, 0x9790c6db989dfe33, 0xe06e1c04d2aa8b5e,
	0x38c08185edea73b9, 0xaa41f678a4396ca6, 0x92b9259b2229e9a0, 0x00002f9326818be0,
}

var yPA = fp751.Element{
	0x332bd16fbe3d7739, 0x7e5e20ff2319e3db, 0xea856234aefbd81b, 0xe016df7d6d071283,
	0x8ae42796f73cd34f, 0x6364b408a4774575, 0xa71c97f17ce99497, 0xda03cdd9aa0cbe71,
	0xe52b4fda195bd56f, 0xdac41f811fce0a46, 0x9333720f0ee84a61, 0x00001399f006e578,
}

var xPB = fp751.Element{
	0xf1a8c9ed7b96c4ab, 0x299429da5178486e, 0xef4926f20cd5c2f4, 0x683b2e2858b4716a,
	0xdda2fbcc3cac3eeb, 0xec055f9f3a600460, 0xd5a5a17a58c3848b, 0x4652d836f42eaed5,
	0x2f2e71ed78b3a3b3, 0xa771c057180add1d, 0xc780a5d2d835f512, 0x0000114ea3b55ac1,
}

var yPB = fp751.Element{
	0x2e1eb8ed8c1c8c94, 0x06cfe456b25dbe01, 0x1eb54c3e8010f57a, 0x4b222d95fc81619d,
	0xf99ebd204d501496, 0x0c18348f9b629361, 0xc29e9a16bede6f96, 0x3b39f30163dad41d,
	0x807d3d1ecf2ac04e, 0xe088443f222a4988, 0x61b49a7524f1ea12, 0x000041bf31133104,
}

// splitsAlice is the optimal traversal strategy for 185 leaves with weights
// (24.2, 21.6); see OptimalStrategy.
var splitsAlice = [MaxAlice - 1]uint32{
	83, 44, 27, 15, 8, 4, 2, 1, 1, 2, 1, 1, 4, 2, 1, 1,
	2, 1, 1, 7, 4, 2, 1, 1, 2, 1, 1, 3, 2, 1, 1, 1,
	1, 12, 7, 4, 2, 1, 1, 2, 1, 1, 3, 2, 1, 1, 1, 1,
	5, 3, 2, 1, 1, 1, 1, 2, 1, 1, 1, 20, 10, 6, 4, 2,
	1, 1, 2, 1, 1, 2, 2, 1, 1, 1, 4, 2, 2, 1, 1, 1,
	2, 1, 1, 9, 4, 3, 2, 1, 1, 1, 1, 2, 1, 1, 4, 2,
	1, 1, 1, 2, 1, 1, 35, 21, 12, 7, 4, 2, 1, 1, 2, 1,
	1, 3, 2, 1, 1, 1, 1, 5, 3, 2, 1, 1, 1, 1, 2, 1,
	1, 1, 9, 5, 3, 2, 1, 1, 1, 1, 2, 1, 1, 1, 4, 2,
	1, 1, 1, 2, 1, 1, 16, 8, 4, 3, 2, 1, 1, 1, 1, 2,
	1, 1, 4, 2, 1, 1, 2, 1, 1, 8, 4, 2, 1, 1, 2, 1,
	1, 4, 2, 1, 1, 2, 1, 1,
}

// splitsBob is the optimal traversal strategy for 239 leaves with weights
// (24.3, 16.9).
var splitsBob = [MaxBob - 1]uint32{
	107, 60, 33, 17, 10, 5, 3, 2, 1, 1, 1, 1, 2, 1, 1, 1,
	5, 2, 1, 1, 1, 2, 1, 1, 1, 8, 4, 2, 1, 1, 1, 2,
	1, 1, 4, 2, 1, 1, 2, 1, 1, 15, 9, 4, 2, 1, 1, 1,
	2, 1, 1, 4, 2, 1, 1, 1, 2, 1, 1, 7, 4, 2, 1, 1,
	2, 1, 1, 3, 2, 1, 1, 1, 1, 27, 15, 9, 4, 2, 1, 1,
	1, 2, 1, 1, 4, 2, 1, 1, 1, 2, 1, 1, 7, 4, 2, 1,
	1, 2, 1, 1, 3, 2, 1, 1, 1, 1, 12, 7, 4, 2, 1, 1,
	2, 1, 1, 3, 2, 1, 1, 1, 1, 5, 3, 2, 1, 1, 1, 1,
	2, 1, 1, 1, 48, 27, 15, 8, 4, 2, 1, 1, 1, 2, 1, 1,
	4, 2, 1, 1, 2, 1, 1, 7, 4, 2, 1, 1, 2, 1, 1, 3,
	2, 1, 1, 1, 1, 12, 7, 4, 2, 1, 1, 2, 1, 1, 3, 2,
	1, 1, 1, 1, 5, 3, 2, 1, 1, 1, 1, 2, 1, 1, 1, 21,
	12, 7, 4, 2, 1, 1, 2, 1, 1, 3, 2, 1, 1, 1, 1, 5,
	3, 2, 1, 1, 1, 1, 2, 1, 1, 1, 9, 5, 3, 2, 1, 1,
	1, 1, 2, 1, 1, 1, 4, 2, 1, 1, 1, 2, 1, 1,
}
