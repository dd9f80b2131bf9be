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

import "errors"

// The error taxonomy.  Every failure surfaced by this package wraps one of
// these sentinels; use errors.Is to classify.
var (
	// ErrDomainViolation covers inversion of zero, square roots of
	// non-squares, and compressed keys whose scalars disagree with their
	// normalisation bit.
	ErrDomainViolation = errors.New("sidh: domain violation")

	// ErrParameterMismatch covers secret keys outside their range or
	// divisibility class and public keys off the expected torsion.
	ErrParameterMismatch = errors.New("sidh: parameter mismatch")

	// ErrInternalInvariant marks conditions that cannot occur on well-typed
	// inputs, such as a pairing residue outside the cyclotomic subgroup or a
	// Pohlig-Hellman digit outside its window.
	ErrInternalInvariant = errors.New("sidh: internal invariant violated")
)
