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

// Option configures a key generation or shared secret computation.
type Option func(*config)

type config struct {
	simpleTraversal  bool
	kernelOrderCheck bool
}

func newConfig(opts ...Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithSimpleTraversal selects the iterative O(e^2) isogeny walk instead of
// the strategy-guided one.  The outputs are identical; the simple walk exists
// as a cross-check and for debugging.
func WithSimpleTraversal() Option {
	return func(c *config) { c.simpleTraversal = true }
}

// WithKernelOrderCheck verifies that the kernel point computed from a peer's
// public key lies in the expected torsion before walking the isogeny tree,
// at the cost of one extra scalar multiplication.  A key that fails the check
// is rejected with ErrParameterMismatch.
func WithKernelOrderCheck() Option {
	return func(c *config) { c.kernelOrderCheck = true }
}
