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

// OptimalStrategy computes the cost-optimal isogeny-tree traversal for n
// leaves, where p is the cost of one multiplication-by-ell step and q the
// cost of one ell-isogeny evaluation.  The recurrence is
//
//	C[1] = 0,  C[i] = min over 0 < b < i of C[i-b] + C[b] + b*p + (i-b)*q
//
// scanning b in ascending order and keeping the first minimum, so ties prefer
// the larger isogeny count.  The returned vector has length n-1; its entries
// are consumed left to right by the tree traversal, each giving the number of
// ell-multiplications before the next split.
func OptimalStrategy(n int, p, q float64) []uint32 {
	cost := make([]float64, n+1)
	strat := make([][]uint32, n+1)
	strat[1] = []uint32{}
	for i := 2; i <= n; i++ {
		var best float64
		bestB := 0
		for b := 1; b < i; b++ {
			c := cost[i-b] + cost[b] + float64(b)*p + float64(i-b)*q
			if bestB == 0 || c < best {
				best, bestB = c, b
			}
		}
		cost[i] = best
		s := make([]uint32, 0, i-1)
		s = append(s, uint32(bestB))
		s = append(s, strat[i-bestB]...)
		s = append(s, strat[bestB]...)
		strat[i] = s
	}
	return strat[n]
}

// StrategyCost returns the table of optimal costs C[1..n] for the given
// weights; C[n] is the cost realised by OptimalStrategy(n, p, q).
func StrategyCost(n int, p, q float64) []float64 {
	cost := make([]float64, n+1)
	for i := 2; i <= n; i++ {
		var best float64
		bestB := 0
		for b := 1; b < i; b++ {
			c := cost[i-b] + cost[b] + float64(b)*p + float64(i-b)*q
			if bestB == 0 || c < best {
				best, bestB = c, b
			}
		}
		cost[i] = best
	}
	return cost[1:]
}
