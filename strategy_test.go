package sidh

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestOptimalStrategyReproducesParams(t *testing.T) {
	assert := require.New(t)
	params := P751()

	gotA := OptimalStrategy(MaxAlice, params.StrategyWeightsAlice[0], params.StrategyWeightsAlice[1])
	if diff := cmp.Diff(params.SplitsAlice, gotA); diff != "" {
		t.Fatalf("alice strategy mismatch (-want +got):\n%s", diff)
	}
	assert.Len(gotA, MaxAlice-1)

	gotB := OptimalStrategy(MaxBob, params.StrategyWeightsBob[0], params.StrategyWeightsBob[1])
	if diff := cmp.Diff(params.SplitsBob, gotB); diff != "" {
		t.Fatalf("bob strategy mismatch (-want +got):\n%s", diff)
	}
	assert.Len(gotB, MaxBob-1)
}

func TestStrategyCostMonotonicity(t *testing.T) {
	assert := require.New(t)
	p, q := 24.2, 21.6
	cost := StrategyCost(MaxAlice, p, q)
	for n := 1; n < len(cost); n++ {
		// adding a leaf never gets cheaper, and costs at most one extra
		// multiplication-plus-evaluation per tree level
		assert.GreaterOrEqual(cost[n], cost[n-1], "C[%d] decreased", n+1)
		depth := math.Ceil(math.Log2(float64(n + 1)))
		assert.LessOrEqual(cost[n], cost[n-1]+(p+q)*depth, "C[%d] jumped", n+1)
	}
}

// simulateTraversalCost replays a strategy through the traversal loop shape,
// charging p per multiplication step and q per stacked-point evaluation; the
// result must equal the optimum the DP reports.
func simulateTraversalCost(strategy []uint32, p, q float64) float64 {
	n := len(strategy) + 1
	var stack []int
	i, sidx := 0, 0
	cost := 0.0
	for j := 1; j <= n; j++ {
		for i < n-j {
			stack = append(stack, i)
			k := int(strategy[sidx])
			sidx++
			cost += float64(k) * p
			i += k
		}
		cost += q * float64(len(stack))
		if len(stack) > 0 {
			i = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return cost
}

func TestStrategyCostMatchesTraversal(t *testing.T) {
	assert := require.New(t)
	for _, tc := range []struct {
		n    int
		p, q float64
	}{
		{MaxAlice, 24.2, 21.6},
		{MaxBob, 24.3, 16.9},
		{17, 1.5, 3.7},
	} {
		strat := OptimalStrategy(tc.n, tc.p, tc.q)
		want := StrategyCost(tc.n, tc.p, tc.q)[tc.n-1]
		got := simulateTraversalCost(strat, tc.p, tc.q)
		assert.InDelta(want, got, 1e-6, "n=%d", tc.n)
	}
}
