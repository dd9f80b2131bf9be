package fp751

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func genExtElement() gopter.Gen {
	g := genElement()
	return func(gp *gopter.GenParameters) *gopter.GenResult {
		var e ExtensionFieldElement
		e.A = g(gp).Result.(Element)
		e.B = g(gp).Result.(Element)
		return gopter.NewGenResult(e, gopter.NoShrinker)
	}
}

func TestExtensionFieldProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("mul commutes", prop.ForAll(
		func(a, b ExtensionFieldElement) bool {
			var l, r ExtensionFieldElement
			l.Mul(&a, &b)
			r.Mul(&b, &a)
			return l.VartimeEq(&r)
		},
		genExtElement(), genExtElement(),
	))

	properties.Property("mul distributes over add", prop.ForAll(
		func(a, b, c ExtensionFieldElement) bool {
			var l, r, t ExtensionFieldElement
			t.Add(&b, &c)
			l.Mul(&a, &t)
			r.Mul(&a, &b)
			t.Mul(&a, &c)
			r.Add(&r, &t)
			return l.VartimeEq(&r)
		},
		genExtElement(), genExtElement(), genExtElement(),
	))

	properties.Property("square matches mul", prop.ForAll(
		func(a ExtensionFieldElement) bool {
			var l, r ExtensionFieldElement
			l.Square(&a)
			r.Mul(&a, &a)
			return l.VartimeEq(&r)
		},
		genExtElement(),
	))

	properties.Property("cube matches square then mul", prop.ForAll(
		func(a ExtensionFieldElement) bool {
			var l, r ExtensionFieldElement
			l.Cube(&a)
			r.Square(&a)
			r.Mul(&r, &a)
			return l.VartimeEq(&r)
		},
		genExtElement(),
	))

	properties.Property("x * inv(x) = 1", prop.ForAll(
		func(a ExtensionFieldElement) bool {
			if a.IsZero() {
				return true
			}
			var inv, prod ExtensionFieldElement
			inv.Inv(&a)
			prod.Mul(&a, &inv)
			return prod.IsOne()
		},
		genExtElement(),
	))

	properties.Property("sqrt of a square squares back", prop.ForAll(
		func(y ExtensionFieldElement) bool {
			var u, root, check ExtensionFieldElement
			u.Square(&y)
			if !root.Sqrt(&u) {
				return false
			}
			check.Square(&root)
			return check.VartimeEq(&u)
		},
		genExtElement(),
	))

	properties.Property("sqrt sign is canonical (even first coordinate)", prop.ForAll(
		func(y ExtensionFieldElement) bool {
			var u, root ExtensionFieldElement
			u.Square(&y)
			if !root.Sqrt(&u) {
				return false
			}
			var buf [ExtensionBytes]byte
			root.ToBytes(buf[:])
			if root.A.isZero() {
				return buf[ElementBytes]&1 == 0
			}
			return buf[0]&1 == 0
		},
		genExtElement(),
	))

	properties.Property("fractional sqrt agrees with sqrt of the quotient", prop.ForAll(
		func(y, v ExtensionFieldElement) bool {
			if v.IsZero() {
				return true
			}
			// u = y^2 * v, so u/v is a square with root +-y
			var u, frac, check ExtensionFieldElement
			u.Square(&y)
			u.Mul(&u, &v)
			if !frac.SqrtFrac(&u, &v) {
				return false
			}
			check.Square(&frac)
			check.Mul(&check, &v)
			return check.VartimeEq(&u)
		},
		genExtElement(), genExtElement(),
	))

	properties.Property("cubes pass the cube test", prop.ForAll(
		func(a ExtensionFieldElement) bool {
			if a.IsZero() {
				return true
			}
			var c ExtensionFieldElement
			c.Cube(&a)
			return c.IsCube()
		},
		genExtElement(),
	))

	properties.Property("serialization round-trips canonically", prop.ForAll(
		func(a ExtensionFieldElement) bool {
			var buf [ExtensionBytes]byte
			a.ToBytes(buf[:])
			var b ExtensionFieldElement
			b.FromBytes(buf[:])
			return a.VartimeEq(&b)
		},
		genExtElement(),
	))

	properties.TestingRun(t)
}

func TestCyclotomicOps(t *testing.T) {
	assert := require.New(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	// u^(p-1) = conj(u)/u has norm one for any nonzero u
	toCyclotomic := func(u *ExtensionFieldElement) ExtensionFieldElement {
		var c, inv ExtensionFieldElement
		inv.Inv(u)
		c.Conj(u)
		c.Mul(&c, &inv)
		return c
	}

	properties.Property("conjugate quotient lands in the subgroup", prop.ForAll(
		func(u ExtensionFieldElement) bool {
			if u.IsZero() {
				return true
			}
			c := toCyclotomic(&u)
			return c.InCyclotomicSubgroup()
		},
		genExtElement(),
	))

	properties.Property("cyclotomic squaring matches generic squaring", prop.ForAll(
		func(u ExtensionFieldElement) bool {
			if u.IsZero() {
				return true
			}
			c := toCyclotomic(&u)
			var l, r ExtensionFieldElement
			l.CyclotomicSquare(&c)
			r.Square(&c)
			return l.VartimeEq(&r)
		},
		genExtElement(),
	))

	properties.Property("cyclotomic cubing matches generic cubing", prop.ForAll(
		func(u ExtensionFieldElement) bool {
			if u.IsZero() {
				return true
			}
			c := toCyclotomic(&u)
			var l, r ExtensionFieldElement
			l.CyclotomicCube(&c)
			r.Cube(&c)
			return l.VartimeEq(&r)
		},
		genExtElement(),
	))

	properties.Property("cyclotomic inverse is the conjugate", prop.ForAll(
		func(u ExtensionFieldElement) bool {
			if u.IsZero() {
				return true
			}
			c := toCyclotomic(&u)
			var inv, prod ExtensionFieldElement
			inv.CyclotomicInv(&c)
			prod.Mul(&c, &inv)
			return prod.IsOne()
		},
		genExtElement(),
	))

	properties.TestingRun(t)

	// the unit element is trivially cyclotomic
	var one ExtensionFieldElement
	one.SetOne()
	assert.True(one.InCyclotomicSubgroup())
	assert.True(one.IsCube())
}

func TestBatchInvert(t *testing.T) {
	assert := require.New(t)
	in := make([]ExtensionFieldElement, 10)
	for i := range in {
		var x PrimeFieldElement
		x.SetUint64(uint64(2*i + 3))
		in[i].A = x.A
		var y PrimeFieldElement
		y.SetUint64(uint64(5*i + 1))
		in[i].B = y.A
	}
	out := make([]ExtensionFieldElement, len(in))
	BatchInvert(out, in)
	for i := range in {
		var want ExtensionFieldElement
		want.Inv(&in[i])
		assert.True(out[i].VartimeEq(&want), "batch inverse %d", i)
	}
}
