package bleichenbacher

import (
	"context"
	"math/big"
	"testing"

	"github.com/paddingoracle/bleichenbacher/ciphertext"
	"github.com/paddingoracle/bleichenbacher/oracle"
)

// newTestEngine builds an Engine with c0 already set, bypassing blinding,
// so step 2's strategies can be exercised directly against a
// PlaintextOracle fixture.
func newTestEngine(t *testing.T, n, e, c0 *big.Int, k int) *Engine {
	t.Helper()

	orc := oracle.NewPlaintextOracle(n, e, k)
	b := new(big.Int).Lsh(big.NewInt(1), uint(8*(k-2)))
	twoB := new(big.Int).Lsh(b, 1)
	threeBminus1 := new(big.Int).Sub(new(big.Int).Mul(b, big.NewInt(3)), big.NewInt(1))

	return &Engine{
		n: n, e: e, k: k,
		twoB: twoB, threeBminus1: threeBminus1,
		c0:      c0,
		s0:      big.NewInt(1),
		oracle:  orc,
		builder: ciphertext.New(n, e, k, true),
		log:     nopTestLogger{},
	}
}

type nopTestLogger struct{}

func (nopTestLogger) Trace(string, ...any) {}
func (nopTestLogger) Debug(string, ...any) {}
func (nopTestLogger) Info(string, ...any)  {}
func (nopTestLogger) Error(string, ...any) {}

func TestSearch2aFindsFirstConformantS(t *testing.T) {
	n := big.NewInt(9999991)
	eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
	eng.i = 1

	if err := eng.search2a(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	lo, hi := oracle.ConformantBounds(3)
	t_ := new(big.Int).Mul(eng.c0, eng.sI)
	t_.Mod(t_, n)
	if t_.Cmp(lo) < 0 || t_.Cmp(hi) > 0 {
		t.Errorf("sI=%s is not conformant: t=%s, want in [%s,%s]", eng.sI, t_, lo, hi)
	}

	// 2a must start at ceil(n/3B) and only go up from there.
	threeB := new(big.Int).Add(hi, big.NewInt(1))
	start := new(big.Int).Div(n, threeB)
	if new(big.Int).Mod(n, threeB).Sign() != 0 {
		start.Add(start, big.NewInt(1))
	}
	if eng.sI.Cmp(start) < 0 {
		t.Errorf("sI=%s is below the 2a search start %s", eng.sI, start)
	}
}

func TestSearch2bContinuesFromLastS(t *testing.T) {
	n := big.NewInt(9999991)
	eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
	eng.i = 2
	eng.m = []Interval{{Lo: big.NewInt(1), Hi: big.NewInt(2)}} // len >= 2 not required by search2b itself
	eng.sI = big.NewInt(1000)

	if err := eng.search2b(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if eng.sI.Cmp(big.NewInt(1000)) <= 0 {
		t.Errorf("search2b must strictly increase sI, got %s from a start of 1000", eng.sI)
	}

	lo, hi := oracle.ConformantBounds(3)
	t_ := new(big.Int).Mul(eng.c0, eng.sI)
	t_.Mod(t_, n)
	if t_.Cmp(lo) < 0 || t_.Cmp(hi) > 0 {
		t.Errorf("sI=%s is not conformant", eng.sI)
	}
}

func TestSearch2cSearchesWindow(t *testing.T) {
	n := big.NewInt(9999991)
	eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
	eng.i = 2
	eng.sI = big.NewInt(500) // sPrev, used to derive the initial r
	eng.m = []Interval{{Lo: eng.twoB, Hi: eng.threeBminus1}}

	if err := eng.search2c(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	lo, hi := oracle.ConformantBounds(3)
	t_ := new(big.Int).Mul(eng.c0, eng.sI)
	t_.Mod(t_, n)
	if t_.Cmp(lo) < 0 || t_.Cmp(hi) > 0 {
		t.Errorf("sI=%s is not conformant", eng.sI)
	}
}

func TestSearchDispatch(t *testing.T) {
	n := big.NewInt(9999991)

	t.Run("first iteration uses 2a", func(t *testing.T) {
		eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
		eng.i = 1
		eng.m = []Interval{{Lo: eng.twoB, Hi: eng.threeBminus1}}
		if err := eng.search(context.Background()); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	})

	t.Run("multiple intervals uses 2b", func(t *testing.T) {
		eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
		eng.i = 2
		eng.sI = big.NewInt(1)
		eng.m = []Interval{
			{Lo: big.NewInt(512), Hi: big.NewInt(600)},
			{Lo: big.NewInt(650), Hi: big.NewInt(767)},
		}
		if err := eng.search(context.Background()); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	})

	t.Run("single interval after iteration 1 uses 2c", func(t *testing.T) {
		eng := newTestEngine(t, n, big.NewInt(17), big.NewInt(1), 3)
		eng.i = 2
		eng.sI = big.NewInt(500)
		eng.m = []Interval{{Lo: eng.twoB, Hi: eng.threeBminus1}}
		if err := eng.search(context.Background()); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	})
}
