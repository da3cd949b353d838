// Copyright 2025 Zintix Labs
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

package dist

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/data"
	"github.com/zintix-labs/rvlab/sdk/misc"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"gonum.org/v1/gonum/mathext"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v want %v (tol %v)", name, got, want, tol)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertDomain(t *testing.T, name string, err error) {
	t.Helper()
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("%s: expected domain error, got %v", name, err)
	}
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
		t.Fatalf("%s: expected warn-level *errs.E, got %v", name, err)
	}
}

// checkSupported 所有抽樣值都必須在支撐集內，且密度有限。
func checkSupported[T any, D interface {
	rv.Rv[T]
	rv.Support[T]
}](t *testing.T, name string, d D, n int, src core.RAND) []T {
	t.Helper()
	xs := rv.Sample[T](d, n, src)
	if len(xs) != n {
		t.Fatalf("%s: expected %d samples, got %d", name, n, len(xs))
	}
	for i, x := range xs {
		if !d.Supports(x) {
			t.Fatalf("%s: sample %d (%v) outside support", name, i, x)
		}
		if f := d.LnF(x); !rv.IsFinite(f) {
			t.Fatalf("%s: ln density of sample %v is %v", name, x, f)
		}
	}
	return xs
}

func assertNegInf(t *testing.T, name string, v float64) {
	t.Helper()
	if !math.IsInf(v, -1) {
		t.Fatalf("%s: expected -Inf, got %v", name, v)
	}
}

// canonicalZs 列舉 n 個項目的所有正規形式分割
func canonicalZs(n int) [][]int {
	var out [][]int
	var rec func(z []int, k int)
	rec = func(z []int, k int) {
		if len(z) == n {
			out = append(out, slices.Clone(z))
			return
		}
		for g := 0; g <= k; g++ {
			next := k
			if g == k {
				next = k + 1
			}
			rec(append(z, g), next)
		}
	}
	rec(nil, 0)
	return out
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

func TestNewBetaDomain(t *testing.T) {
	bad := [][2]float64{{0, 1}, {1, 0}, {-1, 1}, {math.NaN(), 1}, {1, math.Inf(1)}}
	for _, p := range bad {
		_, err := NewBeta(p[0], p[1])
		assertDomain(t, "beta", err)
	}
	b, err := NewBeta(2, 3)
	mustNoErr(t, err)
	if b.Alpha() != 2 || b.Beta() != 3 {
		t.Fatalf("unexpected params %v", b)
	}
}

func TestOtherConstructorsDomain(t *testing.T) {
	_, err := NewBernoulli(1.2)
	assertDomain(t, "bernoulli > 1", err)
	_, err = NewBernoulli(math.NaN())
	assertDomain(t, "bernoulli nan", err)
	_, err = NewGaussian(0, 0)
	assertDomain(t, "gaussian sigma", err)
	_, err = NewGaussian(math.Inf(1), 1)
	assertDomain(t, "gaussian mu", err)
	_, err = NewBetaBinomial(-1, 1, 1)
	assertDomain(t, "betabinom n", err)
	_, err = NewBetaBinomial(3, 0, 1)
	assertDomain(t, "betabinom alpha", err)
	_, err = NewCategorical([]float64{0, 0})
	assertDomain(t, "categorical zero", err)
	_, err = CategoricalUniform(0)
	assertDomain(t, "categorical k", err)
	_, err = NewCrp(-1, 3)
	assertDomain(t, "crp alpha", err)
	_, err = NewCrp(1, 0)
	assertDomain(t, "crp n", err)
}

// -----------------------------------------------------------------------------
// Concrete scenarios
// -----------------------------------------------------------------------------

// TestJeffreysF64AndF32 同一個 Beta(0.5,0.5) 值抽 100 個 float64 與 100 個 float32，
// 全部落在 (0,1)，且 0.5 處的對數密度在兩種表示下一致。
func TestJeffreysF64AndF32(t *testing.T) {
	b, err := NewBeta(0.5, 0.5)
	mustNoErr(t, err)
	src := core.NewDefault(0x5eed)

	f64 := rv.Sample[float64](b.F64(), 100, src)
	f32 := rv.Sample[float32](b.F32(), 100, src)
	for _, x := range f64 {
		if !(x > 0 && x < 1) {
			t.Fatalf("float64 sample %v outside (0,1)", x)
		}
	}
	for _, x := range f32 {
		if !(x > 0 && x < 1) {
			t.Fatalf("float32 sample %v outside (0,1)", x)
		}
	}

	want := math.Log(2 / math.Pi)
	approx(t, "ln_pdf f64", b.F64().LnPdf(0.5), want, 1e-12)
	approx(t, "ln_pdf f32", b.F32().LnPdf(float32(0.5)), want, 1e-6)
	approx(t, "pdf f64", rv.Pdf[float64](b.F64(), 0.5), 2/math.Pi, 1e-12)
}

// TestBetaWeightFeedsBernoulli 以 Beta(0.5,0.5) 的一個抽樣值作為權重建構 Bernoulli，
// 抽 100 次，結果都是合法的兩值之一且 ln_pmf 有限。
func TestBetaWeightFeedsBernoulli(t *testing.T) {
	src := core.NewDefault(99)
	bern, err := rv.DrawParam(Jeffreys().F64(), NewBernoulli, src)
	mustNoErr(t, err)

	outs := rv.Sample[bool](bern.Bool(), 100, src)
	if len(outs) != 100 {
		t.Fatalf("expected 100 outcomes, got %d", len(outs))
	}
	for _, y := range outs {
		if f := bern.Bool().LnPmf(y); !rv.IsFinite(f) || f > 0 {
			t.Fatalf("ln_pmf(%v) = %v", y, f)
		}
	}

	// float32 權重同樣可以直接作為參數
	bern32, err := rv.DrawParam(Jeffreys().F32(), NewBernoulliFrom[float32], src)
	mustNoErr(t, err)
	checkSupported[uint8](t, "bernoulli u8 from f32", BernoulliOf[uint8](bern32), 100, src)
}

// -----------------------------------------------------------------------------
// Support and density
// -----------------------------------------------------------------------------

func TestSamplesAlwaysSupported(t *testing.T) {
	src := core.NewDefault(1)
	beta, _ := NewBeta(2, 5)
	checkSupported[float64](t, "beta f64", beta.F64(), 1000, src)
	checkSupported[float32](t, "beta f32", beta.F32(), 1000, src)

	g, _ := NewGaussian(3, 0.5)
	checkSupported[float64](t, "gaussian f64", g.F64(), 1000, src)
	g32, err := g.F32()
	mustNoErr(t, err)
	checkSupported[float32](t, "gaussian f32", g32, 1000, src)

	bern, _ := NewBernoulli(0.3)
	checkSupported[bool](t, "bernoulli bool", bern.Bool(), 1000, src)
	checkSupported[int8](t, "bernoulli i8", BernoulliOf[int8](bern), 1000, src)
	checkSupported[uint64](t, "bernoulli u64", BernoulliOf[uint64](bern), 1000, src)

	bb, _ := NewBetaBinomial(10, 0.5, 2)
	checkSupported[int](t, "betabinom int", bb.Int(), 1000, src)
	bb16, err := BetaBinomialOf[uint16](bb)
	mustNoErr(t, err)
	checkSupported[uint16](t, "betabinom u16", bb16, 1000, src)

	cat, _ := NewCategorical([]float64{1, 0, 2, 3})
	checkSupported[int](t, "categorical", cat.Int(), 1000, src)

	crp, _ := NewCrp(1.5, 6)
	checkSupported[data.Partition](t, "crp", crp, 500, src)

	checkSupported[Bernoulli](t, "beta over bernoulli", beta.OverBernoulli(), 500, src)
}

// TestFloat32NeverHitsBoundary 極端 U 形 Beta 在 float32 下經常捨入到 0 或 1，必須重抽。
func TestFloat32NeverHitsBoundary(t *testing.T) {
	b, err := NewBeta(0.05, 0.05)
	mustNoErr(t, err)
	src := core.NewDefault(2024)
	for i, x := range rv.Sample[float32](b.F32(), 5000, src) {
		if !(x > 0 && x < 1) {
			t.Fatalf("sample %d = %v outside (0,1)", i, x)
		}
	}
}

// TestTinyBetaShapesReturn 極小的 α、β 下 Gamma 在線性空間下溢，抽樣仍須結束並落在 (0,1)。
func TestTinyBetaShapesReturn(t *testing.T) {
	src := core.NewDefault(77)
	for _, a := range []float64{1e-4, 1e-8, 1e-300} {
		b, err := NewBeta(a, a)
		mustNoErr(t, err)
		checkSupported[float64](t, "tiny beta f64", b.F64(), 200, src)
		checkSupported[float32](t, "tiny beta f32", b.F32(), 200, src)
	}
	lop, err := NewBeta(1e-8, 5)
	mustNoErr(t, err)
	checkSupported[float64](t, "lopsided beta", lop.F64(), 200, src)

	// 極限為 Bernoulli(1/2)：兩端都要出現
	b, _ := NewBeta(1e-8, 1e-8)
	low, high := 0, 0
	for _, x := range rv.Sample[float64](b.F64(), 400, src) {
		if x < 0.5 {
			low++
		} else {
			high++
		}
	}
	if low < 100 || high < 100 {
		t.Fatalf("tiny symmetric beta should split between both ends, got low=%d high=%d", low, high)
	}
}

func TestGaussianViewRange(t *testing.T) {
	far, err := NewGaussian(1e300, 1)
	mustNoErr(t, err)
	if _, err := far.F32(); !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("mu beyond float32 must be domain error, got %v", err)
	}
	wide, err := NewGaussian(0, 1e300)
	mustNoErr(t, err)
	if _, err := GaussianOf[float32](wide); !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("sigma beyond float32 must be domain error, got %v", err)
	}

	src := core.NewDefault(5)
	checkSupported[float64](t, "far gaussian f64", far.F64(), 200, src)
	checkSupported[float64](t, "wide gaussian f64", wide.F64(), 200, src)

	edge, err := NewGaussian(0, 3e38)
	mustNoErr(t, err)
	e32, err := edge.F32()
	mustNoErr(t, err)
	checkSupported[float32](t, "edge gaussian f32", e32, 200, src)
}

func TestOutOfSupportIsNegInf(t *testing.T) {
	beta, _ := NewBeta(2, 2)
	for _, x := range []float64{0, 1, -0.5, 1.5, math.NaN(), math.Inf(1)} {
		assertNegInf(t, "beta", beta.F64().LnPdf(x))
	}
	assertNegInf(t, "beta f32", beta.F32().LnPdf(float32(1)))

	g := StandardGaussian()
	assertNegInf(t, "gaussian nan", g.F64().LnPdf(math.NaN()))
	assertNegInf(t, "gaussian inf", g.F64().LnPdf(math.Inf(-1)))

	bern, _ := NewBernoulli(0.4)
	assertNegInf(t, "bernoulli 2", BernoulliOf[int](bern).LnPmf(2))
	assertNegInf(t, "bernoulli -1", BernoulliOf[int](bern).LnPmf(-1))

	sure, _ := NewBernoulli(1)
	if sure.Bool().Supports(false) {
		t.Fatalf("p=1 must not support false")
	}
	assertNegInf(t, "bernoulli p=1 false", sure.Bool().LnPmf(false))
	approx(t, "bernoulli p=1 true", sure.Bool().LnPmf(true), 0, 0)

	bb, _ := NewBetaBinomial(4, 1, 1)
	assertNegInf(t, "betabinom n+1", bb.Int().LnPmf(5))
	assertNegInf(t, "betabinom -1", bb.Int().LnPmf(-1))

	cat, _ := NewCategorical([]float64{1, 0, 1})
	assertNegInf(t, "categorical k", cat.Int().LnPmf(3))
	assertNegInf(t, "categorical zero weight", cat.Int().LnPmf(1))

	crp, _ := NewCrp(1, 3)
	short, _ := data.PartitionFromZ([]int{0, 1})
	assertNegInf(t, "crp length", crp.LnPmf(short))

	assertNegInf(t, "over bernoulli p=1", beta.OverBernoulli().LnPdf(sure))
}

func TestDiscretePmfSumsToOne(t *testing.T) {
	bern, _ := NewBernoulli(0.37)
	sum := rv.Pmf[bool](bern.Bool(), true) + rv.Pmf[bool](bern.Bool(), false)
	approx(t, "bernoulli bool", sum, 1, 1e-12)
	sum = rv.Pmf[int16](BernoulliOf[int16](bern), 0) + rv.Pmf[int16](BernoulliOf[int16](bern), 1)
	approx(t, "bernoulli i16", sum, 1, 1e-12)

	bb, _ := NewBetaBinomial(10, 0.5, 2)
	want := []float64{
		0.387765, 0.176257, 0.118973, 0.0881283, 0.0674732, 0.0520508,
		0.039761, 0.0295368, 0.020768, 0.0130762, 0.00621118,
	}
	sum = 0
	for k := 0; k <= 10; k++ {
		lp := bb.Int().LnPmf(k)
		if lp > 0 {
			t.Fatalf("ln_pmf(%d) = %v > 0", k, lp)
		}
		approx(t, "betabinom pmf", math.Exp(lp), want[k], 1e-6)
		sum += math.Exp(lp)
	}
	approx(t, "betabinom sum", sum, 1, 1e-10)
	approx(t, "betabinom cdf(10)", bb.Int().Cdf(10), 1, 1e-12)
	approx(t, "betabinom cdf(1)", bb.Int().Cdf(1), want[0]+want[1], 1e-6)

	cat, _ := NewCategorical([]float64{2, 5, 0, 3})
	sum = 0
	for k := 0; k < cat.K(); k++ {
		sum += rv.Pmf[int](cat.Int(), k)
	}
	approx(t, "categorical sum", sum, 1, 1e-12)

	for _, n := range []int{1, 3, 4, 5} {
		crp, _ := NewCrp(0.7, n)
		sum = 0
		for _, z := range canonicalZs(n) {
			p, err := data.PartitionFromZ(z)
			mustNoErr(t, err)
			lp := crp.LnPmf(p)
			if lp > 1e-12 {
				t.Fatalf("crp ln_pmf > 0: %v", lp)
			}
			sum += math.Exp(lp)
		}
		approx(t, "crp sum", sum, 1, 1e-10)
	}
}

func TestContinuousNormalization(t *testing.T) {
	beta, _ := NewBeta(2, 5)
	f := func(x float64) float64 { return rv.Pdf[float64](beta.F64(), x) }
	approx(t, "beta(2,5)", misc.Quad(f, 0, 1, 64), 1, 1e-8)

	g, _ := NewGaussian(1.5, 2)
	fg := func(x float64) float64 { return rv.Pdf[float64](g.F64(), x) }
	approx(t, "gaussian", misc.QuadEps(fg, 1.5-20, 1.5+20, 1e-10), 1, 1e-7)
}

// -----------------------------------------------------------------------------
// Sampling protocol
// -----------------------------------------------------------------------------

func TestSampleDeterminism(t *testing.T) {
	b, _ := NewBeta(0.5, 0.5)
	a := rv.Sample[float64](b.F64(), 50, core.NewDefault(42))
	c := rv.Sample[float64](b.F64(), 50, core.NewDefault(42))
	if !slices.Equal(a, c) {
		t.Fatalf("same seed must yield identical sequences")
	}

	src := core.NewDefault(42)
	single := make([]float64, 50)
	for i := range single {
		single[i] = b.F64().Draw(src)
	}
	if !slices.Equal(a, single) {
		t.Fatalf("Sample must equal repeated Draw")
	}

	var streamed []float64
	for x := range rv.Stream[float64](b.F64(), core.NewDefault(42)) {
		streamed = append(streamed, x)
		if len(streamed) == 50 {
			break
		}
	}
	if !slices.Equal(a, streamed) {
		t.Fatalf("Stream must equal Sample")
	}

	if got := rv.Sample[float64](b.F64(), 0, src); len(got) != 0 {
		t.Fatalf("expected empty sample for n=0")
	}
	if got := rv.Sample[float64](b.F64(), -3, src); len(got) != 0 {
		t.Fatalf("expected empty sample for n<0")
	}
}

// Prob 自訂輸出型別：底層為 float64 的具名型別也能直接使用。
type Prob float64

func TestNamedOutputType(t *testing.T) {
	b := Jeffreys()
	v := BetaOf[Prob](b)
	checkSupported[Prob](t, "named", v, 100, core.NewDefault(5))
	approx(t, "named ln_pdf", v.LnPdf(Prob(0.5)), b.F64().LnPdf(0.5), 0)
}

func TestIntegerViewRange(t *testing.T) {
	bb, _ := NewBetaBinomial(200, 1, 1)
	_, err := BetaBinomialOf[int8](bb)
	assertDomain(t, "betabinom int8", err)
	_, err = BetaBinomialOf[uint8](bb)
	mustNoErr(t, err)

	w := make([]float64, 300)
	for i := range w {
		w[i] = 1
	}
	cat, _ := NewCategorical(w)
	_, err = CategoricalOf[uint8](cat)
	assertDomain(t, "categorical uint8", err)
	_, err = CategoricalOf[int16](cat)
	mustNoErr(t, err)
}

// -----------------------------------------------------------------------------
// Composition
// -----------------------------------------------------------------------------

func TestPriorPredictiveMarginal(t *testing.T) {
	b, _ := NewBeta(2, 3)
	pp := PriorPredictive(b)
	const n = 20000
	ys, err := pp.Sample(n, core.NewDefault(77))
	mustNoErr(t, err)
	if len(ys) != n {
		t.Fatalf("expected %d draws, got %d", n, len(ys))
	}
	k := 0
	for _, y := range ys {
		if y {
			k++
		}
	}
	// 邊際為 Bernoulli(α/(α+β)) = Bernoulli(0.4)，標準差約 0.0035
	approx(t, "marginal p", float64(k)/n, 0.4, 0.02)
	approx(t, "ln prior predictive", b.OverBernoulli().LnPriorPredictive(true), math.Log(0.4), 1e-12)

	pp32 := PriorPredictiveOf[float32](Jeffreys())
	ys, err = pp32.Sample(n, core.NewDefault(78))
	mustNoErr(t, err)
	k = 0
	for _, y := range ys {
		if y {
			k++
		}
	}
	approx(t, "marginal p f32", float64(k)/n, 0.5, 0.02)
}

func TestComposeNoCaching(t *testing.T) {
	// 每次抽樣都重抽參數：同一 seed 下，Compound.Draw 與手動 DrawParam+Draw 一致
	b := Jeffreys()
	pp := PriorPredictive(b)
	s1 := core.NewDefault(3)
	s2 := core.NewDefault(3)
	for i := 0; i < 100; i++ {
		got, err := pp.Draw(s1)
		mustNoErr(t, err)
		bern, err := rv.DrawParam(b.F64(), NewBernoulli, s2)
		mustNoErr(t, err)
		if want := bern.Bool().Draw(s2); got != want {
			t.Fatalf("draw %d mismatch", i)
		}
	}
}

func TestComposeDomainErrorPropagates(t *testing.T) {
	// 常態分佈的抽樣值大多不在 [0,1]，Bernoulli 建構必然失敗
	c := rv.Compose[float64, bool](StandardGaussian().F64(), func(p float64) (rv.Rv[bool], error) {
		bern, err := NewBernoulli(p)
		if err != nil {
			return nil, err
		}
		return bern.Bool(), nil
	})
	_, err := c.Sample(1000, core.NewDefault(1))
	assertDomain(t, "compound sample", err)

	_, err = rv.DrawParam(StandardGaussian().F64(), NewBernoulli, core.NewDefault(12))
	for i := 0; err == nil && i < 100; i++ {
		_, err = rv.DrawParam(StandardGaussian().F64(), NewBernoulli, core.NewDefault(int64(i)))
	}
	assertDomain(t, "draw param", err)
}

// -----------------------------------------------------------------------------
// Conjugate analysis
// -----------------------------------------------------------------------------

func mustF(t *testing.T) func(v float64, err error) float64 {
	return func(v float64, err error) float64 {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func TestBetaBernoulliConjugate(t *testing.T) {
	prior := Jeffreys()
	obs := data.FromData([]bool{true, true, false})

	post, err := prior.Posterior(obs)
	if err != nil {
		t.Fatalf("posterior: %v", err)
	}
	approx(t, "post alpha", post.Alpha(), 2.5, 0)
	approx(t, "post beta", post.Beta(), 1.5, 0)

	wantM := mathext.Lbeta(2.5, 1.5) - mathext.Lbeta(0.5, 0.5)
	approx(t, "ln m", mustF(t)(prior.LnM(obs)), wantM, 1e-12)
	approx(t, "ln pp", mustF(t)(prior.LnPp(true, obs)), math.Log(2.5/4), 1e-12)

	stat, _ := data.BernoulliSuffStatFromCounts(3, 2)
	viaStat := data.FromSuffStat[bool](stat)
	approx(t, "ln m suffstat", mustF(t)(prior.LnM(viaStat)), wantM, 1e-12)

	// 無觀測時後驗即先驗
	if p, err := prior.Posterior(data.None[bool]()); err != nil || p != prior {
		t.Fatalf("posterior with no data should equal prior, got %v %v", p, err)
	}
	approx(t, "ln m none", mustF(t)(prior.LnM(data.None[bool]())), 0, 1e-12)
}

// countStat 不是 BernoulliSuffStat 的 bool 統計量
type countStat struct{ n int }

func (c *countStat) N() int         { return c.n }
func (c *countStat) Observe(x bool) { c.n++ }
func (c *countStat) Forget(x bool)  { c.n-- }

func TestConjugateRejectsForeignSuffStat(t *testing.T) {
	prior := Jeffreys()
	foreign := data.FromSuffStat[bool](&countStat{n: 5})
	if _, err := prior.Posterior(foreign); errs.Level(err) != errs.Warn {
		t.Fatalf("foreign stat must be warn, got %v", err)
	}
	if _, err := prior.LnM(foreign); err == nil {
		t.Fatalf("foreign stat must fail ln m")
	}
	if _, err := prior.LnPp(true, foreign); err == nil {
		t.Fatalf("foreign stat must fail ln pp")
	}
}

func TestSequentialLnMMatchesLnM(t *testing.T) {
	prior, _ := NewBeta(2, 3)
	xs := []bool{true, false, false, true, true, false, true}
	seq, err := data.SequentialLnM[bool, Bernoulli, Beta](prior, BernoulliUniform(), xs)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	approx(t, "chain rule", seq, mustF(t)(prior.LnM(data.FromData(xs))), 1e-12)
}

// -----------------------------------------------------------------------------
// Moments and information
// -----------------------------------------------------------------------------

func TestBetaMoments(t *testing.T) {
	b, _ := NewBeta(2, 3)
	m, _ := b.Mean()
	v, _ := b.Variance()
	approx(t, "mean", m, 0.4, 1e-12)
	approx(t, "variance", v, 0.04, 1e-12)
	mode, ok := b.F64().Mode()
	if !ok {
		t.Fatalf("expected mode")
	}
	approx(t, "mode", mode, 1.0/3.0, 1e-12)
	if _, ok := Jeffreys().F64().Mode(); ok {
		t.Fatalf("U-shaped beta has no unique mode")
	}
	approx(t, "entropy uniform", BetaUniform().Entropy(), 0, 1e-12)
	approx(t, "kl self", b.Kl(b), 0, 1e-12)
	if b.Kl(Jeffreys()) <= 0 {
		t.Fatalf("kl between different betas must be positive")
	}
	approx(t, "cdf/invcdf", b.F64().Cdf(b.F64().InvCdf(0.3)), 0.3, 1e-9)
	med, _ := Jeffreys().Median()
	approx(t, "jeffreys median", med, 0.5, 1e-9)
}

func TestBernoulliMoments(t *testing.T) {
	u := BernoulliUniform()
	approx(t, "entropy", u.Entropy(), math.Ln2, 1e-12)
	if _, ok := u.Bool().Mode(); ok {
		t.Fatalf("p=0.5 has no unique mode")
	}
	b, _ := NewBernoulli(0.8)
	if m, ok := b.Bool().Mode(); !ok || !m {
		t.Fatalf("expected mode true")
	}
	if m, ok := BernoulliOf[uint32](b).Mode(); !ok || m != 1 {
		t.Fatalf("expected mode 1")
	}
	med, _ := b.Median()
	approx(t, "median", med, 1, 0)
	approx(t, "kl self", b.Kl(b), 0, 1e-12)
	approx(t, "cdf false", b.Bool().Cdf(false), 0.2, 1e-12)
	approx(t, "cdf int 0", BernoulliOf[int](b).Cdf(0), 0.2, 1e-12)
	approx(t, "cdf int -1", BernoulliOf[int](b).Cdf(-1), 0, 0)
	sk, _ := b.Skewness()
	approx(t, "skewness", sk, (1-1.6)/math.Sqrt(0.16), 1e-12)
	if _, ok := (Bernoulli{p: 0}).Kurtosis(); ok {
		t.Fatalf("degenerate bernoulli has no kurtosis")
	}
}

func TestGaussianCdfAndKl(t *testing.T) {
	g, _ := NewGaussian(1, 2)
	approx(t, "cdf at mean", g.F64().Cdf(1), 0.5, 1e-12)
	approx(t, "roundtrip", g.F64().InvCdf(g.F64().Cdf(2.3)), 2.3, 1e-9)
	lo, hi := g.F64().Interval(0.95)
	approx(t, "interval lo", lo, 1-1.959963984540054*2, 1e-6)
	approx(t, "interval hi", hi, 1+1.959963984540054*2, 1e-6)

	h, _ := NewGaussian(0, 1)
	want := math.Log(1.0/2.0) + (4+1)/2.0 - 0.5
	approx(t, "kl", g.Kl(h), want, 1e-12)
	approx(t, "entropy", h.Entropy(), misc.HalfLn2PiE, 1e-12)
}

// -----------------------------------------------------------------------------
// Sampling statistics
// -----------------------------------------------------------------------------

func TestCategoricalFrequencies(t *testing.T) {
	cat, _ := NewCategorical([]float64{1, 3, 0, 6})
	src := core.NewDefault(8)
	counts := make([]int, cat.K())
	const n = 50000
	for _, x := range rv.Sample[int](cat.Int(), n, src) {
		counts[x]++
	}
	for i, w := range cat.Weights() {
		approx(t, "categorical freq", float64(counts[i])/n, w, 0.01)
	}
	if m, ok := cat.Int().Mode(); !ok || m != 3 {
		t.Fatalf("expected mode 3, got %v", m)
	}
	d := cat.SampleDistinct(3, src)
	if len(d) != 3 || slices.Contains(d, 2) {
		t.Fatalf("unexpected distinct sample %v", d)
	}
	approx(t, "kl self", cat.Kl(cat), 0, 1e-12)
}

func TestBetaBinomialSampleMean(t *testing.T) {
	bb, _ := NewBetaBinomial(10, 0.5, 2)
	xs := rv.Sample[int](bb.Int(), 20000, core.NewDefault(10))
	sum := 0
	for _, x := range xs {
		sum += x
	}
	m, _ := bb.Mean()
	approx(t, "betabinom mean", float64(sum)/float64(len(xs)), m, 0.1)
}

func TestCrpExpectedGroups(t *testing.T) {
	crp, _ := NewCrp(2, 20)
	src := core.NewDefault(6)
	const n = 4000
	total := 0
	for _, p := range rv.Sample[data.Partition](crp, n, src) {
		total += p.K()
	}
	approx(t, "crp E[K]", float64(total)/n, crp.ExpectedK(), 0.15)
}
