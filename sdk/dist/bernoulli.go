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
	"fmt"
	"math"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/data"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bernoulli 成功機率為 p 的 Bernoulli 分佈。
//
// 輸出型別：bool（Bool view）與任意整數型別（BernoulliOf[T] view，成功為 1）。
// 支撐集為「機率質量 > 0 的結果」：p = 0 時只有失敗，p = 1 時只有成功。
type Bernoulli struct {
	p float64
}

// NewBernoulli p 必須是 [0,1] 內的有限值。
func NewBernoulli(p float64) (Bernoulli, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Bernoulli{}, errs.Domainf("bernoulli: p must be in [0, 1], got %v", p)
	}
	return Bernoulli{p: p}, nil
}

// BernoulliUniform p = 0.5
func BernoulliUniform() Bernoulli { return Bernoulli{p: 0.5} }

func (b Bernoulli) P() float64 { return b.p }

// Q 失敗機率 1 - p
func (b Bernoulli) Q() float64 { return 1 - b.p }

func (b Bernoulli) String() string { return fmt.Sprintf("Bernoulli(p: %g)", b.p) }

// EmptySuffStat 空的 BernoulliSuffStat
func (b Bernoulli) EmptySuffStat() data.SuffStat[bool] { return data.NewBernoulliSuffStat() }

// ---- 共用數學（以成功/失敗表示） ----

func (b Bernoulli) mass(success bool) float64 {
	if success {
		return b.p
	}
	return b.Q()
}

func (b Bernoulli) has(success bool) bool { return b.mass(success) > 0 }

func (b Bernoulli) lnMass(success bool) float64 { return math.Log(b.mass(success)) }

func (b Bernoulli) flip(src core.RAND) bool {
	return distuv.Bernoulli{P: b.p, Src: src}.Rand() == 1
}

// modeSuccess ok = false 表示 p = 0.5 無唯一眾數
func (b Bernoulli) modeSuccess() (success bool, ok bool) {
	q := b.Q()
	switch {
	case b.p < q:
		return false, true
	case b.p > q:
		return true, true
	default:
		return false, false
	}
}

// ---- 動差與資訊量 ----

func (b Bernoulli) Mean() (float64, bool)     { return b.p, true }
func (b Bernoulli) Variance() (float64, bool) { return b.p * b.Q(), true }

// Median p < 0.5 為 0，p > 0.5 為 1，p = 0.5 取 0.5。
func (b Bernoulli) Median() (float64, bool) {
	q := b.Q()
	switch {
	case b.p < q:
		return 0, true
	case b.p > q:
		return 1, true
	default:
		return 0.5, true
	}
}

// Entropy 以 nat 為單位；0 ln 0 視為 0。
func (b Bernoulli) Entropy() float64 {
	return -xlogx(b.p) - xlogx(b.Q())
}

func (b Bernoulli) Skewness() (float64, bool) {
	pq := b.p * b.Q()
	if pq == 0 {
		return 0, false
	}
	return (1 - 2*b.p) / math.Sqrt(pq), true
}

// Kurtosis 超額峰度
func (b Bernoulli) Kurtosis() (float64, bool) {
	pq := b.p * b.Q()
	if pq == 0 {
		return 0, false
	}
	return (1 - 6*pq) / pq, true
}

// Kl KL(b || other)；other 在 b 有質量處為 0 時回傳 +Inf。
func (b Bernoulli) Kl(other Bernoulli) float64 {
	return klTerm(b.p, other.p) + klTerm(b.Q(), other.Q())
}

func xlogx(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x * math.Log(x)
}

func klTerm(p, q float64) float64 {
	if p == 0 {
		return 0
	}
	if q == 0 {
		return math.Inf(1)
	}
	return p * (math.Log(p) - math.Log(q))
}

// ---- bool view ----

// BernoulliBool Bernoulli 的 bool 輸出 view
type BernoulliBool struct {
	d Bernoulli
}

// Bool 回傳 bool 輸出 view
func (b Bernoulli) Bool() BernoulliBool { return BernoulliBool{d: b} }

func (v BernoulliBool) Distr() Bernoulli        { return v.d }
func (v BernoulliBool) Supports(x bool) bool    { return v.d.has(x) }
func (v BernoulliBool) Draw(src core.RAND) bool { return v.d.flip(src) }
func (v BernoulliBool) LnF(x bool) float64      { return v.LnPmf(x) }
func (v BernoulliBool) LnPmf(x bool) float64 {
	return rv.LnDensity[bool](v, x, v.d.lnMass)
}

// Cdf false → q，true → 1
func (v BernoulliBool) Cdf(x bool) float64 {
	if x {
		return 1
	}
	return v.d.Q()
}

func (v BernoulliBool) Sf(x bool) float64 { return 1 - v.Cdf(x) }

func (v BernoulliBool) Mode() (bool, bool) { return v.d.modeSuccess() }

// ---- 整數 view ----

// BernoulliInt Bernoulli 的整數輸出 view：失敗為 0，成功為 1。
type BernoulliInt[T rv.Integer] struct {
	d Bernoulli
}

// BernoulliOf 回傳任意整數型別的輸出 view
func BernoulliOf[T rv.Integer](b Bernoulli) BernoulliInt[T] {
	return BernoulliInt[T]{d: b}
}

func (v BernoulliInt[T]) Distr() Bernoulli { return v.d }

func (v BernoulliInt[T]) Supports(x T) bool {
	return (x == 0 || x == 1) && v.d.has(x == 1)
}

func (v BernoulliInt[T]) Draw(src core.RAND) T {
	if v.d.flip(src) {
		return 1
	}
	return 0
}

func (v BernoulliInt[T]) LnF(x T) float64 { return v.LnPmf(x) }

func (v BernoulliInt[T]) LnPmf(x T) float64 {
	return rv.LnDensity[T](v, x, func(x T) float64 { return v.d.lnMass(x == 1) })
}

// Cdf x < 0 → 0；0 <= x < 1 → q；x >= 1 → 1
func (v BernoulliInt[T]) Cdf(x T) float64 {
	switch {
	case x < 0:
		return 0
	case x == 0:
		return v.d.Q()
	default:
		return 1
	}
}

func (v BernoulliInt[T]) Sf(x T) float64 { return 1 - v.Cdf(x) }

func (v BernoulliInt[T]) Mode() (T, bool) {
	s, ok := v.d.modeSuccess()
	if !ok {
		return 0, false
	}
	if s {
		return 1, true
	}
	return 0, true
}

var (
	_ rv.DiscreteDistr[bool]     = BernoulliBool{}
	_ rv.Cdf[bool]               = BernoulliBool{}
	_ rv.Mode[bool]              = BernoulliBool{}
	_ rv.DiscreteDistr[uint8]    = BernoulliInt[uint8]{}
	_ rv.DiscreteDistr[int64]    = BernoulliInt[int64]{}
	_ rv.Mode[int]               = BernoulliInt[int]{}
	_ rv.Mean                    = Bernoulli{}
	_ rv.Median                  = Bernoulli{}
	_ rv.Variance                = Bernoulli{}
	_ rv.Entropy                 = Bernoulli{}
	_ rv.Skewness                = Bernoulli{}
	_ rv.Kurtosis                = Bernoulli{}
	_ rv.KlDivergence[Bernoulli] = Bernoulli{}
)
