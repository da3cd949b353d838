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
	"github.com/zintix-labs/rvlab/sdk/misc"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// BetaBinomial n 次試驗、成功率服從 Beta(α, β) 的成功次數分佈，支撐集 {0..n}。
type BetaBinomial struct {
	n     int
	alpha float64
	beta  float64
}

// NewBetaBinomial n >= 0，α、β 為有限正數。
func NewBetaBinomial(n int, alpha, beta float64) (BetaBinomial, error) {
	if n < 0 {
		return BetaBinomial{}, errs.Domainf("beta binomial: n must be >= 0, got %d", n)
	}
	if !positiveFinite(alpha) || !positiveFinite(beta) {
		return BetaBinomial{}, errs.Domainf("beta binomial: alpha and beta must be in (0, ∞), got (%v, %v)", alpha, beta)
	}
	return BetaBinomial{n: n, alpha: alpha, beta: beta}, nil
}

func (b BetaBinomial) N() int         { return b.n }
func (b BetaBinomial) Alpha() float64 { return b.alpha }
func (b BetaBinomial) Beta() float64  { return b.beta }

func (b BetaBinomial) String() string {
	return fmt.Sprintf("BetaBinomial(n: %d, α: %g, β: %g)", b.n, b.alpha, b.beta)
}

// lnPmf 只會收到 [0, n] 內的 k
func (b BetaBinomial) lnPmf(k int) float64 {
	nf, kf := float64(b.n), float64(k)
	return misc.LnBinom(nf, kf) +
		mathext.Lbeta(kf+b.alpha, nf-kf+b.beta) -
		mathext.Lbeta(b.alpha, b.beta)
}

// draw 先抽 p ~ Beta(α, β)，再抽 k ~ Binomial(n, p)。
func (b BetaBinomial) draw(src core.RAND) int {
	if b.n == 0 {
		return 0
	}
	p := Beta{alpha: b.alpha, beta: b.beta}.F64().Draw(src)
	k := distuv.Binomial{N: float64(b.n), P: p, Src: src}.Rand()
	return int(k)
}

func (b BetaBinomial) cdf(k int) float64 {
	if k < 0 {
		return 0
	}
	if k >= b.n {
		return 1
	}
	lw := make([]float64, k+1)
	for i := range lw {
		lw[i] = b.lnPmf(i)
	}
	return math.Min(1, math.Exp(misc.LogSumExp(lw)))
}

func (b BetaBinomial) Mean() (float64, bool) {
	return float64(b.n) * b.alpha / (b.alpha + b.beta), true
}

func (b BetaBinomial) Variance() (float64, bool) {
	nf := float64(b.n)
	s := b.alpha + b.beta
	return nf * b.alpha * b.beta * (s + nf) / (s * s * (s + 1)), true
}

// ---- 整數 view ----

// BetaBinomialInt BetaBinomial 的整數輸出 view
type BetaBinomialInt[T rv.Integer] struct {
	d BetaBinomial
}

// BetaBinomialOf 回傳整數型別 T 的 view；n 超出 T 可表示範圍時回傳 domain error。
func BetaBinomialOf[T rv.Integer](b BetaBinomial) (BetaBinomialInt[T], error) {
	if int(T(b.n)) != b.n {
		return BetaBinomialInt[T]{}, errs.Domainf("beta binomial: n=%d does not fit the output type", b.n)
	}
	return BetaBinomialInt[T]{d: b}, nil
}

// Int int 輸出 view（n 一定可表示）
func (b BetaBinomial) Int() BetaBinomialInt[int] { return BetaBinomialInt[int]{d: b} }

func (v BetaBinomialInt[T]) Distr() BetaBinomial { return v.d }

func (v BetaBinomialInt[T]) Supports(x T) bool {
	k, ok := rv.Index(x)
	return ok && k <= v.d.n
}

func (v BetaBinomialInt[T]) Draw(src core.RAND) T { return T(v.d.draw(src)) }

func (v BetaBinomialInt[T]) LnF(x T) float64 { return v.LnPmf(x) }

func (v BetaBinomialInt[T]) LnPmf(x T) float64 {
	return rv.LnDensity[T](v, x, func(x T) float64 { return v.d.lnPmf(int(x)) })
}

func (v BetaBinomialInt[T]) Cdf(x T) float64 {
	if x < 0 {
		return 0
	}
	k, ok := rv.Index(x)
	if !ok {
		return 1
	}
	return v.d.cdf(k)
}

func (v BetaBinomialInt[T]) Sf(x T) float64 { return 1 - v.Cdf(x) }

var (
	_ rv.DiscreteDistr[int]    = BetaBinomialInt[int]{}
	_ rv.DiscreteDistr[uint16] = BetaBinomialInt[uint16]{}
	_ rv.Cdf[int32]            = BetaBinomialInt[int32]{}
	_ rv.Mean                  = BetaBinomial{}
	_ rv.Variance              = BetaBinomial{}
)
