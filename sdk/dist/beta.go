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

// Package dist 提供建構在 sdk/rv 能力介面上的具體分佈。
//
// 每個分佈都是不可變的值型別，以 NewX 建構並驗證參數定義域；
// 依輸出型別取得 view（例如 Beta.F64()、Beta.F32()、BetaOf[T]、Bernoulli.Bool()），
// view 才是實作 rv.Rv[T] 的型別。
//
// 新增分佈或新增輸出型別都只需要新增 view，不需要修改既有程式碼。
package dist

import (
	"fmt"
	"math"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Beta 定義在開區間 (0,1) 上的 Beta(α, β) 分佈。
type Beta struct {
	alpha float64
	beta  float64
}

// NewBeta α、β 必須是有限正數。
func NewBeta(alpha, beta float64) (Beta, error) {
	if !positiveFinite(alpha) || !positiveFinite(beta) {
		return Beta{}, errs.Domainf("beta: alpha and beta must be in (0, ∞), got (%v, %v)", alpha, beta)
	}
	return Beta{alpha: alpha, beta: beta}, nil
}

// Jeffreys Beta(0.5, 0.5)，Bernoulli 參數的 Jeffreys prior。
func Jeffreys() Beta { return Beta{alpha: 0.5, beta: 0.5} }

// BetaUniform Beta(1, 1)
func BetaUniform() Beta { return Beta{alpha: 1, beta: 1} }

func (b Beta) Alpha() float64 { return b.alpha }
func (b Beta) Beta() float64  { return b.beta }

func (b Beta) String() string {
	return fmt.Sprintf("Beta(α: %g, β: %g)", b.alpha, b.beta)
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// ---- 共用數學（float64 標準表示） ----

func (b Beta) gonum(src core.RAND) distuv.Beta {
	return distuv.Beta{Alpha: b.alpha, Beta: b.beta, Src: src}
}

// lnPdf 只會收到 (0,1) 內的 x
func (b Beta) lnPdf(x float64) float64 {
	return (b.alpha-1)*math.Log(x) + (b.beta-1)*math.Log1p(-x) - mathext.Lbeta(b.alpha, b.beta)
}

// draw 以兩個 Gamma 的對數比抽樣：X = 1 / (1 + exp(ln Gb - ln Ga))。
//
// 極小的 α、β 下 Gamma 本身會下溢成 0，線性空間的 Ga/(Ga+Gb) 只剩 0、1 或 NaN；
// 對數域相減則仍有意義。兩者同為 -Inf 時以極限分佈 Bernoulli(α/(α+β)) 決定端點。
func (b Beta) draw(src core.RAND) float64 {
	la := lnGammaDraw(b.alpha, src)
	lb := lnGammaDraw(b.beta, src)
	d := lb - la
	if math.IsNaN(d) {
		if core.Open01(src)*(b.alpha+b.beta) < b.alpha {
			return 1
		}
		return 0
	}
	return 1 / (1 + math.Exp(d))
}

// lnGammaDraw ln G，G ~ Gamma(a, 1)。
// a < 1 時用 G = G' · U^(1/a)（G' ~ Gamma(a+1, 1)）的對數形式。
func lnGammaDraw(a float64, src core.RAND) float64 {
	if a < 1 {
		return lnGammaDraw(a+1, src) + math.Log(core.Open01(src))/a
	}
	return math.Log(distuv.Gamma{Alpha: a, Beta: 1, Src: src}.Rand())
}

func (b Beta) Mean() (float64, bool) {
	return b.alpha / (b.alpha + b.beta), true
}

func (b Beta) Variance() (float64, bool) {
	s := b.alpha + b.beta
	return b.alpha * b.beta / (s * s * (s + 1)), true
}

// Median 以分位數函數取 0.5 分位。
func (b Beta) Median() (float64, bool) {
	return b.gonum(nil).Quantile(0.5), true
}

// modeF64 只有 α > 1 且 β > 1 時眾數唯一且在 (0,1) 內
func (b Beta) modeF64() (float64, bool) {
	if b.alpha > 1 && b.beta > 1 {
		return (b.alpha - 1) / (b.alpha + b.beta - 2), true
	}
	return 0, false
}

// Entropy 微分熵（nat）
func (b Beta) Entropy() float64 {
	a, c := b.alpha, b.beta
	s := a + c
	return mathext.Lbeta(a, c) -
		(a-1)*mathext.Digamma(a) -
		(c-1)*mathext.Digamma(c) +
		(s-2)*mathext.Digamma(s)
}

func (b Beta) Skewness() (float64, bool) {
	a, c := b.alpha, b.beta
	s := a + c
	return 2 * (c - a) * math.Sqrt(s+1) / ((s + 2) * math.Sqrt(a*c)), true
}

// Kurtosis 超額峰度
func (b Beta) Kurtosis() (float64, bool) {
	a, c := b.alpha, b.beta
	s := a + c
	num := 6 * ((a-c)*(a-c)*(s+1) - a*c*(s+2))
	den := a * c * (s + 2) * (s + 3)
	return num / den, true
}

// Kl KL(b || other)
func (b Beta) Kl(other Beta) float64 {
	a1, b1 := b.alpha, b.beta
	a2, b2 := other.alpha, other.beta
	s1 := a1 + b1
	return mathext.Lbeta(a2, b2) - mathext.Lbeta(a1, b1) +
		(a1-a2)*mathext.Digamma(a1) +
		(b1-b2)*mathext.Digamma(b1) +
		(a2-a1+b2-b1)*mathext.Digamma(s1)
}

// ---- 實數 view ----

// BetaReal Beta 的實數輸出 view（float32、float64 或以其為底層型別的自訂型別）。
//
// 抽樣在 float64 完成後轉為 T；若轉換後落在邊界 0 或 1（捨入），則重抽。
// 連續 maxBoundaryRedraw 次都落在邊界，代表質量集中在 T 無法表示的邊界鄰域，
// 此時回傳該側最接近邊界的內點。Draw 的結果一定滿足 Supports。
type BetaReal[T rv.Real] struct {
	d Beta
}

// BetaOf 回傳任意實數型別的輸出 view
func BetaOf[T rv.Real](b Beta) BetaReal[T] { return BetaReal[T]{d: b} }

// F64 float64 輸出 view
func (b Beta) F64() BetaReal[float64] { return BetaReal[float64]{d: b} }

// F32 float32 輸出 view
func (b Beta) F32() BetaReal[float32] { return BetaReal[float32]{d: b} }

func (v BetaReal[T]) Distr() Beta { return v.d }

func (v BetaReal[T]) Supports(x T) bool {
	f := float64(x)
	return f > 0 && f < 1
}

const maxBoundaryRedraw = 64

func (v BetaReal[T]) Draw(src core.RAND) T {
	var x T
	for range maxBoundaryRedraw {
		x = T(v.d.draw(src))
		if v.Supports(x) {
			return x
		}
	}
	if float64(x) >= 1 {
		return belowOne[T]()
	}
	return aboveZero[T]()
}

// aboveZero T 可表示的最小正數
func aboveZero[T rv.Real]() T {
	if t := T(math.SmallestNonzeroFloat64); t != 0 {
		return t
	}
	return T(math.SmallestNonzeroFloat32)
}

// belowOne T 可表示、小於 1 的最大值
func belowOne[T rv.Real]() T {
	if t := T(math.Nextafter(1, 0)); t != 1 {
		return t
	}
	return T(math.Nextafter32(1, 0))
}

func (v BetaReal[T]) LnF(x T) float64 { return v.LnPdf(x) }

func (v BetaReal[T]) LnPdf(x T) float64 {
	return rv.LnDensity[T](v, x, func(x T) float64 { return v.d.lnPdf(float64(x)) })
}

// Cdf x <= 0 → 0，x >= 1 → 1，NaN → NaN
func (v BetaReal[T]) Cdf(x T) float64 {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return math.NaN()
	case f <= 0:
		return 0
	case f >= 1:
		return 1
	}
	return v.d.gonum(nil).CDF(f)
}

func (v BetaReal[T]) Sf(x T) float64 { return 1 - v.Cdf(x) }

// InvCdf p 必須在 [0,1]；超出範圍回傳 NaN。
func (v BetaReal[T]) InvCdf(p float64) T {
	if !(p >= 0 && p <= 1) {
		return T(math.NaN())
	}
	return T(v.d.gonum(nil).Quantile(p))
}

func (v BetaReal[T]) Mode() (T, bool) {
	m, ok := v.d.modeF64()
	return T(m), ok
}

var (
	_ rv.ContinuousDistr[float64] = BetaReal[float64]{}
	_ rv.ContinuousDistr[float32] = BetaReal[float32]{}
	_ rv.Cdf[float64]             = BetaReal[float64]{}
	_ rv.InverseCdf[float32]      = BetaReal[float32]{}
	_ rv.Mode[float64]            = BetaReal[float64]{}
	_ rv.Mean                     = Beta{}
	_ rv.Median                   = Beta{}
	_ rv.Variance                 = Beta{}
	_ rv.Entropy                  = Beta{}
	_ rv.Skewness                 = Beta{}
	_ rv.Kurtosis                 = Beta{}
	_ rv.KlDivergence[Beta]       = Beta{}
)
