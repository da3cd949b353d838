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
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian 常態分佈 N(μ, σ)。支撐集為所有有限實數。
type Gaussian struct {
	mu    float64
	sigma float64
}

// NewGaussian μ 必須有限，σ 必須是有限正數。
func NewGaussian(mu, sigma float64) (Gaussian, error) {
	if !rv.IsFinite(mu) {
		return Gaussian{}, errs.Domainf("gaussian: mu must be finite, got %v", mu)
	}
	if !positiveFinite(sigma) {
		return Gaussian{}, errs.Domainf("gaussian: sigma must be in (0, ∞), got %v", sigma)
	}
	return Gaussian{mu: mu, sigma: sigma}, nil
}

// StandardGaussian N(0, 1)
func StandardGaussian() Gaussian { return Gaussian{mu: 0, sigma: 1} }

func (g Gaussian) Mu() float64    { return g.mu }
func (g Gaussian) Sigma() float64 { return g.sigma }

func (g Gaussian) String() string {
	return fmt.Sprintf("Gaussian(μ: %g, σ: %g)", g.mu, g.sigma)
}

func (g Gaussian) gonum(src core.RAND) distuv.Normal {
	return distuv.Normal{Mu: g.mu, Sigma: g.sigma, Src: src}
}

func (g Gaussian) lnPdf(x float64) float64 {
	z := (x - g.mu) / g.sigma
	return -math.Log(g.sigma) - misc.HalfLn2Pi - 0.5*z*z
}

func (g Gaussian) Mean() (float64, bool)     { return g.mu, true }
func (g Gaussian) Median() (float64, bool)   { return g.mu, true }
func (g Gaussian) Variance() (float64, bool) { return g.sigma * g.sigma, true }
func (g Gaussian) Skewness() (float64, bool) { return 0, true }
func (g Gaussian) Kurtosis() (float64, bool) { return 0, true }

// Entropy 0.5 ln(2πe) + ln σ
func (g Gaussian) Entropy() float64 {
	return misc.HalfLn2PiE + math.Log(g.sigma)
}

// Kl KL(g || other)
func (g Gaussian) Kl(other Gaussian) float64 {
	r := g.sigma / other.sigma
	d := (g.mu - other.mu) / other.sigma
	return 0.5*(r*r+d*d-1) - math.Log(r)
}

// ---- 實數 view ----

// GaussianReal Gaussian 的實數輸出 view。
//
// 建構時要求 μ、σ 在 T 中都是有限值；抽樣偶爾溢位成 ±Inf（尾端）時重抽。
type GaussianReal[T rv.Real] struct {
	d Gaussian
}

// GaussianOf μ 或 σ 無法以 T 的有限值表示時回傳定義域錯誤。
func GaussianOf[T rv.Real](g Gaussian) (GaussianReal[T], error) {
	if !rv.IsFinite(float64(T(g.mu))) || !rv.IsFinite(float64(T(g.sigma))) {
		return GaussianReal[T]{}, errs.Domainf("gaussian: (μ: %g, σ: %g) overflows the output type", g.mu, g.sigma)
	}
	return GaussianReal[T]{d: g}, nil
}

// F64 NewGaussian 已保證參數是有限 float64，不會失敗。
func (g Gaussian) F64() GaussianReal[float64] { return GaussianReal[float64]{d: g} }

func (g Gaussian) F32() (GaussianReal[float32], error) { return GaussianOf[float32](g) }

func (v GaussianReal[T]) Distr() Gaussian { return v.d }

func (v GaussianReal[T]) Supports(x T) bool { return rv.IsFinite(float64(x)) }

func (v GaussianReal[T]) Draw(src core.RAND) T {
	for {
		x := T(v.d.gonum(src).Rand())
		if v.Supports(x) {
			return x
		}
	}
}

func (v GaussianReal[T]) LnF(x T) float64 { return v.LnPdf(x) }

func (v GaussianReal[T]) LnPdf(x T) float64 {
	return rv.LnDensity[T](v, x, func(x T) float64 { return v.d.lnPdf(float64(x)) })
}

func (v GaussianReal[T]) Cdf(x T) float64 {
	return v.d.gonum(nil).CDF(float64(x))
}

func (v GaussianReal[T]) Sf(x T) float64 {
	return v.d.gonum(nil).Survival(float64(x))
}

// InvCdf p 必須在 (0,1)；端點回傳 ±Inf，超出範圍回傳 NaN。
func (v GaussianReal[T]) InvCdf(p float64) T {
	switch {
	case !(p >= 0 && p <= 1):
		return T(math.NaN())
	case p == 0:
		return T(math.Inf(-1))
	case p == 1:
		return T(math.Inf(1))
	}
	return T(v.d.gonum(nil).Quantile(p))
}

func (v GaussianReal[T]) Mode() (T, bool) { return T(v.d.mu), true }

// Interval 中央機率為 p 的對稱區間 [InvCdf((1-p)/2), InvCdf((1+p)/2)]。
func (v GaussianReal[T]) Interval(p float64) (T, T) {
	return Interval[T](v, p)
}

// Interval 任意具分位數函數之分佈的中央 p 區間。
func Interval[T any](d rv.InverseCdf[T], p float64) (T, T) {
	return d.InvCdf((1 - p) / 2), d.InvCdf((1 + p) / 2)
}

var (
	_ rv.ContinuousDistr[float64] = GaussianReal[float64]{}
	_ rv.ContinuousDistr[float32] = GaussianReal[float32]{}
	_ rv.Cdf[float64]             = GaussianReal[float64]{}
	_ rv.InverseCdf[float64]      = GaussianReal[float64]{}
	_ rv.Mode[float32]            = GaussianReal[float32]{}
	_ rv.Mean                     = Gaussian{}
	_ rv.Median                   = Gaussian{}
	_ rv.Variance                 = Gaussian{}
	_ rv.Entropy                  = Gaussian{}
	_ rv.Skewness                 = Gaussian{}
	_ rv.Kurtosis                 = Gaussian{}
	_ rv.KlDivergence[Gaussian]   = Gaussian{}
)
