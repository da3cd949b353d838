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
	"math"

	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/data"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"gonum.org/v1/gonum/mathext"
)

// NewBernoulliFrom 以任意實數型別的權重建構 Bernoulli，
// 讓 BetaOf[T] 的抽樣值不需中間轉換即可作為參數。
func NewBernoulliFrom[T rv.Real](p T) (Bernoulli, error) {
	return NewBernoulli(float64(p))
}

// PriorPredictiveOf Beta → Bernoulli 的組合分佈：
// 每次抽樣先以 BetaOf[T] 抽權重 p，再建構 Bernoulli(p) 抽一個 bool。
//
// 若 p 無法建構 Bernoulli，錯誤原樣回傳，不做 clamp。
func PriorPredictiveOf[T rv.Real](b Beta) rv.Compound[T, bool] {
	return rv.Compose[T, bool](BetaOf[T](b), func(p T) (rv.Rv[bool], error) {
		bern, err := NewBernoulliFrom(p)
		if err != nil {
			return nil, err
		}
		return bern.Bool(), nil
	})
}

// PriorPredictive 以 float64 權重的 Beta → Bernoulli 組合分佈。
func PriorPredictive(b Beta) rv.Compound[float64, bool] {
	return PriorPredictiveOf[float64](b)
}

// ---- Beta–Bernoulli 共軛分析 ----

func bernoulliStat(x data.DataOrSuffStat[bool]) (n, k float64, err error) {
	s, err := data.Fold(x, data.NewBernoulliSuffStat())
	if err != nil {
		return 0, 0, err
	}
	return float64(s.N()), float64(s.K()), nil
}

// Posterior 觀測 x 之後的後驗 Beta(α + k, β + n - k)。
// x 帶有非 BernoulliSuffStat 的統計量時回傳 Warn。
func (b Beta) Posterior(x data.DataOrSuffStat[bool]) (Beta, error) {
	n, k, err := bernoulliStat(x)
	if err != nil {
		return b, err
	}
	return Beta{alpha: b.alpha + k, beta: b.beta + n - k}, nil
}

// LnM 邊際似然 ln p(x) = ln B(α + k, β + n - k) - ln B(α, β)。
func (b Beta) LnM(x data.DataOrSuffStat[bool]) (float64, error) {
	post, err := b.Posterior(x)
	if err != nil {
		return math.NaN(), err
	}
	return mathext.Lbeta(post.alpha, post.beta) - mathext.Lbeta(b.alpha, b.beta), nil
}

// PosteriorPredictive 觀測 x 之後下一筆資料的預測分佈。
func (b Beta) PosteriorPredictive(x data.DataOrSuffStat[bool]) (Bernoulli, error) {
	post, err := b.Posterior(x)
	if err != nil {
		return Bernoulli{}, err
	}
	m, _ := post.Mean()
	return Bernoulli{p: m}, nil
}

// LnPp 後驗預測 ln p(y | x)。
func (b Beta) LnPp(y bool, x data.DataOrSuffStat[bool]) (float64, error) {
	pp, err := b.PosteriorPredictive(x)
	if err != nil {
		return math.NaN(), err
	}
	return pp.Bool().LnPmf(y), nil
}

var _ data.ConjugatePrior[bool, Bernoulli, Beta] = Beta{}

// ---- 以 Bernoulli 為輸出型別的 view ----

// BetaOverBernoulli 把 Beta 看成「Bernoulli 分佈上的分佈」：
// 抽樣回傳一個 Bernoulli，密度以其成功機率 p 計算。
type BetaOverBernoulli struct {
	d Beta
}

// OverBernoulli 回傳以 Bernoulli 為輸出型別的 view
func (b Beta) OverBernoulli() BetaOverBernoulli { return BetaOverBernoulli{d: b} }

func (v BetaOverBernoulli) Distr() Beta { return v.d }

func (v BetaOverBernoulli) Supports(x Bernoulli) bool {
	return x.p > 0 && x.p < 1
}

// Draw p 一定在 (0,1)，NewBernoulli 不會失敗。
func (v BetaOverBernoulli) Draw(src core.RAND) Bernoulli {
	return Bernoulli{p: v.d.F64().Draw(src)}
}

func (v BetaOverBernoulli) LnF(x Bernoulli) float64 { return v.LnPdf(x) }

func (v BetaOverBernoulli) LnPdf(x Bernoulli) float64 {
	return rv.LnDensity[Bernoulli](v, x, func(x Bernoulli) float64 { return v.d.lnPdf(x.p) })
}

// LnPriorPredictive 先驗預測 ln p(y) = ln E[p] 或 ln E[1-p]。
func (v BetaOverBernoulli) LnPriorPredictive(y bool) float64 {
	m, _ := v.d.Mean()
	if y {
		return math.Log(m)
	}
	return math.Log1p(-m)
}

var _ rv.ContinuousDistr[Bernoulli] = BetaOverBernoulli{}
