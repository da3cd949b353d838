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
	"slices"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"github.com/zintix-labs/rvlab/sdk/sampler"
	"gonum.org/v1/gonum/floats"
)

// Categorical 有限類別 {0..k-1} 上的分佈。
//
// 建構時正規化權重並建好 alias table，之後唯讀，可在 goroutine 間共用。
type Categorical struct {
	lnWeights []float64
	alias     *sampler.AliasTable
}

// NewCategorical 權重不需正規化，但必須非負、有限且總和 > 0。
func NewCategorical(weights []float64) (Categorical, error) {
	at, err := sampler.BuildAliasTable(weights)
	if err != nil {
		return Categorical{}, errs.Wrap(err, "categorical: invalid weights")
	}
	total := floats.Sum(weights)
	ln := make([]float64, len(weights))
	for i, w := range weights {
		ln[i] = math.Log(w / total)
	}
	return Categorical{lnWeights: ln, alias: at}, nil
}

// CategoricalUniform k 個等機率類別；k 必須 >= 1。
func CategoricalUniform(k int) (Categorical, error) {
	if k < 1 {
		return Categorical{}, errs.Domainf("categorical: k must be >= 1, got %d", k)
	}
	w := make([]float64, k)
	for i := range w {
		w[i] = 1
	}
	return NewCategorical(w)
}

// K 類別數
func (c Categorical) K() int { return len(c.lnWeights) }

// Weights 正規化後的機率（副本）
func (c Categorical) Weights() []float64 {
	w := make([]float64, len(c.lnWeights))
	for i, lw := range c.lnWeights {
		w[i] = math.Exp(lw)
	}
	return w
}

// LnWeights 正規化後的對數機率（副本）
func (c Categorical) LnWeights() []float64 { return slices.Clone(c.lnWeights) }

func (c Categorical) String() string {
	return fmt.Sprintf("Categorical(k: %d)", c.K())
}

func (c Categorical) has(k int) bool {
	return k >= 0 && k < len(c.lnWeights) && !math.IsInf(c.lnWeights[k], -1)
}

// SampleDistinct 不放回抽出 m 個互不相同的類別，依抽出順序回傳。
// 權重在 NewCategorical 已驗證為非負有限值，WeightedSample 不會失敗。
func (c Categorical) SampleDistinct(m int, src core.RAND) []int {
	out, err := sampler.WeightedSample(src, c.Weights(), m)
	if err != nil {
		panic(errs.Fatalf("categorical: weights invariant broken: %v", err))
	}
	return out
}

// Entropy 以 nat 為單位
func (c Categorical) Entropy() float64 {
	h := 0.0
	for _, lw := range c.lnWeights {
		if !math.IsInf(lw, -1) {
			h -= math.Exp(lw) * lw
		}
	}
	return h
}

// Kl KL(c || other)；類別數不同時回傳 NaN。
func (c Categorical) Kl(other Categorical) float64 {
	if c.K() != other.K() {
		return math.NaN()
	}
	kl := 0.0
	for i, lw := range c.lnWeights {
		if math.IsInf(lw, -1) {
			continue
		}
		kl += math.Exp(lw) * (lw - other.lnWeights[i])
	}
	return kl
}

// ---- 整數 view ----

// CategoricalInt Categorical 的整數輸出 view
type CategoricalInt[T rv.Integer] struct {
	d Categorical
}

// CategoricalOf 回傳整數型別 T 的 view；類別數超出 T 可表示範圍時回傳 domain error。
func CategoricalOf[T rv.Integer](c Categorical) (CategoricalInt[T], error) {
	last := c.K() - 1
	if last >= 0 && int(T(last)) != last {
		return CategoricalInt[T]{}, errs.Domainf("categorical: %d categories do not fit the output type", c.K())
	}
	return CategoricalInt[T]{d: c}, nil
}

// Int int 輸出 view
func (c Categorical) Int() CategoricalInt[int] { return CategoricalInt[int]{d: c} }

func (v CategoricalInt[T]) Distr() Categorical { return v.d }

func (v CategoricalInt[T]) Supports(x T) bool {
	k, ok := rv.Index(x)
	return ok && v.d.has(k)
}

func (v CategoricalInt[T]) Draw(src core.RAND) T { return T(v.d.alias.Pick(src)) }

func (v CategoricalInt[T]) LnF(x T) float64 { return v.LnPmf(x) }

func (v CategoricalInt[T]) LnPmf(x T) float64 {
	return rv.LnDensity[T](v, x, func(x T) float64 { return v.d.lnWeights[int(x)] })
}

func (v CategoricalInt[T]) Cdf(x T) float64 {
	if x < 0 {
		return 0
	}
	k, ok := rv.Index(x)
	if !ok || k >= v.d.K()-1 {
		return 1
	}
	acc := 0.0
	for i := 0; i <= k; i++ {
		acc += math.Exp(v.d.lnWeights[i])
	}
	return math.Min(acc, 1)
}

func (v CategoricalInt[T]) Sf(x T) float64 { return 1 - v.Cdf(x) }

// Mode 機率最大的類別；並列時 ok = false。
func (v CategoricalInt[T]) Mode() (T, bool) {
	if v.d.K() == 0 {
		return 0, false
	}
	best := floats.MaxIdx(v.d.lnWeights)
	for i, lw := range v.d.lnWeights {
		if i != best && lw == v.d.lnWeights[best] {
			return 0, false
		}
	}
	return T(best), true
}

var (
	_ rv.DiscreteDistr[int]        = CategoricalInt[int]{}
	_ rv.DiscreteDistr[uint8]      = CategoricalInt[uint8]{}
	_ rv.Mode[int]                 = CategoricalInt[int]{}
	_ rv.Cdf[int]                  = CategoricalInt[int]{}
	_ rv.Entropy                   = Categorical{}
	_ rv.KlDivergence[Categorical] = Categorical{}
)
