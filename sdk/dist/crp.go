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
	"github.com/zintix-labs/rvlab/sdk/misc"
	"github.com/zintix-labs/rvlab/sdk/rv"
)

// Crp 中國餐館過程：集中參數 α、n 個項目的分割分佈，輸出型別為 data.Partition。
//
// Crp 本身就是 rv.DiscreteDistr[data.Partition]，不需要額外的 view。
type Crp struct {
	alpha float64
	n     int
}

// NewCrp α 為有限正數，n >= 1。
func NewCrp(alpha float64, n int) (Crp, error) {
	if !positiveFinite(alpha) {
		return Crp{}, errs.Domainf("crp: alpha must be in (0, ∞), got %v", alpha)
	}
	if n < 1 {
		return Crp{}, errs.Domainf("crp: n must be >= 1, got %d", n)
	}
	return Crp{alpha: alpha, n: n}, nil
}

func (c Crp) Alpha() float64 { return c.alpha }
func (c Crp) N() int         { return c.n }

func (c Crp) String() string { return fmt.Sprintf("CRP(α: %g, n: %d)", c.alpha, c.n) }

func (c Crp) Supports(x data.Partition) bool {
	return x.Len() == c.n && x.Valid()
}

// Draw 依序讓每個項目入座：既有群組的權重為人數，新群組的權重為 α。
func (c Crp) Draw(src core.RAND) data.Partition {
	p := data.NewPartition()
	weights := make([]float64, 1, c.n+1)
	weights[0] = c.alpha
	for i := 0; i < c.n; i++ {
		zi := 0
		if i > 0 {
			zi = misc.Pflip(weights, src)
		}
		k := len(weights) - 1
		if zi == k {
			// 開新桌：新群組人數為 1，α 移到最後
			weights[k] = 1
			weights = append(weights, c.alpha)
		} else {
			weights[zi]++
		}
		if err := p.Append(zi); err != nil {
			// Pflip 只回傳 [0, K]，Append 不會拒絕
			panic(errs.Fatalf("crp: seating invariant broken: %v", err))
		}
	}
	return p
}

func (c Crp) LnF(x data.Partition) float64 { return c.LnPmf(x) }

// LnPmf Ewens 公式：Σ ln Γ(c_j) + k ln α + ln Γ(α) - ln Γ(n + α)
func (c Crp) LnPmf(x data.Partition) float64 {
	return rv.LnDensity[data.Partition](c, x, func(x data.Partition) float64 {
		gsum := 0.0
		for _, ct := range x.Counts() {
			gsum += misc.LnGamma(float64(ct))
		}
		k := float64(x.K())
		return gsum + k*math.Log(c.alpha) + misc.LnGamma(c.alpha) - misc.LnGamma(float64(c.n)+c.alpha)
	})
}

// ExpectedK 群組數的期望值 Σ α/(α+i), i = 0..n-1
func (c Crp) ExpectedK() float64 {
	e := 0.0
	for i := 0; i < c.n; i++ {
		e += c.alpha / (c.alpha + float64(i))
	}
	return e
}

var _ rv.DiscreteDistr[data.Partition] = Crp{}
