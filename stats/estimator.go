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

package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// Estimate 樣本分佈的區間估計
type Estimate struct {
	N          int             `json:"N"`
	Confidence float64         `json:"Confidence"`
	Quantiles  []QuantileStat  `json:"Quantiles"`
	Thresholds []ThresholdStat `json:"Thresholds"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// QuantileStat 第 Q 分位數的點估計與 CI
type QuantileStat struct {
	Q float64 `json:"Q"`
	PointStat
}

// ThresholdStat P(X <= X0) 的點估計與 Clopper–Pearson CI
type ThresholdStat struct {
	X0 float64 `json:"X0"`
	PointStat
}

// DefaultQuantiles 預設估計的分位點
var DefaultQuantiles = []float64{0.10, 0.25, 0.5, 0.75, 0.90}

// ============================================================
// ** 對外 : 區間估計 **
// ============================================================

// Estimator 對樣本做分位數與門檻機率的區間估計
//
// 1. 分位數 : 以 order statistic 的秩反推 CI
//
// 2. 門檻 : 樣本中 <= x0 的比例，以 Clopper–Pearson 給出精確 CI
func Estimator(data []float64, qs []float64, thresholds []float64, confidence float64) *Estimate {
	out := &Estimate{N: len(data), Confidence: confidence}
	if len(data) == 0 {
		return out
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	out.Quantiles = make([]QuantileStat, len(qs))
	for i, q := range qs {
		lo, hi := quantileCISorted(sorted, q, confidence)
		out.Quantiles[i] = QuantileStat{Q: q, PointStat: PointStat{Hat: quantilePointSorted(sorted, q), CI: CI{Lo: lo, Hi: hi}}}
	}
	out.Thresholds = make([]ThresholdStat, len(thresholds))
	for i, x0 := range thresholds {
		hat, ci := ValueCI(data, x0, confidence)
		out.Thresholds[i] = ThresholdStat{X0: x0, PointStat: PointStat{Hat: hat, CI: ci}}
	}
	return out
}

// ProportionCI Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func ProportionCI(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n <= 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k <= 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k >= n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// ProportionOf 計算 bool 樣本中 true 的比例與 CI
func ProportionOf(xs []bool, confidence float64) PointStat {
	k := 0
	for _, x := range xs {
		if x {
			k++
		}
	}
	hat, ci := ProportionCI(k, len(xs), confidence)
	return PointStat{Hat: hat, CI: ci}
}

// ValueCI 給定樣本 data 與門檻 x0，估計 p = P(X ≤ x0) 的點估計與 CI 區間
func ValueCI(data []float64, x0 float64, confidence float64) (pHat float64, ci CI) {
	n := len(data)
	if n == 0 {
		return 0, CI{Lo: 0, Hi: 0}
	}
	k := 0
	for _, v := range data {
		if v <= x0 {
			k++
		}
	}
	return ProportionCI(k, n, confidence)
}

// QuantileCI 第 q 分位的上下界。
//
// 做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
func QuantileCI(data []float64, q, confidence float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return quantileCISorted(cp, q, confidence)
}

// QuantilePoint returns the empirical quantile point estimate at q.
func QuantilePoint(data []float64, q float64) float64 {
	if len(data) == 0 {
		return 0
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return quantilePointSorted(cp, q)
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

func quantileCISorted(cp []float64, q, confidence float64) (float64, float64) {
	n := len(cp)
	if n == 1 {
		return cp[0], cp[0]
	}
	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	// 以 CP 思想反推 p 範圍
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	ui = min(max(ui, 0), n-1)
	return cp[li], cp[ui]
}

// 最近秩法
func quantilePointSorted(cp []float64, q float64) float64 {
	n := len(cp)
	idx := min(max(int(q*float64(n)), 0), n-1)
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *Estimate) Out() {
	fmt.Print(est.Table())
}

// Table 分位數與門檻兩張表
func (est *Estimate) Table() string {
	pct := fmt.Sprintf("%.0f%%", est.Confidence*100)
	qKeys := make([]string, 0, len(est.Quantiles))
	qMsg := make(map[string]string, len(est.Quantiles))
	for _, q := range est.Quantiles {
		k := fmt.Sprintf("P%g", q.Q*100)
		qKeys = append(qKeys, k)
		qMsg[k] = fmtHatCI(q.Hat, q.CI)
	}
	tKeys := make([]string, 0, len(est.Thresholds))
	tMsg := make(map[string]string, len(est.Thresholds))
	for _, th := range est.Thresholds {
		k := fmt.Sprintf("P(X ≤ %g)", th.X0)
		tKeys = append(tKeys, k)
		tMsg[k] = fmtHatCIpct01(th.Hat, th.CI)
	}
	out := ""
	if len(qKeys) > 0 {
		out += fmtTable("Quantiles ("+pct+" CI)", qKeys, qMsg)
	}
	if len(tKeys) > 0 {
		out += fmtTable("Thresholds ("+pct+" CI)", tKeys, tMsg)
	}
	return out
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtHatCI(hat float64, ci CI) string {
	return fmt.Sprintf("%.6g [%.6g, %.6g]", hat, ci.Lo, ci.Hi)
}
