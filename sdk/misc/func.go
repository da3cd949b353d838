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

// Package misc 收納分佈實作共用的對數域工具、加權抽樣與數值積分。
package misc

import (
	"math"

	"github.com/zintix-labs/rvlab/sdk/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// LnBinom ln C(n, k)，允許非整數參數（廣義二項係數）。
func LnBinom(n, k float64) float64 {
	return combin.LogGeneralizedBinomial(n, k)
}

// LnGamma 回傳 ln|Γ(x)|
func LnGamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// LogSumExp 回傳 ln Σ exp(xs[i])；空 slice 或全部為 -Inf 時回傳 -Inf。
func LogSumExp(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}
	m := floats.Max(xs)
	if math.IsInf(m, -1) {
		return m
	}
	return floats.LogSumExp(xs)
}

// Pflip 依權重（不必正規化）抽出一個索引。
//
// 權重必須非負且總和 > 0；否則回傳 -1。
func Pflip(weights []float64, src core.RAND) int {
	total := floats.Sum(weights)
	if len(weights) == 0 || !(total > 0) || math.IsInf(total, 1) {
		return -1
	}
	u := src.Float64() * total
	acc := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if u < acc {
			return i
		}
	}
	// 浮點累加誤差：u 落在最後一段之後
	return last
}

// LnPflip 依對數權重抽出一個索引；先減去 logsumexp 再轉回線性尺度。
func LnPflip(lnWeights []float64, src core.RAND) int {
	z := LogSumExp(lnWeights)
	if math.IsInf(z, -1) || math.IsNaN(z) {
		return -1
	}
	w := make([]float64, len(lnWeights))
	for i, lw := range lnWeights {
		w[i] = math.Exp(lw - z)
	}
	return Pflip(w, src)
}

// LnPflipN 與 LnPflip 相同，但一次抽 n 個，共用同一組正規化權重。
func LnPflipN(lnWeights []float64, n int, src core.RAND) []int {
	if n <= 0 {
		return []int{}
	}
	z := LogSumExp(lnWeights)
	out := make([]int, n)
	if math.IsInf(z, -1) || math.IsNaN(z) {
		for i := range out {
			out[i] = -1
		}
		return out
	}
	w := make([]float64, len(lnWeights))
	for i, lw := range lnWeights {
		w[i] = math.Exp(lw - z)
	}
	for i := range out {
		out[i] = Pflip(w, src)
	}
	return out
}
