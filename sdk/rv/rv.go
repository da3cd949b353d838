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

// Package rv 定義隨機變數的能力介面（capability），與型別無關的抽樣/密度分派。
//
// 一個分佈（Distribution）是不可變的參數值；它對每一種輸出型別 T 提供一個 view，
// view 實作 Rv[T]、Support[T]，以及 ContinuousDistr[T] 或 DiscreteDistr[T] 其中之一。
//
// 連續與離散以不同方法名稱區分（LnPdf / LnPmf），
// 因此在離散 view 上要求連續密度會在編譯期被拒絕，而不是執行期錯誤。
package rv

import (
	"iter"
	"math"

	"github.com/zintix-labs/rvlab/sdk/core"
)

// Rv 可以抽樣出 T，並計算 T 的（未必正規化的）對數密度。
type Rv[T any] interface {
	// LnF 回傳 x 的對數密度（或對數質量）；支撐集外為 -Inf。
	LnF(x T) float64
	// Draw 由 src 抽出恰好一個值，結果一定滿足 Supports。
	Draw(src core.RAND) T
}

// Support 支撐集成員判斷：必須是全函數且無副作用。
type Support[T any] interface {
	Supports(x T) bool
}

// ContinuousDistr 連續分佈 view
type ContinuousDistr[T any] interface {
	Rv[T]
	Support[T]
	LnPdf(x T) float64
}

// DiscreteDistr 離散分佈 view：LnPmf <= 0
type DiscreteDistr[T any] interface {
	Rv[T]
	Support[T]
	LnPmf(x T) float64
}

// Cdf 累積分佈函數
type Cdf[T any] interface {
	Cdf(x T) float64
	// Sf 存活函數 1 - Cdf(x)
	Sf(x T) float64
}

// InverseCdf 分位數函數
type InverseCdf[T any] interface {
	InvCdf(p float64) T
}

type Mean interface{ Mean() (float64, bool) }
type Median interface{ Median() (float64, bool) }
type Variance interface{ Variance() (float64, bool) }
type Entropy interface{ Entropy() float64 }
type Skewness interface{ Skewness() (float64, bool) }
type Kurtosis interface{ Kurtosis() (float64, bool) }

// Mode 眾數，不存在（例如雙峰）時 ok = false
type Mode[T any] interface {
	Mode() (T, bool)
}

// KlDivergence KL(self || other)
type KlDivergence[D any] interface {
	Kl(other D) float64
}

// Sample 連續呼叫 n 次 Draw，依抽樣順序回傳；n <= 0 回傳空 slice。
func Sample[T any](d Rv[T], n int, src core.RAND) []T {
	if n <= 0 {
		return []T{}
	}
	out := make([]T, n)
	SampleInto(d, out, src)
	return out
}

// SampleInto 以抽樣值填滿 dst（不配置記憶體），回傳寫入數量。
func SampleInto[T any](d Rv[T], dst []T, src core.RAND) int {
	for i := range dst {
		dst[i] = d.Draw(src)
	}
	return len(dst)
}

// Stream 回傳不會結束的惰性抽樣序列；由呼叫端決定何時停止。
func Stream[T any](d Rv[T], src core.RAND) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if !yield(d.Draw(src)) {
				return
			}
		}
	}
}

// Pdf 線性尺度的機率密度（呼叫端明確選擇離開對數域）。
func Pdf[T any](d ContinuousDistr[T], x T) float64 {
	return math.Exp(d.LnPdf(x))
}

// Pmf 線性尺度的機率質量。
func Pmf[T any](d DiscreteDistr[T], x T) float64 {
	return math.Exp(d.LnPmf(x))
}

// LnDensity 是各 view 共用的密度守門：x 不在支撐集內時直接回傳 -Inf，不呼叫 f。
//
// f 只會收到支撐集內的值，因此實作不需要再處理邊界。
func LnDensity[T any](s Support[T], x T, f func(T) float64) float64 {
	if !s.Supports(x) {
		return math.Inf(-1)
	}
	return f(x)
}

// LnLikelihood 回傳 xs 各點對數密度的總和（獨立樣本的聯合對數密度）。
func LnLikelihood[T any](d Rv[T], xs []T) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += d.LnF(x)
	}
	return sum
}
