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

package rv

import "math"

// Signed 所有有號整數
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned 所有無號整數
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer 離散輸出型別：所有整數。
type Integer interface {
	Signed | Unsigned
}

// Real 連續輸出型別：float32 / float64（含以其為底層型別的自訂型別）。
type Real interface {
	~float32 | ~float64
}

// Number 可轉換為標準 float64 表示的輸出型別。
type Number interface {
	Integer | Real
}

// ToF64 將輸出值轉成標準（canonical）float64 表示，用於密度計算。
func ToF64[T Number](x T) float64 {
	return float64(x)
}

// FromF64 由標準 float64 轉回輸出型別 T。
//
// 窄型別（float32）可能因捨入落在支撐集邊界上，呼叫端需自行檢查 Supports。
func FromF64[T Real](f float64) T {
	return T(f)
}

// Index 將整數輸出轉成非負 int 索引；負數或超出 int 範圍時 ok = false。
func Index[T Integer](x T) (int, bool) {
	if x < 0 {
		return 0, false
	}
	u := uint64(x)
	if u > math.MaxInt {
		return 0, false
	}
	return int(u), true
}

// IsFinite 回報 f 是否為有限實數（非 NaN、非 ±Inf）。
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
