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

// Package core 定義抽樣所需的「亂數來源能力（randomness source capability）」。
//
// 分佈本身不持有亂數來源：每次 Draw / Sample 都由呼叫端注入一個 RAND。
// RAND 是唯一可變的資源，兩個 goroutine 不可共用同一個 RAND（除非外部自行加鎖）。
package core

import "math"

// PRNG 定義可重現的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 為什麼要求同時提供 4 個方法（Uint64 / Float64 / UintN / IntN），而不是只要求 Uint64？
//
// 1) 允許實作針對 32-bit / 64-bit 平台做最佳化
//   - 有些 PRNG 的「原生輸出寬度」是 32-bit，直接產生 uint32 可能更快、更少指令。
//   - 不同 PRNG 對 bounded 生成可能有更快/更正確的實作，把 IntN/UintN 交由 PRNG 自己實作。
//
// 2) Float64 的精度與生成方式應由 PRNG 決定
//   - Float64 通常希望使用 53-bit mantissa 來生成 [0,1)；但有些實作只提供 32-bit 精度。
//
// RAND 同時滿足 math/rand/v2 的 Source 介面（只需要 Uint64），
// 因此可以直接交給 gonum distuv 的 Src 欄位使用。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是「決定性」的：
// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
// seed 的生命週期由上層（Lab / Simulator）統一管理，因此這裡不提供「不帶 seed 的 New()」。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// PCG32Factory 以 PCG32 作為亂數核心（32-bit 原生輸出）。
type PCG32Factory struct{}

func (f *PCG32Factory) New(seed int64) PRNG {
	return NewPCG32(seed)
}

// Core 封裝 PRNG，並提供分佈抽樣常用的工具方法。
//
// Core 本身滿足 RAND 與 Restorable，可直接作為亂數來源傳入 Draw / Sample。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewDefault 以預設 PCG64 與指定 seed 建立 Core。
func NewDefault(seed int64) *Core {
	return &Core{NewPCG64(seed)}
}

// Open01 回傳 (0,1) 開區間的浮點亂數。
func (c *Core) Open01() float64 { return Open01(c.PRNG) }

// Float32 回傳 [0,1) 的 float32 亂數（24-bit 精度）。
func (c *Core) Float32() float32 { return Float32(c.PRNG) }

// ExpFloat64 回傳標準指數分佈 Exp(1) 的亂數。
func (c *Core) ExpFloat64() float64 { return ExpFloat64(c.PRNG) }

// Open01 回傳 (0,1) 開區間的浮點亂數：拒絕 0，Float64 本身不會產生 1。
//
// 對數域運算（例如 ln U）需要避開 0，因此分佈實作一律使用 Open01 取代 Float64。
func Open01(r RAND) float64 {
	for {
		if u := r.Float64(); u > 0 {
			return u
		}
	}
}

// Float32 回傳 [0,1) 的 float32 亂數，取 Uint64 的高 24 bits。
func Float32(r RAND) float32 {
	return float32(r.Uint64()>>40) / (1 << 24)
}

// ExpFloat64 以反函數法產生 Exp(1)。
func ExpFloat64(r RAND) float64 {
	return -math.Log(Open01(r))
}
