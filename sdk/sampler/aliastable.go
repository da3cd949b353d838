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

// Package sampler 提供離散分佈使用的加權抽樣結構。
//
// 本檔案 (aliastable.go) 實作 Vose's Alias Method（浮點權重版）。
//
// 演算法原理：
//   - 將任意離散分佈轉換為 n 個等機率槽位的組合。
//   - 每個槽位 (Bucket) 只存放「自己」和「別名 (Alias)」兩個選項。
//   - 抽樣時先選槽位，再用一個 [0,1) 亂數決定是自己還是別名。
//
// 特性：
//   - 建表時間 O(N)，抽樣 O(1)，空間 O(N)。
//   - 建表後唯讀，可在多個 goroutine 間共用（亂數來源除外）。
package sampler

import (
	"math"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"gonum.org/v1/gonum/floats"
)

// AliasTable 浮點權重的 Vose Alias Table。
//
// 欄位說明：
//   - prob: 每個槽位保留自己的機率，範圍 [0,1]。
//   - alias: 機率不足時改選的索引。
type AliasTable struct {
	prob  []float64
	alias []int
}

// BuildAliasTable 根據非負權重建立 AliasTable；權重不需正規化。
//
// 空權重、負權重、NaN/Inf 或總和為 0 時回傳 domain error。
func BuildAliasTable(weights []float64) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.Domainf("alias table: empty weights")
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errs.Domainf("alias table: invalid weight %v at %d", w, i)
		}
	}
	total := floats.Sum(weights)
	if !(total > 0) || math.IsInf(total, 1) {
		return nil, errs.Domainf("alias table: total weight must be positive and finite, got %v", total)
	}

	prob := make([]float64, n)
	alias := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	scale := float64(n) / total
	for i, w := range weights {
		prob[i] = w * scale // 平均值為 1
		alias[i] = i
		if prob[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		alias[s] = l
		prob[l] = prob[l] + prob[s] - 1 // sum(prob) = n 不變

		if prob[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 浮點誤差殘留：剩下的槽位機率視為 1
	for _, i := range large {
		prob[i] = 1
	}
	for _, i := range small {
		prob[i] = 1
	}

	return &AliasTable{prob: prob, alias: alias}, nil
}

// Size 類別數
func (at *AliasTable) Size() int {
	if at == nil {
		return 0
	}
	return len(at.prob)
}

// Pick 抽出一個索引，固定使用一次 IntN 與一次 Float64。
func (at *AliasTable) Pick(src core.RAND) int {
	if at == nil || len(at.prob) == 0 {
		return -1
	}
	n := len(at.prob)
	idx := src.IntN(n)
	if src.Float64() < at.prob[idx] {
		return idx
	}
	return at.alias[idx]
}
