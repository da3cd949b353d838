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

package sampler

import (
	"container/heap"
	"math"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

type weightItem struct {
	idx   int     // 原始數據的 Index
	score float64 // Exp(1) / weight，越小排名越前
}

// weightHeap 以 score 為鍵的 Max-Heap
type weightHeap []weightItem

func (h weightHeap) Len() int           { return len(h) }
func (h weightHeap) Less(i, j int) bool { return h[i].score > h[j].score }
func (h weightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *weightHeap) Push(x any) {
	*h = append(*h, x.(weightItem))
}

func (h *weightHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// WeightedSample 加權不放回抽樣，取前 k 個索引（Efraimidis-Spirakis A-Res）。
//
// 每個元素的分數為 Exp(1)/w，維護容量 k 的 Max-Heap 留下分數最小的 k 個。
// 權重為 0 的元素不會被選中；有效元素少於 k 時回傳長度會小於 k。
// 回傳順序即抽出順序（第一個為第一個被抽出的類別）。
//
// 時間 O(N log K)，空間 O(K)。
func WeightedSample(src core.RAND, weights []float64, k int) ([]int, error) {
	n := len(weights)
	if k <= 0 || n == 0 {
		return []int{}, nil
	}
	if k > n {
		k = n
	}

	h := make(weightHeap, 0, k)
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return nil, errs.Domainf("weighted sample: invalid weight %v at %d", w, i)
		}
		if w == 0 {
			continue
		}
		score := core.ExpFloat64(src) / w

		if h.Len() < k {
			heap.Push(&h, weightItem{idx: i, score: score})
		} else if score < h[0].score {
			h[0] = weightItem{idx: i, score: score}
			heap.Fix(&h, 0)
		}
	}

	actual := h.Len()
	result := make([]int, actual)
	// Max-Heap 先彈出的是最後一名，倒序填入
	for i := actual - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(weightItem).idx
	}
	return result, nil
}
