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

package data

import (
	"slices"

	"github.com/zintix-labs/rvlab/errs"
)

// Partition 將 n 個項目分到 k 個群組。
//
// z[i] 為第 i 個項目的群組編號，必須是正規形式（canonical）：
// 編號依首次出現的順序為 0,1,2,...，counts[j] 為群組 j 的大小。
type Partition struct {
	z      []int
	counts []int
}

// NewPartition 建立空分割
func NewPartition() Partition {
	return Partition{}
}

// PartitionFromZ 由指派向量建立；z 必須是正規形式，否則回傳錯誤。
func PartitionFromZ(z []int) (Partition, error) {
	counts := []int{}
	for i, zi := range z {
		switch {
		case zi < 0 || zi > len(counts):
			return Partition{}, errs.Domainf("partition: z[%d]=%d is not canonical", i, zi)
		case zi == len(counts):
			counts = append(counts, 1)
		default:
			counts[zi]++
		}
	}
	return Partition{z: slices.Clone(z), counts: counts}, nil
}

// Append 將下一個項目加入群組 zi；zi == K() 表示開新群組。
func (p *Partition) Append(zi int) error {
	if zi < 0 || zi > len(p.counts) {
		return errs.Domainf("partition: cannot assign to group %d with %d groups", zi, len(p.counts))
	}
	if zi == len(p.counts) {
		p.counts = append(p.counts, 0)
	}
	p.counts[zi]++
	p.z = append(p.z, zi)
	return nil
}

// Len 項目數
func (p Partition) Len() int { return len(p.z) }

// K 群組數
func (p Partition) K() int { return len(p.counts) }

// Z 回傳指派向量的副本
func (p Partition) Z() []int { return slices.Clone(p.z) }

// Counts 回傳各群組大小的副本
func (p Partition) Counts() []int { return slices.Clone(p.counts) }

// Equal 兩個分割是否完全相同
func (p Partition) Equal(o Partition) bool {
	return slices.Equal(p.z, o.z)
}

// Valid 內部一致性：counts 與 z 相符且 z 為正規形式。
func (p Partition) Valid() bool {
	q, err := PartitionFromZ(p.z)
	if err != nil {
		return false
	}
	return slices.Equal(q.counts, p.counts)
}
