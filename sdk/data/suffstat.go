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

// Package data 提供共軛分析使用的資料型別：充分統計量、分割（Partition），
// 以及「原始資料或充分統計量」二擇一的包裝。
package data

import (
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/rv"
)

// SuffStat 觀測型別 X 的充分統計量；Observe / Forget 互為反操作。
type SuffStat[X any] interface {
	N() int
	Observe(x X)
	Forget(x X)
}

// ObserveAll 依序觀測 xs。
func ObserveAll[X any](s SuffStat[X], xs []X) {
	for _, x := range xs {
		s.Observe(x)
	}
}

// BernoulliSuffStat Bernoulli 資料的充分統計量：總次數 n 與成功次數 k。
type BernoulliSuffStat struct {
	n int
	k int
}

func NewBernoulliSuffStat() *BernoulliSuffStat {
	return &BernoulliSuffStat{}
}

// BernoulliSuffStatFromCounts 直接以 (n, k) 建立；k 必須在 [0, n]。
func BernoulliSuffStatFromCounts(n, k int) (*BernoulliSuffStat, bool) {
	if n < 0 || k < 0 || k > n {
		return nil, false
	}
	return &BernoulliSuffStat{n: n, k: k}, true
}

func (s *BernoulliSuffStat) N() int { return s.n }

// K 成功次數
func (s *BernoulliSuffStat) K() int { return s.k }

func (s *BernoulliSuffStat) Observe(x bool) {
	s.n++
	if x {
		s.k++
	}
}

// Forget 移除一筆先前觀測過的資料；x 不可能被觀測過時（沒有對應的成功或失敗次數）統計量不變。
func (s *BernoulliSuffStat) Forget(x bool) {
	if x {
		if s.k == 0 {
			return
		}
		s.k--
		s.n--
		return
	}
	if s.n == s.k {
		return
	}
	s.n--
}

// ObserveInt 以整數表示觀測（非 0 視為成功）。
func ObserveInt[T rv.Integer](s *BernoulliSuffStat, x T) {
	s.Observe(x != 0)
}

// ForgetInt ObserveInt 的反操作
func ForgetInt[T rv.Integer](s *BernoulliSuffStat, x T) {
	s.Forget(x != 0)
}

// DataOrSuffStat 二擇一：原始資料、已彙整的充分統計量，或兩者皆無。
type DataOrSuffStat[X any] struct {
	data []X
	stat SuffStat[X]
}

// FromData 以原始資料建立（不複製 slice）。
func FromData[X any](xs []X) DataOrSuffStat[X] {
	return DataOrSuffStat[X]{data: xs}
}

// FromSuffStat 以充分統計量建立。
func FromSuffStat[X any](s SuffStat[X]) DataOrSuffStat[X] {
	return DataOrSuffStat[X]{stat: s}
}

// None 沒有任何觀測（prior 分析）。
func None[X any]() DataOrSuffStat[X] {
	return DataOrSuffStat[X]{}
}

// N 觀測筆數
func (d DataOrSuffStat[X]) N() int {
	switch {
	case d.stat != nil:
		return d.stat.N()
	default:
		return len(d.data)
	}
}

func (d DataOrSuffStat[X]) IsData() bool     { return d.stat == nil && d.data != nil }
func (d DataOrSuffStat[X]) IsSuffStat() bool { return d.stat != nil }
func (d DataOrSuffStat[X]) IsNone() bool     { return d.stat == nil && d.data == nil }

func (d DataOrSuffStat[X]) Data() []X { return d.data }

func (d DataOrSuffStat[X]) SuffStat() SuffStat[X] { return d.stat }

// Fold 將內容彙整進 into：資料逐筆觀測；若已是同型別的統計量則直接回傳它。
//
// 統計量型別與 S 不同時無法換算，回傳 Warn。
func Fold[X any, S SuffStat[X]](d DataOrSuffStat[X], into S) (S, error) {
	if d.stat != nil {
		s, ok := d.stat.(S)
		if !ok {
			return into, errs.Warnf("sufficient statistic %T cannot be folded into %T", d.stat, into)
		}
		return s, nil
	}
	ObserveAll[X](into, d.data)
	return into, nil
}
