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

package catalog

import (
	"math"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"github.com/zintix-labs/rvlab/spec"
)

// Drawer 型別抹除後的分佈：設定檔、CLI、HTTP 只透過它與 typed core 溝通。
//
// Draw 回傳可直接 JSON 編碼的值；DrawF64 回傳標準 float64 表示與該值的對數密度，
// 供統計彙整使用。
type Drawer interface {
	Name() string
	Family() spec.Family
	Output() spec.Output
	String() string
	Draw(src core.RAND) (any, error)
	DrawF64(src core.RAND) (x float64, lnf float64, err error)
	Sample(n int, src core.RAND) ([]any, error)
	LnF(x any) (float64, error)
	Theory() Theory
}

// Theory 理論平均與變異數；不存在時對應旗標為 false。
type Theory struct {
	Mean     float64 `json:"mean"`
	HasMean  bool    `json:"has_mean"`
	Variance float64 `json:"variance"`
	HasVar   bool    `json:"has_var"`
}

func theoryOf(d any) Theory {
	var th Theory
	if m, ok := d.(rv.Mean); ok {
		th.Mean, th.HasMean = m.Mean()
	}
	if v, ok := d.(rv.Variance); ok {
		th.Variance, th.HasVar = v.Variance()
	}
	return th
}

// typed 以輸出型別 T 實作 Drawer
type typed[T any] struct {
	name   string
	family spec.Family
	output spec.Output
	desc   string
	theory Theory

	draw   func(core.RAND) (T, error)
	lnf    func(T) float64 // nil 代表沒有可計算的密度
	parse  func(any) (T, error)
	canon  func(T) float64
	export func(T) any
}

// fromRv 由一般的 rv.Rv[T] view 建立 Drawer
func fromRv[T any](ds *spec.DistSetting, out spec.Output, d rv.Rv[T], family any, parse func(any) (T, error), canon func(T) float64) *typed[T] {
	return &typed[T]{
		name:   ds.Name,
		family: ds.Family,
		output: out,
		desc:   describe(family),
		theory: theoryOf(family),
		draw:   func(src core.RAND) (T, error) { return d.Draw(src), nil },
		lnf:    d.LnF,
		parse:  parse,
		canon:  canon,
	}
}

func (t *typed[T]) Name() string        { return t.name }
func (t *typed[T]) Family() spec.Family { return t.family }
func (t *typed[T]) Output() spec.Output { return t.output }
func (t *typed[T]) String() string      { return t.desc }
func (t *typed[T]) Theory() Theory      { return t.theory }

func (t *typed[T]) exportOf(x T) any {
	if t.export != nil {
		return t.export(x)
	}
	return x
}

func (t *typed[T]) Draw(src core.RAND) (any, error) {
	x, err := t.draw(src)
	if err != nil {
		return nil, err
	}
	return t.exportOf(x), nil
}

func (t *typed[T]) DrawF64(src core.RAND) (float64, float64, error) {
	x, err := t.draw(src)
	if err != nil {
		return 0, 0, err
	}
	lnf := math.NaN()
	if t.lnf != nil {
		lnf = t.lnf(x)
	}
	return t.canon(x), lnf, nil
}

func (t *typed[T]) Sample(n int, src core.RAND) ([]any, error) {
	if n <= 0 {
		return []any{}, nil
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		x, err := t.draw(src)
		if err != nil {
			return out, errs.Wrap(err, "sample aborted")
		}
		out = append(out, t.exportOf(x))
	}
	return out, nil
}

// LnF 先把 x 解析成 T；解析失敗回傳 Warn，型別正確但不在支撐集內回傳 -Inf。
func (t *typed[T]) LnF(x any) (float64, error) {
	if t.lnf == nil {
		return 0, errs.Warnf("%s: density not available for output %s", t.family, t.output)
	}
	v, err := t.parse(x)
	if err != nil {
		return 0, err
	}
	return t.lnf(v), nil
}

func describe(d any) string {
	if s, ok := d.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
