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

import (
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

// DrawParam 由 outer 抽出一個參數 p，再以 build(p) 建構內層分佈。
//
// 建構失敗（例如 p 落在邊界上）原樣回傳 build 的錯誤，不做任何 clamp。
func DrawParam[P any, D any](outer Rv[P], build func(P) (D, error), src core.RAND) (D, error) {
	p := outer.Draw(src)
	return build(p)
}

// Compound 組合分佈：outer 的抽樣值作為 inner 的參數。
//
// 每次 Draw 都重新抽一次參數，不快取中間值；
// 若呼叫端想重複使用同一個參數，請自行呼叫 DrawParam 並保留回傳的分佈。
type Compound[P any, T any] struct {
	outer Rv[P]
	build func(P) (Rv[T], error)
}

// Compose 建立 outer → inner 的組合分佈。
func Compose[P any, T any](outer Rv[P], build func(P) (Rv[T], error)) Compound[P, T] {
	return Compound[P, T]{outer: outer, build: build}
}

// Draw 抽參數、建構內層分佈、再抽一次；建構失敗時回傳 domain error。
func (c Compound[P, T]) Draw(src core.RAND) (T, error) {
	var zero T
	if c.outer == nil || c.build == nil {
		return zero, errs.NewFatal("compound: outer and build are required")
	}
	inner, err := DrawParam(c.outer, c.build, src)
	if err != nil {
		return zero, err
	}
	return inner.Draw(src), nil
}

// Sample 抽 n 個值；遇到第一個錯誤即停止並回傳已抽出的部分與該錯誤。
func (c Compound[P, T]) Sample(n int, src core.RAND) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		x, err := c.Draw(src)
		if err != nil {
			return out, errs.Wrap(err, "compound sample aborted")
		}
		out = append(out, x)
	}
	return out, nil
}
