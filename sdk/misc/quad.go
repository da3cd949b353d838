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

package misc

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

const quadMaxDepth = 48

// Quad 以固定點 Gauss-Legendre 積分 f 於 [a,b]（a, b 必須有限）。
//
// 適合平滑的被積函數；端點有奇異性時請用 QuadEps。
func Quad(f func(float64) float64, a, b float64, n int) float64 {
	if n <= 0 {
		n = 64
	}
	return quad.Fixed(f, a, b, n, quad.Legendre{}, 0)
}

// QuadEps 自適應 Simpson 積分，eps <= 0 時使用 DefaultQuadE。
//
// f 會在 a、b 上被呼叫；若 f 在端點為 ±Inf（例如 Beta(0.5,0.5) 的密度），
// 請把區間向內縮一點。
func QuadEps(f func(float64) float64, a, b, eps float64) float64 {
	if eps <= 0 {
		eps = DefaultQuadE
	}
	fa, fb := f(a), f(b)
	c, fc, whole := simpson(f, a, fa, b, fb)
	return adaptive(f, a, fa, b, fb, eps, whole, c, fc, quadMaxDepth)
}

func simpson(f func(float64) float64, a, fa, b, fb float64) (c, fc, s float64) {
	c = (a + b) / 2
	fc = f(c)
	h3 := math.Abs(b-a) / 6
	return c, fc, h3 * (4*fc + fa + fb)
}

func adaptive(f func(float64) float64, a, fa, b, fb, eps, whole, c, fc float64, depth int) float64 {
	cl, fcl, left := simpson(f, a, fa, c, fc)
	cr, fcr, right := simpson(f, c, fc, b, fb)
	delta := left + right - whole
	if depth <= 0 || math.Abs(delta) <= 15*eps {
		return left + right + delta/15
	}
	return adaptive(f, a, fa, c, fc, eps/2, left, cl, fcl, depth-1) +
		adaptive(f, c, fc, b, fb, eps/2, right, cr, fcr, depth-1)
}
