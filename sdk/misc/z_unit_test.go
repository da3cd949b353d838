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
	"testing"

	"github.com/zintix-labs/rvlab/sdk/core"
)

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v want %v (tol %v)", name, got, want, tol)
	}
}

func TestLnBinom(t *testing.T) {
	approx(t, "C(10,3)", LnBinom(10, 3), math.Log(120), 1e-10)
	approx(t, "C(5,0)", LnBinom(5, 0), 0, 1e-12)
	approx(t, "C(5,5)", LnBinom(5, 5), 0, 1e-12)
}

func TestLogSumExp(t *testing.T) {
	got := LogSumExp([]float64{math.Log(1), math.Log(2), math.Log(3)})
	approx(t, "lse", got, math.Log(6), 1e-12)

	if v := LogSumExp(nil); !math.IsInf(v, -1) {
		t.Fatalf("empty logsumexp should be -Inf, got %v", v)
	}
	if v := LogSumExp([]float64{math.Inf(-1), math.Inf(-1)}); !math.IsInf(v, -1) {
		t.Fatalf("all -Inf logsumexp should be -Inf, got %v", v)
	}
	// 大數值不可溢位
	approx(t, "large", LogSumExp([]float64{1000, 1000}), 1000+math.Ln2, 1e-9)
}

func TestPflipFrequencies(t *testing.T) {
	src := core.Default().New(21)
	w := []float64{1, 0, 3}
	counts := make([]int, len(w))
	const n = 40000
	for i := 0; i < n; i++ {
		idx := Pflip(w, src)
		if idx < 0 || idx >= len(w) {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Fatalf("zero weight picked %d times", counts[1])
	}
	approx(t, "p0", float64(counts[0])/n, 0.25, 0.015)
	approx(t, "p2", float64(counts[2])/n, 0.75, 0.015)
}

func TestPflipInvalid(t *testing.T) {
	src := core.Default().New(1)
	if Pflip(nil, src) != -1 {
		t.Fatalf("expected -1 for empty weights")
	}
	if Pflip([]float64{0, 0}, src) != -1 {
		t.Fatalf("expected -1 for zero total")
	}
	if LnPflip([]float64{math.Inf(-1)}, src) != -1 {
		t.Fatalf("expected -1 for all -Inf log weights")
	}
}

func TestLnPflipN(t *testing.T) {
	src := core.Default().New(2)
	lw := []float64{math.Log(0.5), math.Log(0.5)}
	xs := LnPflipN(lw, 1000, src)
	if len(xs) != 1000 {
		t.Fatalf("length mismatch: %d", len(xs))
	}
	ones := 0
	for _, x := range xs {
		if x != 0 && x != 1 {
			t.Fatalf("unexpected index %d", x)
		}
		ones += x
	}
	if ones < 400 || ones > 600 {
		t.Fatalf("unbalanced flips: %d", ones)
	}
	if len(LnPflipN(lw, 0, src)) != 0 {
		t.Fatalf("expected empty result for n=0")
	}
}

func TestQuad(t *testing.T) {
	sq := func(x float64) float64 { return x * x }
	approx(t, "fixed x^2", Quad(sq, 0, 1, 0), 1.0/3.0, 1e-12)
	approx(t, "simpson x^2", QuadEps(sq, 0, 1, 1e-10), 1.0/3.0, 1e-10)
	approx(t, "simpson sin", QuadEps(math.Sin, 0, math.Pi, 0), 2, 1e-7)
}
