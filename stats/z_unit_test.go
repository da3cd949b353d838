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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/dist"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"github.com/zintix-labs/rvlab/stats"
)

// buildReport 1..n 的樣本
func buildReport(n int) *stats.SampleReport {
	rep := stats.NewSampleReport("seq", "test", "f64")
	for i := 1; i <= n; i++ {
		rep.Add(float64(i))
	}
	rep.Done()
	return rep
}

func TestSampleReportCoreMetrics(t *testing.T) {
	rep := buildReport(100)
	sum := rep.Summary

	if sum.N != 100 {
		t.Fatalf("N got %d", sum.N)
	}
	if math.Abs(sum.Mean-50.5) > 1e-12 {
		t.Fatalf("Mean got %.12f want 50.5", sum.Mean)
	}
	wantStd := math.Sqrt(100.0 * 101.0 / 12.0)
	if math.Abs(sum.Std-wantStd) > 1e-9 {
		t.Fatalf("Std got %.12f want %.12f", sum.Std, wantStd)
	}
	if sum.Min != 1 || sum.Max != 100 {
		t.Fatalf("range got [%v, %v]", sum.Min, sum.Max)
	}
	if math.Abs(sum.Median-50) > 1 {
		t.Fatalf("Median got %v", sum.Median)
	}
	if !sum.MeanCI.Contains(50.5) {
		t.Fatalf("mean CI %v should contain the mean", sum.MeanCI)
	}
	if math.Abs(sum.Skewness) > 1e-6 {
		t.Fatalf("symmetric sample should have zero skewness, got %v", sum.Skewness)
	}

	total := 0.0
	for _, c := range rep.Dist.Counts {
		total += c
	}
	if int(total) != sum.N || len(rep.Dist.Bins) != stats.DefaultBins {
		t.Fatalf("histogram total %v bins %d", total, len(rep.Dist.Bins))
	}

	rep.Done() // idempotent
	if rep.Summary.Mean != 50.5 {
		t.Fatalf("Mean changed after second Done")
	}
}

func TestSampleReportDegenerate(t *testing.T) {
	empty := stats.NewSampleReport("empty", "test", "f64")
	empty.Done()
	if empty.Summary.N != 0 || empty.Dist == nil {
		t.Fatalf("empty report should be done with zero N")
	}

	same := stats.NewSampleReport("same", "test", "int")
	same.AddAll([]float64{3, 3, 3})
	same.Done()
	if same.Summary.Std != 0 || len(same.Dist.Counts) != 1 || same.Dist.Counts[0] != 3 {
		t.Fatalf("constant sample: std %v counts %v", same.Summary.Std, same.Dist.Counts)
	}
}

func TestSampleReportTheory(t *testing.T) {
	g, _ := dist.NewGaussian(2, 3)
	rep := stats.NewSampleReport("gauss", "gaussian", "f64")
	rep.AddAll(rv.Sample[float64](g.F64(), 20000, core.NewDefault(11)))
	m, okM := g.Mean()
	v, okV := g.Variance()
	rep.SetTheory(m, okM, v, okV)
	rep.Done()
	if math.Abs(rep.Theory.MeanZ) > 4 {
		t.Fatalf("sample mean too far from theory: z = %v", rep.Theory.MeanZ)
	}
	if !strings.Contains(rep.Table(), "Mean z") {
		t.Fatalf("table should include theory rows")
	}
}

func TestProportionCI(t *testing.T) {
	hat, ci := stats.ProportionCI(0, 10, 0.95)
	if hat != 0 || ci.Lo != 0 || math.Abs(ci.Hi-0.308497) > 1e-5 {
		t.Fatalf("k=0: %v %v", hat, ci)
	}
	hat, ci = stats.ProportionCI(10, 10, 0.95)
	if hat != 1 || ci.Hi != 1 || math.Abs(ci.Lo-0.691503) > 1e-5 {
		t.Fatalf("k=n: %v %v", hat, ci)
	}
	_, ci = stats.ProportionCI(0, 0, 0.95)
	if ci.Lo != 0 || ci.Hi != 1 {
		t.Fatalf("n=0 should give [0,1], got %v", ci)
	}
	hat, ci = stats.ProportionCI(30, 100, 0.95)
	if !ci.Contains(hat) || ci.Lo < 0.2 || ci.Hi > 0.41 {
		t.Fatalf("k=30: %v %v", hat, ci)
	}
}

// TestComposedMarginalWithinCI Beta(2,3) → Bernoulli 的邊際成功率為 α/(α+β)。
func TestComposedMarginalWithinCI(t *testing.T) {
	b, _ := dist.NewBeta(2, 3)
	ys, err := dist.PriorPredictive(b).Sample(20000, core.NewDefault(2025))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ps := stats.ProportionOf(ys, 0.999)
	if !ps.CI.Contains(0.4) {
		t.Fatalf("p = 0.4 outside CI %v (hat %v)", ps.CI, ps.Hat)
	}
}

func TestEstimator(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i) / 100
	}
	est := stats.Estimator(data, stats.DefaultQuantiles, []float64{0.3, 0.5}, 0.95)
	if est.N != 100 || len(est.Quantiles) != len(stats.DefaultQuantiles) {
		t.Fatalf("unexpected estimate shape: %+v", est)
	}
	for _, q := range est.Quantiles {
		if math.Abs(q.Hat-q.Q) > 0.05 {
			t.Fatalf("P%v expected ~%v, got %.3f", q.Q*100, q.Q, q.Hat)
		}
		if q.CI.Lo > q.Hat || q.CI.Hi < q.Hat {
			t.Fatalf("P%v: CI %v does not bracket %v", q.Q*100, q.CI, q.Hat)
		}
	}
	if th := est.Thresholds[0]; th.Hat != 0.31 {
		t.Fatalf("P(X <= 0.3) got %v want 0.31", th.Hat)
	}
	if !strings.Contains(est.Table(), "Quantiles") {
		t.Fatalf("table missing quantiles section")
	}

	if e := stats.Estimator(nil, stats.DefaultQuantiles, nil, 0.95); e.N != 0 || len(e.Quantiles) != 0 {
		t.Fatalf("empty data should give empty estimate")
	}
	if lo, hi := stats.QuantileCI([]float64{7}, 0.5, 0.95); lo != 7 || hi != 7 {
		t.Fatalf("single sample CI: [%v, %v]", lo, hi)
	}
	if p := stats.QuantilePoint([]float64{3, 1, 2}, 0.5); p != 2 {
		t.Fatalf("median of {1,2,3} got %v", p)
	}
}

func TestRenderers(t *testing.T) {
	rep := buildReport(10)

	var buf bytes.Buffer
	if err := rep.WriteWith(&buf, stats.RenderByName("json")); err != nil {
		t.Fatalf("json render: %v", err)
	}
	var back stats.SampleReport
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if back.Summary == nil || back.Summary.N != 10 || back.Summary.Name != "seq" {
		t.Fatalf("json round trip lost summary: %+v", back.Summary)
	}

	buf.Reset()
	if err := rep.WriteWith(&buf, stats.RenderByName("yaml")); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	if !strings.Contains(buf.String(), "summary:") || !strings.Contains(buf.String(), "counts: [") {
		t.Fatalf("yaml output unexpected:\n%s", buf.String())
	}

	buf.Reset()
	if err := rep.WriteWith(&buf, stats.RenderByName("")); err != nil {
		t.Fatalf("table render: %v", err)
	}
	if !strings.Contains(buf.String(), "| Draws") {
		t.Fatalf("table output unexpected:\n%s", buf.String())
	}

	buf.Reset()
	est := stats.Estimator([]float64{1, 2, 3, 4}, []float64{0.5}, nil, 0.9)
	if err := (&stats.YAMLEstimateRender{}).Write(&buf, est); err != nil {
		t.Fatalf("estimate yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "confidence: 0.9") {
		t.Fatalf("estimate yaml unexpected:\n%s", buf.String())
	}
}
