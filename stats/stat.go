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

// Package stats 對抽樣結果做摘要統計、信賴區間估計與表格/JSON/YAML 輸出。
package stats

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// DefaultBins 直方圖預設分桶數
const DefaultBins int = 10

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Contains 回報 x 是否落在 [Lo, Hi]
func (ci CI) Contains(x float64) bool { return x >= ci.Lo && x <= ci.Hi }

// SampleReport 一次抽樣的統計報告
type SampleReport struct {
	Summary *SummaryReport `json:"Summary"`
	Dist    *DistReport    `json:"Dist"`
	Theory  *TheoryReport  `json:"Theory,omitzero"`
	xs      []float64
	bins    int
	isDone  bool
}

type SummaryReport struct {
	Name       string  `json:"Name"`
	Family     string  `json:"Family"`
	Output     string  `json:"Output"`
	N          int     `json:"N"`
	Mean       float64 `json:"Mean"`
	MeanCI     CI      `json:"MeanCI"`
	Std        float64 `json:"Std"`
	Skewness   float64 `json:"Skewness"`
	ExKurtosis float64 `json:"ExKurtosis"`
	Min        float64 `json:"Min"`
	Median     float64 `json:"Median"`
	Max        float64 `json:"Max"`
	LnLik      float64 `json:"LnLik"`
}

// DistReport 等寬分桶的直方圖
type DistReport struct {
	Bins   []string  `json:"Bins"`
	Edges  []float64 `json:"Edges"`
	Counts []float64 `json:"Counts"`
	Freq   []float64 `json:"Freq"`
}

// TheoryReport 與理論動差的比較
//
// MeanZ 為樣本平均相對理論平均的 z 值，|z| 過大代表抽樣與理論不一致。
type TheoryReport struct {
	Mean     float64 `json:"Mean"`
	Variance float64 `json:"Variance"`
	MeanZ    float64 `json:"MeanZ"`
	HasMean  bool    `json:"HasMean"`
	HasVar   bool    `json:"HasVar"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// NewSampleReport 建立空報告；輸出值以標準 float64 表示累積。
func NewSampleReport(name, family, output string) *SampleReport {
	return &SampleReport{
		Summary: &SummaryReport{Name: name, Family: family, Output: output},
		bins:    DefaultBins,
	}
}

// SetBins 設定直方圖分桶數；必須在 Done 之前呼叫。
func (s *SampleReport) SetBins(k int) {
	if k > 0 {
		s.bins = k
	}
}

// Add 累積一個抽樣值
func (s *SampleReport) Add(x float64) {
	s.xs = append(s.xs, x)
	s.isDone = false
}

// AddAll 累積多個抽樣值
func (s *SampleReport) AddAll(xs []float64) {
	s.xs = append(s.xs, xs...)
	s.isDone = false
}

// AddLnLik 累積對數似然
func (s *SampleReport) AddLnLik(v float64) { s.Summary.LnLik += v }

// SetTheory 填入理論平均與變異數，Done 時計算 z 值。
func (s *SampleReport) SetTheory(mean float64, hasMean bool, variance float64, hasVar bool) {
	s.Theory = &TheoryReport{Mean: mean, HasMean: hasMean, Variance: variance, HasVar: hasVar}
	s.isDone = false
}

// Done 一次性計算所有統計量。
//
// 抽樣期間只做 append，統計完成後呼叫 Done；重複呼叫不會重算。
func (s *SampleReport) Done() {
	if s.isDone {
		return
	}
	sum := s.Summary
	sum.N = len(s.xs)
	if sum.N == 0 {
		s.Dist = &DistReport{}
		s.isDone = true
		return
	}
	sorted := slices.Clone(s.xs)
	slices.Sort(sorted)

	sum.Mean, sum.Std = stat.MeanStdDev(sorted, nil)
	if sum.N < 2 {
		sum.Std = 0
	}
	sum.MeanCI = meanCI(sum.Mean, sum.Std, sum.N)
	sum.Min = floats.Min(sorted)
	sum.Max = floats.Max(sorted)
	sum.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if sum.N > 2 && sum.Std > 0 {
		sum.Skewness = stat.Skew(sorted, nil)
		sum.ExKurtosis = stat.ExKurtosis(sorted, nil)
	}
	s.Dist = histogram(sorted, s.bins)

	if th := s.Theory; th != nil && th.HasMean && th.HasVar && th.Variance > 0 {
		th.MeanZ = (sum.Mean - th.Mean) / math.Sqrt(th.Variance/float64(sum.N))
	}
	s.isDone = true
}

// Values 已累積的抽樣值（依抽樣順序，副本）
func (s *SampleReport) Values() []float64 { return slices.Clone(s.xs) }

func (s *SampleReport) WriteWith(w io.Writer, rep SampleReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出摘要與抽樣速度
func (s *SampleReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.N))
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable(s.Summary.Name, sk, sm))
}

// Table 摘要表格字串
func (s *SampleReport) Table() string {
	s.Done()
	sk, sm := s.fmtBasic()
	return fmtTable(s.Summary.Name, sk, sm)
}

// ============================================================
// ** 內部方法 **
// ============================================================

// meanCI 常態近似的 95% 平均值信賴區間
func meanCI(mean, std float64, n int) CI {
	se := 0.0
	if n > 1 {
		se = std / math.Sqrt(float64(n))
	}
	return CI{Lo: mean - 1.96*se, Hi: mean + 1.96*se}
}

// histogram sorted 必須已排序且非空
func histogram(sorted []float64, k int) *DistReport {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		k = 1
	}
	// stat.Histogram 的上界為開區間
	upper := math.Nextafter(hi, math.Inf(1))
	edges := floats.Span(make([]float64, k+1), lo, upper)
	counts := stat.Histogram(nil, edges, sorted, nil)

	n := float64(len(sorted))
	freq := make([]float64, k)
	bins := make([]string, k)
	for i := range counts {
		freq[i] = counts[i] / n
		bins[i] = fmt.Sprintf("[%.4g,%.4g)", edges[i], edges[i+1])
	}
	return &DistReport{Bins: bins, Edges: edges, Counts: counts, Freq: freq}
}

func formatDuration(d time.Duration, draws int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

func (s *SampleReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sum := s.Summary
	basic := map[string]string{
		"Name":        p.Sprintf("%s", sum.Name),
		"Family":      p.Sprintf("%s", sum.Family),
		"Output":      p.Sprintf("%s", sum.Output),
		"Draws":       p.Sprintf("%d", sum.N),
		"Mean":        p.Sprintf("%.6f", sum.Mean),
		"Mean 95% CI": p.Sprintf("[%.6f, %.6f]", sum.MeanCI.Lo, sum.MeanCI.Hi),
		"STD":         p.Sprintf("%.6f", sum.Std),
		"Min":         p.Sprintf("%.6g", sum.Min),
		"Median":      p.Sprintf("%.6g", sum.Median),
		"Max":         p.Sprintf("%.6g", sum.Max),
		"Ln Lik":      p.Sprintf("%.4f", sum.LnLik),
	}
	keys := []string{"Name", "Family", "Output", "Draws", "Mean", "Mean 95% CI", "STD", "Min", "Median", "Max", "Ln Lik"}
	if th := s.Theory; th != nil {
		if th.HasMean {
			basic["Theory Mean"] = p.Sprintf("%.6f", th.Mean)
			keys = append(keys, "Theory Mean")
		}
		if th.HasVar {
			basic["Theory STD"] = p.Sprintf("%.6f", math.Sqrt(th.Variance))
			keys = append(keys, "Theory STD")
		}
		if th.HasMean && th.HasVar {
			basic["Mean z"] = p.Sprintf("%.3f", th.MeanZ)
			keys = append(keys, "Mean z")
		}
	}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
