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
	"fmt"
	"slices"
	"sort"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/sdk/data"
	"github.com/zintix-labs/rvlab/sdk/dist"
	"github.com/zintix-labs/rvlab/sdk/rv"
	"github.com/zintix-labs/rvlab/spec"
)

// Builder 依設定建構 Drawer；ds.Output 已經確定且在家族支援清單內。
type Builder func(ds *spec.DistSetting) (Drawer, error)

// FamilyInfo 家族的對外描述
type FamilyInfo struct {
	Family  spec.Family   `json:"family"`
	Default spec.Output   `json:"default"`
	Outputs []spec.Output `json:"outputs"`
	Params  []string      `json:"params"`
	Doc     string        `json:"doc"`
	build   Builder
}

var families = map[spec.Family]*FamilyInfo{}

// RegisterFamily 註冊一個家族；重複名稱回傳 Fatal。
func RegisterFamily(info FamilyInfo, build Builder) error {
	if info.Family == "" || build == nil {
		return errs.NewFatal("family name and builder required")
	}
	if _, ok := families[info.Family]; ok {
		return errs.NewFatal(fmt.Sprintf("duplicate family: %s", info.Family))
	}
	if !slices.Contains(info.Outputs, info.Default) {
		return errs.NewFatal(fmt.Sprintf("family %s: default output %s not in outputs", info.Family, info.Default))
	}
	info.build = build
	families[info.Family] = &info
	return nil
}

func mustRegister(info FamilyInfo, build Builder) {
	if err := RegisterFamily(info, build); err != nil {
		panic(err)
	}
}

// Families 依名稱排序的所有家族
func Families() []FamilyInfo {
	out := make([]FamilyInfo, 0, len(families))
	for _, f := range families {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out
}

// Build 依設定建構 Drawer。output 空白時採用家族預設值。
//
// 未知家族、不支援的輸出型別與參數錯誤都回傳 Warn（呼叫端輸入問題）。
func Build(ds *spec.DistSetting) (Drawer, error) {
	if ds == nil {
		return nil, errs.NewWarn("nil dist setting")
	}
	if err := ds.Init(); err != nil {
		return nil, err
	}
	info, ok := families[ds.Family]
	if !ok {
		return nil, errs.Warnf("unknown family: %q", ds.Family)
	}
	if ds.Output == "" {
		ds.Output = info.Default
	}
	if !slices.Contains(info.Outputs, ds.Output) {
		return nil, errs.Warnf("family %s does not support output %q (supported: %v)", ds.Family, ds.Output, info.Outputs)
	}
	d, err := info.build(ds)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Sprintf("build %s failed", ds.Label()))
	}
	return d, nil
}

// ============================================================
// ** 內建家族 **
// ============================================================

var intOutputs = []spec.Output{
	spec.OutInt, spec.OutInt8, spec.OutInt16, spec.OutInt32, spec.OutInt64,
	spec.OutUint, spec.OutUint8, spec.OutUint16, spec.OutUint32, spec.OutUint64,
}

func init() {
	mustRegister(FamilyInfo{
		Family:  spec.FamilyBeta,
		Default: spec.OutF64,
		Outputs: []spec.Output{spec.OutF64, spec.OutF32, spec.OutBernoulli},
		Params:  []string{"alpha", "beta"},
		Doc:     "Beta(α, β) on (0,1); output bernoulli draws a Bernoulli with that weight",
	}, buildBeta)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyGaussian,
		Default: spec.OutF64,
		Outputs: []spec.Output{spec.OutF64, spec.OutF32},
		Params:  []string{"mu", "sigma"},
		Doc:     "Gaussian(μ, σ) on the finite reals",
	}, buildGaussian)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyBernoulli,
		Default: spec.OutBool,
		Outputs: append([]spec.Output{spec.OutBool}, intOutputs...),
		Params:  []string{"p"},
		Doc:     "Bernoulli(p) over bool or {0, 1} of any integer type",
	}, buildBernoulli)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyBetaBinomial,
		Default: spec.OutInt,
		Outputs: intOutputs,
		Params:  []string{"n", "alpha", "beta"},
		Doc:     "BetaBinomial(n, α, β) over {0..n}",
	}, buildBetaBinomial)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyCategorical,
		Default: spec.OutInt,
		Outputs: intOutputs,
		Params:  []string{"weights"},
		Doc:     "Categorical over {0..k-1} with unnormalized weights",
	}, buildCategorical)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyCrp,
		Default: spec.OutPartition,
		Outputs: []spec.Output{spec.OutPartition},
		Params:  []string{"alpha", "n"},
		Doc:     "Chinese restaurant process partitions of n items",
	}, buildCrp)
	mustRegister(FamilyInfo{
		Family:  spec.FamilyBetaBernoulli,
		Default: spec.OutBool,
		Outputs: []spec.Output{spec.OutBool},
		Params:  []string{"alpha", "beta", "precision"},
		Doc:     "draw p ~ Beta(α, β) then y ~ Bernoulli(p), fresh p every draw",
	}, buildBetaBernoulli)
}

func idF64(x float64) float64  { return x }
func f32F64(x float32) float64 { return float64(x) }

type betaParams struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

func buildBeta(ds *spec.DistSetting) (Drawer, error) {
	var p betaParams
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	b, err := dist.NewBeta(p.Alpha, p.Beta)
	if err != nil {
		return nil, err
	}
	switch ds.Output {
	case spec.OutF32:
		return fromRv[float32](ds, ds.Output, b.F32(), b, parseReal[float32], f32F64), nil
	case spec.OutBernoulli:
		d := fromRv[dist.Bernoulli](ds, ds.Output, b.OverBernoulli(), b, parseBernoulli, dist.Bernoulli.P)
		d.export = func(x dist.Bernoulli) any { return x.P() }
		return d, nil
	default:
		return fromRv[float64](ds, ds.Output, b.F64(), b, parseReal[float64], idF64), nil
	}
}

type gaussianParams struct {
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
}

func buildGaussian(ds *spec.DistSetting) (Drawer, error) {
	p := gaussianParams{Sigma: 1}
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	g, err := dist.NewGaussian(p.Mu, p.Sigma)
	if err != nil {
		return nil, err
	}
	if ds.Output == spec.OutF32 {
		g32, err := g.F32()
		if err != nil {
			return nil, err
		}
		return fromRv[float32](ds, ds.Output, g32, g, parseReal[float32], f32F64), nil
	}
	return fromRv[float64](ds, ds.Output, g.F64(), g, parseReal[float64], idF64), nil
}

type bernoulliParams struct {
	P float64 `yaml:"p"`
}

func buildBernoulli(ds *spec.DistSetting) (Drawer, error) {
	p := bernoulliParams{P: 0.5}
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	b, err := dist.NewBernoulli(p.P)
	if err != nil {
		return nil, err
	}
	if ds.Output == spec.OutBool {
		return fromRv[bool](ds, ds.Output, b.Bool(), b, parseBool, boolF64), nil
	}
	return intFactories[ds.Output].bernoulli(ds, b), nil
}

type betaBinomialParams struct {
	N     int     `yaml:"n"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

func buildBetaBinomial(ds *spec.DistSetting) (Drawer, error) {
	var p betaBinomialParams
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	b, err := dist.NewBetaBinomial(p.N, p.Alpha, p.Beta)
	if err != nil {
		return nil, err
	}
	return intFactories[ds.Output].betaBinomial(ds, b)
}

type categoricalParams struct {
	Weights []float64 `yaml:"weights"`
}

func buildCategorical(ds *spec.DistSetting) (Drawer, error) {
	var p categoricalParams
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	c, err := dist.NewCategorical(p.Weights)
	if err != nil {
		return nil, err
	}
	return intFactories[ds.Output].categorical(ds, c)
}

type crpParams struct {
	Alpha float64 `yaml:"alpha"`
	N     int     `yaml:"n"`
}

func buildCrp(ds *spec.DistSetting) (Drawer, error) {
	p := crpParams{Alpha: 1}
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	c, err := dist.NewCrp(p.Alpha, p.N)
	if err != nil {
		return nil, err
	}
	d := fromRv[data.Partition](ds, ds.Output, c, c, parsePartition, func(x data.Partition) float64 { return float64(x.K()) })
	d.export = func(x data.Partition) any { return x.Z() }
	d.theory = Theory{Mean: c.ExpectedK(), HasMean: true}
	return d, nil
}

type betaBernoulliParams struct {
	Alpha     float64     `yaml:"alpha"`
	Beta      float64     `yaml:"beta"`
	Precision spec.Output `yaml:"precision"`
}

func buildBetaBernoulli(ds *spec.DistSetting) (Drawer, error) {
	p := betaBernoulliParams{Alpha: 1, Beta: 1, Precision: spec.OutF64}
	if err := spec.DecodeParams(ds, &p); err != nil {
		return nil, err
	}
	b, err := dist.NewBeta(p.Alpha, p.Beta)
	if err != nil {
		return nil, err
	}
	var draw func(src core.RAND) (bool, error)
	switch p.Precision {
	case spec.OutF64:
		draw = dist.PriorPredictive(b).Draw
	case spec.OutF32:
		draw = dist.PriorPredictiveOf[float32](b).Draw
	default:
		return nil, errs.Warnf("beta_bernoulli: precision must be f64 or f32, got %q", p.Precision)
	}
	m, _ := b.Mean()
	over := b.OverBernoulli()
	return &typed[bool]{
		name:   ds.Name,
		family: ds.Family,
		output: ds.Output,
		desc:   fmt.Sprintf("%v → Bernoulli", b),
		theory: Theory{Mean: m, HasMean: true, Variance: m * (1 - m), HasVar: true},
		draw:   draw,
		lnf:    over.LnPriorPredictive,
		parse:  parseBool,
		canon:  boolF64,
	}, nil
}

// ============================================================
// ** 整數輸出 **
// ============================================================

// intFactory 把泛型 view 依輸出型別名稱在執行期選出
type intFactory struct {
	bernoulli    func(ds *spec.DistSetting, b dist.Bernoulli) Drawer
	betaBinomial func(ds *spec.DistSetting, b dist.BetaBinomial) (Drawer, error)
	categorical  func(ds *spec.DistSetting, c dist.Categorical) (Drawer, error)
}

func intFactoryOf[T rv.Integer]() intFactory {
	canon := func(x T) float64 { return float64(x) }
	return intFactory{
		bernoulli: func(ds *spec.DistSetting, b dist.Bernoulli) Drawer {
			return fromRv[T](ds, ds.Output, dist.BernoulliOf[T](b), b, parseInt[T], canon)
		},
		betaBinomial: func(ds *spec.DistSetting, b dist.BetaBinomial) (Drawer, error) {
			v, err := dist.BetaBinomialOf[T](b)
			if err != nil {
				return nil, err
			}
			return fromRv[T](ds, ds.Output, v, b, parseInt[T], canon), nil
		},
		categorical: func(ds *spec.DistSetting, c dist.Categorical) (Drawer, error) {
			v, err := dist.CategoricalOf[T](c)
			if err != nil {
				return nil, err
			}
			return fromRv[T](ds, ds.Output, v, c, parseInt[T], canon), nil
		},
	}
}

var intFactories = map[spec.Output]intFactory{
	spec.OutInt:    intFactoryOf[int](),
	spec.OutInt8:   intFactoryOf[int8](),
	spec.OutInt16:  intFactoryOf[int16](),
	spec.OutInt32:  intFactoryOf[int32](),
	spec.OutInt64:  intFactoryOf[int64](),
	spec.OutUint:   intFactoryOf[uint](),
	spec.OutUint8:  intFactoryOf[uint8](),
	spec.OutUint16: intFactoryOf[uint16](),
	spec.OutUint32: intFactoryOf[uint32](),
	spec.OutUint64: intFactoryOf[uint64](),
}
