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
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/spec"
)

func settingOf(family spec.Family, out spec.Output, params map[string]any) *spec.DistSetting {
	return &spec.DistSetting{Name: "t", Family: family, Output: out, Params: params}
}

func mustBuild(t *testing.T, ds *spec.DistSetting) Drawer {
	t.Helper()
	d, err := Build(ds)
	if err != nil {
		t.Fatalf("build %s: %v", ds.Label(), err)
	}
	return d
}

func assertWarn(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	e, ok := errs.AsErr(err)
	if !ok || e.ErrLv != errs.Warn {
		t.Fatalf("expected warn-level error, got %v", err)
	}
}

func TestFamiliesSorted(t *testing.T) {
	fs := Families()
	if len(fs) != 7 {
		t.Fatalf("expected 7 built-in families, got %d", len(fs))
	}
	for i := 1; i < len(fs); i++ {
		if fs[i-1].Family >= fs[i].Family {
			t.Fatalf("families not sorted: %s before %s", fs[i-1].Family, fs[i].Family)
		}
	}
}

func TestRegisterFamilyRejects(t *testing.T) {
	err := RegisterFamily(FamilyInfo{Family: spec.FamilyBeta, Default: spec.OutF64, Outputs: []spec.Output{spec.OutF64}}, buildBeta)
	if err == nil {
		t.Fatalf("duplicate family must fail")
	}
	err = RegisterFamily(FamilyInfo{Family: "bogus", Default: spec.OutBool, Outputs: []spec.Output{spec.OutF64}}, buildBeta)
	if err == nil {
		t.Fatalf("default output outside outputs must fail")
	}
}

// 每個家族的每個輸出都要能建立、抽樣並算出有限的對數密度
func TestBuildEveryOutput(t *testing.T) {
	params := map[spec.Family]map[string]any{
		spec.FamilyBeta:          {"alpha": 2.0, "beta": 3.0},
		spec.FamilyGaussian:      {"mu": 1.0, "sigma": 2.0},
		spec.FamilyBernoulli:     {"p": 0.3},
		spec.FamilyBetaBinomial:  {"n": 10, "alpha": 0.5, "beta": 2.0},
		spec.FamilyCategorical:   {"weights": []any{1.0, 2.0, 3.0}},
		spec.FamilyCrp:           {"alpha": 1.5, "n": 6},
		spec.FamilyBetaBernoulli: {"alpha": 0.5, "beta": 0.5},
	}
	src := core.NewDefault(11)
	for _, info := range Families() {
		for _, out := range info.Outputs {
			d := mustBuild(t, settingOf(info.Family, out, params[info.Family]))
			if d.Output() != out || d.Family() != info.Family {
				t.Fatalf("%s/%s: identity mismatch", info.Family, out)
			}
			for i := 0; i < 50; i++ {
				x, err := d.Draw(src)
				if err != nil {
					t.Fatalf("%s/%s draw: %v", info.Family, out, err)
				}
				lnf, err := d.LnF(x)
				if err != nil {
					t.Fatalf("%s/%s lnf(%v): %v", info.Family, out, x, err)
				}
				if math.IsInf(lnf, 0) || math.IsNaN(lnf) {
					t.Fatalf("%s/%s: drawn value %v has lnf %v", info.Family, out, x, lnf)
				}
			}
		}
	}
}

func TestBuildDefaultOutput(t *testing.T) {
	d := mustBuild(t, settingOf(spec.FamilyCategorical, "", map[string]any{"weights": []any{1, 1}}))
	if d.Output() != spec.OutInt {
		t.Fatalf("default output got %s", d.Output())
	}
	d = mustBuild(t, settingOf(spec.FamilyBernoulli, "", nil))
	if d.Output() != spec.OutBool {
		t.Fatalf("default output got %s", d.Output())
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil)
	assertWarn(t, err)

	_, err = Build(settingOf("poisson", "", nil))
	assertWarn(t, err)

	_, err = Build(settingOf(spec.FamilyGaussian, spec.OutBool, nil))
	assertWarn(t, err)

	_, err = Build(settingOf(spec.FamilyBeta, "", map[string]any{"alpha": -1.0, "beta": 1.0}))
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}

	_, err = Build(settingOf(spec.FamilyBetaBernoulli, "", map[string]any{"precision": "f16"}))
	assertWarn(t, err)
}

func TestIntegerViewOverflow(t *testing.T) {
	_, err := Build(settingOf(spec.FamilyBetaBinomial, spec.OutInt8, map[string]any{"n": 300, "alpha": 1.0, "beta": 1.0}))
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("n=300 into int8 must fail with domain error, got %v", err)
	}
	_, err = Build(settingOf(spec.FamilyBetaBinomial, spec.OutUint8, map[string]any{"n": 255, "alpha": 1.0, "beta": 1.0}))
	if err != nil {
		t.Fatalf("n=255 fits uint8: %v", err)
	}
	w := make([]any, 200)
	for i := range w {
		w[i] = 1.0
	}
	_, err = Build(settingOf(spec.FamilyCategorical, spec.OutInt8, map[string]any{"weights": w}))
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("200 categories into int8 must fail, got %v", err)
	}
	_, err = Build(settingOf(spec.FamilyGaussian, spec.OutF32, map[string]any{"mu": 1e300, "sigma": 1.0}))
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("mu=1e300 into f32 must fail with domain error, got %v", err)
	}
	if _, err = Build(settingOf(spec.FamilyGaussian, spec.OutF64, map[string]any{"mu": 1e300, "sigma": 1.0})); err != nil {
		t.Fatalf("mu=1e300 fits f64: %v", err)
	}
}

func TestLnFParse(t *testing.T) {
	d := mustBuild(t, settingOf(spec.FamilyBetaBinomial, spec.OutUint8, map[string]any{"n": 4, "alpha": 1.0, "beta": 1.0}))
	_, err := d.LnF(-1)
	assertWarn(t, err)
	_, err = d.LnF(1.5)
	assertWarn(t, err)
	_, err = d.LnF("x")
	assertWarn(t, err)

	// 型別可表示但不在支撐集
	lnf, err := d.LnF(9)
	if err != nil || !math.IsInf(lnf, -1) {
		t.Fatalf("out of support: got %v %v", lnf, err)
	}
	// 均勻 BetaBinomial(4,1,1): 每個值 1/5
	lnf, err = d.LnF("2")
	if err != nil || math.Abs(lnf-math.Log(0.2)) > 1e-9 {
		t.Fatalf("lnf(2) got %v %v", lnf, err)
	}

	b := mustBuild(t, settingOf(spec.FamilyBeta, spec.OutF64, map[string]any{"alpha": 0.5, "beta": 0.5}))
	lnf, err = b.LnF(0.5)
	if err != nil || math.Abs(lnf-math.Log(2/math.Pi)) > 1e-9 {
		t.Fatalf("jeffreys lnf(0.5) got %v %v", lnf, err)
	}
	lnf, _ = b.LnF(1.5)
	if !math.IsInf(lnf, -1) {
		t.Fatalf("beta outside (0,1) must be -Inf, got %v", lnf)
	}
}

func TestCrpDrawer(t *testing.T) {
	d := mustBuild(t, settingOf(spec.FamilyCrp, "", map[string]any{"alpha": 1.0, "n": 3}))
	x, err := d.Draw(core.NewDefault(3))
	if err != nil {
		t.Fatal(err)
	}
	z, ok := x.([]int)
	if !ok || len(z) != 3 {
		t.Fatalf("crp export must be []int of length 3, got %#v", x)
	}
	// 1,2,3 各自一桌: 1·α·α / (α(α+1)(α+2)) = 1/6
	lnf, err := d.LnF([]any{0, 1, 2})
	if err != nil || math.Abs(lnf-math.Log(1.0/6)) > 1e-9 {
		t.Fatalf("lnf got %v %v", lnf, err)
	}
	_, err = d.LnF([]any{1, 0})
	if err == nil {
		t.Fatalf("non-canonical assignment must fail")
	}
	th := d.Theory()
	if !th.HasMean || math.Abs(th.Mean-(1+0.5+1.0/3)) > 1e-12 {
		t.Fatalf("expected E[K]=H_3, got %+v", th)
	}
}

func TestBetaBernoulliDrawer(t *testing.T) {
	d := mustBuild(t, settingOf(spec.FamilyBetaBernoulli, "", map[string]any{"alpha": 2.0, "beta": 3.0}))
	src := core.NewDefault(21)
	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		x, lnf, err := d.DrawF64(src)
		if err != nil {
			t.Fatal(err)
		}
		want := math.Log(0.4)
		if x == 0 {
			want = math.Log(0.6)
		}
		if math.Abs(lnf-want) > 1e-9 {
			t.Fatalf("lnf for %v got %v want %v", x, lnf, want)
		}
		hits += int(x)
	}
	if p := float64(hits) / n; math.Abs(p-0.4) > 0.02 {
		t.Fatalf("marginal frequency %v far from 0.4", p)
	}
	th := d.Theory()
	if math.Abs(th.Mean-0.4) > 1e-12 || math.Abs(th.Variance-0.24) > 1e-12 {
		t.Fatalf("theory got %+v", th)
	}
}

func TestDrawerSample(t *testing.T) {
	d := mustBuild(t, settingOf(spec.FamilyBernoulli, spec.OutInt, map[string]any{"p": 1.0}))
	xs, err := d.Sample(5, core.NewDefault(1))
	if err != nil || len(xs) != 5 {
		t.Fatalf("sample got %v %v", xs, err)
	}
	for _, x := range xs {
		if x.(int) != 1 {
			t.Fatalf("p=1 must always give 1, got %v", x)
		}
	}
	xs, _ = d.Sample(0, core.NewDefault(1))
	if xs == nil || len(xs) != 0 {
		t.Fatalf("n=0 must be a non-nil empty slice")
	}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"jeffreys.yaml": {Data: []byte("family: beta\nparams: {alpha: 0.5, beta: 0.5}\ndraws: 10\n")},
		"coin.json":     {Data: []byte(`{"name":"fair coin","family":"bernoulli","params":{"p":0.5}}`)},
		"README.md":     {Data: []byte("ignored")},
	}
}

func TestCatalogRegisterAll(t *testing.T) {
	c, err := New(testFS())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterAll(); err != nil {
		t.Fatal(err)
	}
	names := c.Names()
	if len(names) != 2 || names[0] != "coin" || names[1] != "jeffreys" {
		t.Fatalf("names got %v", names)
	}
	ds, err := c.SettingByName(" Jeffreys ")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "jeffreys" || ds.Draws != 10 {
		t.Fatalf("setting got %+v", ds)
	}
	ds, err = c.SettingByName("coin")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "fair coin" {
		t.Fatalf("name inside config must win, got %q", ds.Name)
	}
	sums, err := c.Summaries()
	if err != nil || len(sums) != 2 {
		t.Fatalf("summaries got %v %v", sums, err)
	}
	if sums[1].Output != spec.OutF64 {
		t.Fatalf("default output not applied: %+v", sums[1])
	}
	_, err = c.SettingByName("missing")
	assertWarn(t, err)

	c.Freeze()
	if err := c.Register(Entry{Name: "x", ConfigName: "coin.json"}); err == nil {
		t.Fatalf("register after freeze must fail")
	}
}

func TestCatalogRegisterRejects(t *testing.T) {
	c, err := New(testFS())
	if err != nil {
		t.Fatal(err)
	}
	cases := [][]Entry{
		{{Name: "", ConfigName: "coin.json"}},
		{{Name: "a", ConfigName: "missing.yaml"}},
		{{Name: "a", ConfigName: "../coin.json"}},
		{{Name: "a", ConfigName: "README.md"}},
		{{Name: "a", ConfigName: "coin.json"}, {Name: "A", ConfigName: "jeffreys.yaml"}},
		{{Name: "a", ConfigName: "coin.json"}, {Name: "b", ConfigName: "coin.json"}},
	}
	for i, batch := range cases {
		if err := c.Register(batch...); err == nil {
			t.Fatalf("case %d must fail", i)
		}
	}
	if len(c.Names()) != 0 {
		t.Fatalf("failed batches must not register anything")
	}
}

func TestMultiFSRejects(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("no fs must fail")
	}
	nested := fstest.MapFS{"sub/a.yaml": {Data: []byte("family: beta\n")}}
	if _, err := New(nested); err == nil {
		t.Fatalf("subdirectory must fail")
	}
	if _, err := New(testFS(), fstest.MapFS{"coin.json": {Data: []byte("{}")}}); err == nil {
		t.Fatalf("duplicate across fs must fail")
	}
}
