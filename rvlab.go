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

// Package rvlab 提供隨機變數實驗室的「組裝入口」與「運行入口」。
//
// Lab 把兩個地基組裝在一起：
//  1. Catalog：分佈目錄，定義有哪些具名分佈、各自對應的設定檔名稱（ConfigName）。
//  2. PRNGFactory：亂數來源工廠，保證同一個 seed 產生同一條序列。
//
// 設定檔來源一律以 fs.FS 注入；Lab 不解析路徑。
// 由 Lab 可以建立 Simulator（大量抽樣與統計）或 Runtime（供 HTTP 服務併發抽樣）。
package rvlab

import (
	"crypto/rand"
	"io/fs"
	"log/slog"
	"math"
	"math/big"

	"github.com/zintix-labs/rvlab/catalog"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/server/logger"
	"github.com/zintix-labs/rvlab/spec"
)

// Configs 把一或多個設定檔來源打包成 New() 需要的參數。
// 可以是 go:embed 的 embed.FS，也可以是 os.DirFS。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 組裝器
//
// 使用流程分成兩階段：
//   - 註冊階段：建立 catalog、註冊設定檔。
//   - 執行階段：Freeze 之後依名稱建立 Drawer / Simulator / Runtime。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	log *slog.Logger
	sum []catalog.Summary
}

// Option 調整 Lab 的可選設定
type Option func(*Lab)

// WithLogger 注入 logger；nil 代表靜默。
func WithLogger(l *slog.Logger) Option {
	return func(lab *Lab) {
		if l != nil {
			lab.log = l
		}
	}
}

// New 建立一個 Lab instance。cf 不能為 nil，cfgs 至少一個。
func New(cf core.PRNGFactory, cfgs []fs.FS, opts ...Option) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	lab := &Lab{
		cat: cata,
		cf:  cf,
		log: logger.NewDefaultLogger(logger.ModeSilence),
	}
	for _, opt := range opts {
		opt(lab)
	}
	return lab, nil
}

// NewAuto 建立後直接註冊所有設定檔並凍結，進入執行階段。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS, opts ...Option) (*Lab, error) {
	lab, err := New(cf, cfgs, opts...)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll
//
// 把 fs 中所有設定檔以檔名（去副檔名）註冊，並逐一解析、建立 Drawer 做完整檢查。
// 任一檔案失敗即回傳錯誤，catalog 不會處於註冊一半的狀態。
func (l *Lab) RegisterAll() error {
	names := l.cat.Files()
	if len(names) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	trial, err := catalog.New(l.cat.Sources()...)
	if err != nil {
		return err
	}
	if err := trial.RegisterAll(); err != nil {
		return err
	}
	if _, err := trial.Summaries(); err != nil {
		return errs.Wrap(err, "config check failed")
	}
	if err := l.cat.RegisterAll(); err != nil {
		return err
	}
	l.log.Info("configs registered", slog.Int("count", len(l.cat.Names())))
	return nil
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) IsFrozen() bool { return l.cat.IsFrozen() }

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) All() []catalog.Entry {
	return l.cat.All()
}

// Summary 列舉所有已註冊分佈；結果會快取。
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	sum, err := l.cat.Summaries()
	if err != nil {
		return nil, err
	}
	l.sum = sum
	return l.sum, nil
}

// Setting 依名稱讀取分佈設定
func (l *Lab) Setting(name string) (*spec.DistSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.SettingByName(name)
}

// Drawer 依名稱建立型別抹除後的分佈
func (l *Lab) Drawer(name string) (catalog.Drawer, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	d, _, err := l.cat.DrawerByName(name)
	return d, err
}

// NewSimulator 依名稱建立模擬器。
// 設定檔有 seed 時使用該 seed，否則由 crypto/rand 產生。
func (l *Lab) NewSimulator(name string) (*Simulator, error) {
	ds, err := l.Setting(name)
	if err != nil {
		return nil, err
	}
	seed := ds.Seed
	if seed == 0 {
		if seed, err = cryptoSeed(); err != nil {
			return nil, err
		}
	}
	return l.newSimulator(ds, seed)
}

// NewSimulatorWithSeed 與 NewSimulator 相同，但由呼叫端指定 seed。
func (l *Lab) NewSimulatorWithSeed(name string, seed int64) (*Simulator, error) {
	ds, err := l.Setting(name)
	if err != nil {
		return nil, err
	}
	return l.newSimulator(ds, seed)
}

// NewSimulatorByJSON 以臨時設定建立模擬器，不經過 catalog。
func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	ds, err := spec.GetDistSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	return l.newSimulator(ds, seed)
}

func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	ds, err := spec.GetDistSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return l.newSimulator(ds, seed)
}

func (l *Lab) newSimulator(ds *spec.DistSetting, seed int64) (*Simulator, error) {
	d, err := catalog.Build(ds)
	if err != nil {
		return nil, err
	}
	l.log.Debug("simulator built", slog.String("dist", ds.Label()), slog.Int64("seed", seed))
	return newSimulatorWithSeed(ds, d, l.cf, seed, l.log), nil
}

// BuildRuntime 為每個已註冊分佈建立 Drawer，並配上 size 個亂數來源的 SourcePool。
func (l *Lab) BuildRuntime(size int) (*Runtime, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.buildRuntime(size, seed)
}

// BuildRuntimeWithSeed 與 BuildRuntime 相同，但來源的 seed 由呼叫端指定。
func (l *Lab) BuildRuntimeWithSeed(size int, seed int64) (*Runtime, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.buildRuntime(size, seed)
}

func (l *Lab) buildRuntime(size int, seed int64) (*Runtime, error) {
	names := l.cat.Names()
	drawers := make(map[string]catalog.Drawer, len(names))
	for _, name := range names {
		d, _, err := l.cat.DrawerByName(name)
		if err != nil {
			return nil, err
		}
		drawers[name] = d
	}
	rt := &Runtime{
		lab:     l,
		drawers: drawers,
		names:   names,
		pool:    newSourcePool(size, l.cf, seed),
		done:    make(chan struct{}),
	}
	l.log.Info("runtime built", slog.Int("dists", len(names)), slog.Int("sources", rt.pool.PoolSize()))
	return rt, nil
}

func (l *Lab) Logger() *slog.Logger {
	return l.log
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(errs.Entropy(err), "seed generation failed")
	}
	return seed.Int64(), nil
}
