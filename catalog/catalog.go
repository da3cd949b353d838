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
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/spec"
)

var (
	ErrDupName   = errs.NewFatal("duplicate distribution name")
	ErrDupConfig = errs.NewFatal("duplicate config name")
)

// Entry 一個具名的分佈設定檔
type Entry struct {
	Name       string `json:"name"`
	ConfigName string `json:"config"`
}

// Summary 對外列舉用的簡要資訊
type Summary struct {
	Name   string      `json:"name"`
	Family spec.Family `json:"family"`
	Output spec.Output `json:"output"`
	Draws  int         `json:"draws"`
	Desc   string      `json:"desc"`
}

// Catalog 名稱 → 設定檔。先註冊、再 Freeze，之後只讀。
type Catalog struct {
	entries map[string]Entry
	names   []string            // 排序後的名稱
	used    map[string]struct{} // 已被註冊的設定檔
	src     *sources
	frozen  bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	src, err := newSources(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		entries: make(map[string]Entry),
		used:    make(map[string]struct{}),
		src:     src,
	}, nil
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// check 單筆檢查；batchNames / batchFiles 為同一批先前的項目
func (c *Catalog) check(e Entry, batchNames, batchFiles map[string]struct{}) error {
	if e.Name == "" {
		return errs.NewFatal("distribution name required")
	}
	if err := validFileName(e.ConfigName); err != nil {
		return err
	}
	if !c.src.has(e.ConfigName) {
		return errs.Fatalf("config file not found: %s", e.ConfigName)
	}
	_, taken := c.entries[e.Name]
	_, inBatch := batchNames[e.Name]
	if taken || inBatch {
		return errs.WrapWithExtra(ErrDupName, "register", e.Name)
	}
	_, used := c.used[e.ConfigName]
	_, fileInBatch := batchFiles[e.ConfigName]
	if used || fileInBatch {
		return errs.WrapWithExtra(ErrDupConfig, "register", e.ConfigName)
	}
	return nil
}

// Register 一次註冊多筆；任一筆不合法則整批不生效。名稱會正規化（去空白、小寫）。
func (c *Catalog) Register(ents ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	batch := make([]Entry, len(ents))
	names := make(map[string]struct{}, len(ents))
	files := make(map[string]struct{}, len(ents))
	for i, e := range ents {
		e.Name = normName(e.Name)
		if err := c.check(e, names, files); err != nil {
			return err
		}
		names[e.Name] = struct{}{}
		files[e.ConfigName] = struct{}{}
		batch[i] = e
	}
	for _, e := range batch {
		c.used[e.ConfigName] = struct{}{}
		c.entries[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	slices.Sort(c.names)
	return nil
}

// RegisterAll 把尚未註冊的設定檔以檔名（去副檔名）註冊。
func (c *Catalog) RegisterAll() error {
	var ents []Entry
	for _, f := range c.src.files() {
		if _, ok := c.used[f]; ok {
			continue
		}
		ents = append(ents, Entry{Name: strings.TrimSuffix(f, filepath.Ext(f)), ConfigName: f})
	}
	return c.Register(ents...)
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.entries[normName(name)]
	return e, ok
}

func (c *Catalog) Names() []string {
	if len(c.names) == 0 {
		return nil
	}
	return slices.Clone(c.names)
}

func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.entries[name])
	}
	return out
}

// Files 所有來源中的設定檔名（含未註冊者），已排序
func (c *Catalog) Files() []string { return c.src.files() }

// Sources 建立時傳入的 fs
func (c *Catalog) Sources() []fs.FS { return slices.Clone(c.src.fsys) }

func (c *Catalog) Freeze()        { c.frozen = true }
func (c *Catalog) IsFrozen() bool { return c.frozen }

// SettingByName 讀取並解析設定；設定檔內沒有 name 時以註冊名補上。
func (c *Catalog) SettingByName(name string) (*spec.DistSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Warnf("distribution %q does not exist in catalog", name)
	}
	raw, err := c.src.read(e.ConfigName)
	if err != nil {
		return nil, err
	}
	ds, err := parseSetting(e.ConfigName, raw)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "catalog parse file error", e.ConfigName)
	}
	if ds.Name == "" {
		ds.Name = e.Name
	}
	return ds, nil
}

// DrawerByName 讀設定並建立 Drawer
func (c *Catalog) DrawerByName(name string) (Drawer, *spec.DistSetting, error) {
	ds, err := c.SettingByName(name)
	if err != nil {
		return nil, nil, err
	}
	d, err := Build(ds)
	if err != nil {
		return nil, nil, err
	}
	return d, ds, nil
}

// Summaries 逐一建立所有已註冊的分佈；任一設定失敗即回傳錯誤。
func (c *Catalog) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(c.names))
	for _, name := range c.names {
		d, ds, err := c.DrawerByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Name: name, Family: d.Family(), Output: d.Output(), Draws: ds.Draws, Desc: d.String()})
	}
	return out, nil
}
