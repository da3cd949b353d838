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
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/spec"
)

// sources 多個平面設定目錄合併成單一檔名空間；同名檔案只能出現在一個來源。
type sources struct {
	fsys  []fs.FS
	owner map[string]int // 檔名 → fsys 索引
}

func newSources(fsys ...fs.FS) (*sources, error) {
	if len(fsys) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	s := &sources{fsys: fsys, owner: make(map[string]int)}
	for i, f := range fsys {
		if f == nil {
			return nil, errs.Fatalf("fs[%d] is nil", i)
		}
		if err := s.index(i); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// index 只收根目錄的 yaml/json；子目錄是錯誤，其他檔案（README 等）略過。
func (s *sources) index(i int) error {
	return fs.WalkDir(s.fsys[i], ".", func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && path == ".":
			return nil
		case d.IsDir():
			return errs.Fatalf("config FS must be flat (no subdirectories): %q", path)
		case !isConfigFile(path):
			return nil
		}
		if prev, dup := s.owner[path]; dup {
			return errs.Fatalf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i)
		}
		s.owner[path] = i
		return nil
	})
}

func (s *sources) has(name string) bool {
	_, ok := s.owner[name]
	return ok
}

func (s *sources) files() []string {
	return slices.Sorted(maps.Keys(s.owner))
}

func (s *sources) read(name string) ([]byte, error) {
	i, ok := s.owner[name]
	if !ok {
		return nil, errs.Warnf("config %q does not exist in catalog", name)
	}
	raw, err := fs.ReadFile(s.fsys[i], name)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return raw, nil
}

// validFileName 設定檔名必須是不以 . 開頭的 yaml/yml/json 檔名，不可含路徑。
func validFileName(file string) error {
	switch {
	case file == "":
		return errs.NewFatal("empty config filename")
	case strings.ContainsAny(file, `/\:`):
		return errs.Fatalf("invalid config filename: %q (must be a basename; no / \\ :)", file)
	case strings.HasPrefix(file, "."):
		return errs.Fatalf("invalid config filename: %q (cannot start with '.')", file)
	case !isConfigFile(file):
		return errs.Fatalf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	return nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func parseSetting(filename string, raw []byte) (*spec.DistSetting, error) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return spec.GetDistSettingByJSON(raw)
	}
	return spec.GetDistSettingByYAML(raw)
}
