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

// Package perf 以 runtime/pprof 包住一段工作，供 cmd/run 分析抽樣效能或產生 PGO 檔。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"slices"

	"github.com/zintix-labs/rvlab/errs"
)

// DefaultDir 預設輸出目錄
const DefaultDir = "build/profiling"

// Modes 支援的模式；空字串代表不分析。
var Modes = []string{"", "cpu", "heap", "allocs", "block", "mutex", "trace"}

// Profile 依 mode 執行 fn 並把結果寫到 dir/<mode>.pprof（trace 為 trace.out）。
// 回傳寫出的檔案路徑；mode 為空時只執行 fn。
func Profile(mode, dir string, fn func()) (string, error) {
	if !slices.Contains(Modes, mode) {
		return "", errs.Warnf("unknown profile mode %q", mode)
	}
	if mode == "" {
		fn()
		return "", nil
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create profile dir")
	}
	name := mode + ".pprof"
	if mode == "trace" {
		name = "trace.out"
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "create "+path)
	}
	defer f.Close()

	switch mode {
	case "cpu":
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile")
		}
		fn()
		pprof.StopCPUProfile()
	case "trace":
		if err := trace.Start(f); err != nil {
			return "", errs.Wrap(err, "start trace")
		}
		fn()
		trace.Stop()
	case "heap":
		fn()
		// 快照前先 GC，只留下存活物件
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return "", errs.Wrap(err, "write heap profile")
		}
	case "block", "mutex":
		if mode == "block" {
			runtime.SetBlockProfileRate(1)
			defer runtime.SetBlockProfileRate(0)
		} else {
			prev := runtime.SetMutexProfileFraction(1)
			defer runtime.SetMutexProfileFraction(prev)
		}
		fn()
		if err := pprof.Lookup(mode).WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write "+mode+" profile")
		}
	case "allocs":
		fn()
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write allocs profile")
		}
	}
	return path, nil
}
