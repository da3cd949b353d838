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

// Package demo 以內建的示範分佈設定組裝 Lab。
package demo

import (
	"io/fs"
	"os"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/demo/demo_configs"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

// NewLab 內建示範設定加上 extra，全部註冊後凍結。
func NewLab(extra []fs.FS, opts ...rvlab.Option) (*rvlab.Lab, error) {
	cfgs := append(rvlab.Configs(demo_configs.FS), extra...)
	lab, err := rvlab.NewAuto(core.Default(), cfgs, opts...)
	if err != nil {
		return nil, errs.Wrap(err, "new demo lab failed")
	}
	return lab, nil
}

// NewLabWithDir 同 NewLab；dir 非空時加入該目錄的設定檔。
func NewLabWithDir(dir string, opts ...rvlab.Option) (*rvlab.Lab, error) {
	if dir == "" {
		return NewLab(nil, opts...)
	}
	return NewLab([]fs.FS{os.DirFS(dir)}, opts...)
}
