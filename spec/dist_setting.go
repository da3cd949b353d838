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

// Package spec 定義分佈設定檔（YAML / JSON）的資料結構與解析。
package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/rvlab/errs"
)

// Family 分佈家族名稱
type Family string

const (
	FamilyBeta          Family = "beta"
	FamilyBernoulli     Family = "bernoulli"
	FamilyGaussian      Family = "gaussian"
	FamilyBetaBinomial  Family = "beta_binomial"
	FamilyCategorical   Family = "categorical"
	FamilyCrp           Family = "crp"
	FamilyBetaBernoulli Family = "beta_bernoulli"
)

// Output 輸出型別名稱
type Output string

const (
	OutF64       Output = "f64"
	OutF32       Output = "f32"
	OutBool      Output = "bool"
	OutInt       Output = "int"
	OutInt8      Output = "int8"
	OutInt16     Output = "int16"
	OutInt32     Output = "int32"
	OutInt64     Output = "int64"
	OutUint      Output = "uint"
	OutUint8     Output = "uint8"
	OutUint16    Output = "uint16"
	OutUint32    Output = "uint32"
	OutUint64    Output = "uint64"
	OutPartition Output = "partition"
	OutBernoulli Output = "bernoulli"
)

// DistSetting 描述一個具名分佈：家族、輸出型別與參數。
//
// Params 依家族不同而異，由 DecodeParams 嚴格解碼成各家族的參數結構。
type DistSetting struct {
	Name   string         `yaml:"name"    json:"name"`
	Family Family         `yaml:"family"  json:"family"`
	Output Output         `yaml:"output"  json:"output"`
	Params map[string]any `yaml:"params"  json:"params"`
	Draws  int            `yaml:"draws"   json:"draws"`
	Seed   int64          `yaml:"seed"    json:"seed"`
}

// Init 正規化名稱並執行基本檢查；設定檔解析後與 API 請求都會呼叫。
func (ds *DistSetting) Init() error {
	ds.Name = strings.ToLower(strings.TrimSpace(ds.Name))
	ds.Family = Family(strings.ToLower(strings.TrimSpace(string(ds.Family))))
	ds.Output = Output(strings.ToLower(strings.TrimSpace(string(ds.Output))))
	if ds.Params == nil {
		ds.Params = map[string]any{}
	}
	return ds.valid()
}

// valid 只檢查與家族無關的欄位；參數值域由各家族建構子負責。
func (ds *DistSetting) valid() error {
	if ds.Family == "" {
		return errs.NewWarn(fmt.Sprintf("dist %q: family required", ds.Name))
	}
	if ds.Draws < 0 {
		return errs.NewWarn(fmt.Sprintf("dist %q: draws must be >= 0, got %d", ds.Name, ds.Draws))
	}
	return nil
}

// Label 顯示用名稱：有 name 用 name，否則用 family/output
func (ds *DistSetting) Label() string {
	if ds.Name != "" {
		return ds.Name
	}
	if ds.Output == "" {
		return string(ds.Family)
	}
	return string(ds.Family) + "/" + string(ds.Output)
}
