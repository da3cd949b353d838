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

package spec

import (
	"bytes"

	"github.com/zintix-labs/rvlab/errs"
	"gopkg.in/yaml.v3"
)

// DecodeParams 會把 ds.Params 由 map[string]any 轉成你要的型別 T。
// out 通常是各家族的參數 struct 指標，例如 *betaParams。
func DecodeParams[T any](ds *DistSetting, out *T) error {
	bs, err := yaml.Marshal(ds.Params)
	if err != nil {
		return errs.Wrap(err, "spec.params_decoder : marshal failed")
	}
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯參數就報錯
	if err = dec.Decode(out); err != nil {
		return errs.NewWarn("spec.params_decoder : decode failed: " + err.Error())
	}
	return nil
}
