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

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/catalog"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/httperr"
	"github.com/zintix-labs/rvlab/spec"
)

type FamilyHandler struct {
	lab *rvlab.Lab
}

func NewFamilyHandler(lab *rvlab.Lab) (*FamilyHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &FamilyHandler{lab: lab}, nil
}

// Families 列出支援的分佈家族與已註冊的具名分佈
func (fh *FamilyHandler) Families(w http.ResponseWriter, r *http.Request) {
	type familyView struct {
		Family  spec.Family   `json:"family"`
		Default spec.Output   `json:"default"`
		Outputs []spec.Output `json:"outputs"`
		Params  []string      `json:"params"`
		Doc     string        `json:"doc"`
	}
	type familiesResponse struct {
		Families []familyView      `json:"families"`
		Dists    []catalog.Summary `json:"dists"`
	}
	if r.Method != http.MethodGet {
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sum, err := fh.lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	resp := familiesResponse{Dists: sum}
	for _, info := range catalog.Families() {
		resp.Families = append(resp.Families, familyView{
			Family:  info.Family,
			Default: info.Default,
			Outputs: info.Outputs,
			Params:  info.Params,
			Doc:     info.Doc,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
