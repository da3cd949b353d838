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
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/httperr"
	"github.com/zintix-labs/rvlab/server/svrcfg"
)

// ============================================================
// ** SampleHandler **
// ============================================================

type SampleHandler struct {
	rt *rvlab.Runtime
}

func NewSampleHandler(sCfg *svrcfg.SvrCfg) (*SampleHandler, error) {
	rt, err := sCfg.Lab.BuildRuntime(sCfg.SourcePool)
	if err != nil {
		return nil, errs.Wrap(err, "build sample handler error")
	}
	return &SampleHandler{rt: rt}, nil
}

func (h *SampleHandler) Runtime() *rvlab.Runtime {
	return h.rt
}

// Sample GET ?name=&n=[&seed=|&snap=] 或 POST 同名欄位
func (h *SampleHandler) Sample(w http.ResponseWriter, q *http.Request) {
	type sampleRequest struct {
		Name string `json:"name"`
		N    int    `json:"n"`
		Seed *int64 `json:"seed,omitempty"`
		Snap string `json:"snap,omitempty"`
	}
	type sampleResponse struct {
		Name   string `json:"name"`
		Family string `json:"family"`
		Output string `json:"output"`
		Values []any  `json:"values"`
		Snap   string `json:"snap,omitempty"`
	}
	req := &sampleRequest{N: 1}
	switch q.Method {
	case http.MethodGet:
		req.Name = q.URL.Query().Get("name")
		if s := q.URL.Query().Get("n"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("n must be integer"))
				return
			}
			req.N = n
		}
		if s := q.URL.Query().Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			req.Seed = &v
		}
		req.Snap = q.URL.Query().Get("snap")
	case http.MethodPost:
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	default:
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if req.Name == "" {
		httperr.Errs(w, errs.NewWarn("name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(q.Context(), 5*time.Second)
	defer cancel()

	d, err := h.rt.Drawer(req.Name)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	var (
		xs   []any
		snap string
	)
	if req.Seed != nil || req.Snap != "" {
		// 可重播：回傳抽樣前的快照
		xs, snap, err = h.rt.SampleReplay(ctx, req.Name, req.N, rvlab.Replay{Seed: req.Seed, Snap: req.Snap})
	} else {
		xs, err = h.rt.Sample(ctx, req.Name, req.N)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	resp := sampleResponse{
		Name:   d.Name(),
		Family: string(d.Family()),
		Output: string(d.Output()),
		Values: xs,
		Snap:   snap,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Density POST {"name","x"}；x 不在支撐集內時 ln_f 為 null、in_support 為 false。
func (h *SampleHandler) Density(w http.ResponseWriter, q *http.Request) {
	type densityRequest struct {
		Name string `json:"name"`
		X    any    `json:"x"`
	}
	type densityResponse struct {
		Name      string   `json:"name"`
		X         any      `json:"x"`
		LnF       *float64 `json:"ln_f"`
		F         float64  `json:"f"`
		InSupport bool     `json:"in_support"`
	}
	if q.Method != http.MethodPost {
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req := new(densityRequest)
	dec := json.NewDecoder(q.Body)
	dec.UseNumber()
	if err := dec.Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}
	if req.Name == "" || req.X == nil {
		httperr.Errs(w, errs.NewWarn("name and x are required"))
		return
	}
	lnf, err := h.rt.Density(q.Context(), req.Name, req.X)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	resp := densityResponse{Name: req.Name, X: req.X}
	if !math.IsInf(lnf, -1) {
		resp.LnF = &lnf
		resp.F = math.Exp(lnf)
		resp.InSupport = true
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Metrics 來源池觀測快照
func (h *SampleHandler) Metrics(w http.ResponseWriter, q *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.rt.Pool().Metrics())
}
