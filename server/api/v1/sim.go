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
	"strconv"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/httperr"
	"github.com/zintix-labs/rvlab/stats"
)

// MaxSimDraws 單次模擬請求允許的最大抽樣數
const MaxSimDraws = 1_000_000

type SimHandler struct {
	Lab *rvlab.Lab
}

func NewSimHandler(lab *rvlab.Lab) (*SimHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &SimHandler{Lab: lab}, nil
}

type simResponse struct {
	Stats    *stats.SampleReport `json:"stats"`
	Seed     int64               `json:"seed"`
	UsedTime int64               `json:"used_ms"`
}

func validDraws(draws, workers int) error {
	if draws < 1 || draws > MaxSimDraws {
		return errs.Warnf("draws must be between 1 and %d", MaxSimDraws)
	}
	if workers < 1 || workers > 16 {
		return errs.NewWarn("workers must be between 1 and 16")
	}
	return nil
}

func runSim(w http.ResponseWriter, sim *rvlab.Simulator, draws, workers int) {
	st, used, err := sim.SampleMP(draws, workers, false)
	if err != nil {
		// 錯誤來自 simulator，尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	resp := simResponse{Stats: st, Seed: sim.Seed(), UsedTime: used.Milliseconds()}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Sim GET ?name=&draws=&workers=&seed= 或 POST 同名欄位
func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	type simRequest struct {
		Name    string `json:"name"`
		Draws   int    `json:"draws"`
		Workers int    `json:"workers"`
		Seed    *int64 `json:"seed,omitempty"`
	}
	req := &simRequest{Workers: 1}
	switch q.Method {
	case http.MethodGet:
		query := q.URL.Query()
		req.Name = query.Get("name")
		if s := query.Get("draws"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("draws must be integer"))
				return
			}
			req.Draws = n
		}
		if s := query.Get("workers"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("workers must be integer"))
				return
			}
			req.Workers = n
		}
		if s := query.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			req.Seed = &v
		}
	case http.MethodPost:
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	default:
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := sh.Lab.EntryByName(req.Name); !ok {
		httperr.Errs(w, errs.Warnf("distribution %q not found", req.Name))
		return
	}
	var (
		sim *rvlab.Simulator
		err error
	)
	if req.Seed != nil {
		sim, err = sh.Lab.NewSimulatorWithSeed(req.Name, *req.Seed)
	} else {
		sim, err = sh.Lab.NewSimulator(req.Name)
	}
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "build simulator err: "+req.Name))
		return
	}
	if req.Draws == 0 {
		req.Draws = sim.Draws(10_000)
	}
	if err := validDraws(req.Draws, req.Workers); err != nil {
		httperr.Errs(w, err)
		return
	}
	runSim(w, sim, req.Draws, req.Workers)
}

// SimByCfg POST {"cfg": {...DistSetting...}, "draws", "workers", "seed"}
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	type simByCfgRequest struct {
		Cfg     json.RawMessage `json:"cfg"`
		Draws   int             `json:"draws"`
		Workers int             `json:"workers"`
		Seed    *int64          `json:"seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req := &simByCfgRequest{Workers: 1}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}
	if len(req.Cfg) == 0 {
		httperr.Errs(w, errs.NewWarn("cfg is required"))
		return
	}
	seed := int64(0)
	if req.Seed != nil {
		seed = *req.Seed
	}
	sim, err := sh.Lab.NewSimulatorByJSON(req.Cfg, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Draws == 0 {
		req.Draws = sim.Draws(10_000)
	}
	if err := validDraws(req.Draws, req.Workers); err != nil {
		httperr.Errs(w, err)
		return
	}
	runSim(w, sim, req.Draws, req.Workers)
}
