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

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/httperr"
	"github.com/zintix-labs/rvlab/stats"
)

// ValueStat 由外部提供的一組觀測值做分位數與門檻機率估計
type ValueStat struct {
	Values     []float64 `json:"values"`
	Quantiles  []float64 `json:"quantiles"`
	Thresholds []float64 `json:"thresholds"`
	Confidence float64   `json:"confidence"`
}

func Stat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperr.Status(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	dst := new(ValueStat)
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}
	if len(dst.Values) < 1 {
		httperr.Errs(w, errs.NewWarn("values must not be empty"))
		return
	}
	if dst.Confidence == 0 {
		dst.Confidence = 0.95
	}
	if dst.Confidence <= 0 || dst.Confidence >= 1 {
		httperr.Errs(w, errs.NewWarn("confidence must be in (0, 1)"))
		return
	}
	for _, q := range dst.Quantiles {
		if q < 0 || q > 1 {
			httperr.Errs(w, errs.Warnf("quantile %v out of [0, 1]", q))
			return
		}
	}
	if len(dst.Quantiles) == 0 {
		dst.Quantiles = stats.DefaultQuantiles
	}
	est := stats.Estimator(dst.Values, dst.Quantiles, dst.Thresholds, dst.Confidence)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(est); err != nil {
		httperr.Errs(w, err)
		return
	}
}
