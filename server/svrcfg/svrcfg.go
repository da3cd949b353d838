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

package svrcfg

import (
	"log/slog"
	"net"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/logger"
)

const DefaultAddr = ":5808"

type SvrCfg struct {
	Log        *slog.Logger
	Addr       string // 監聽位址，空字串為 :5808
	SourcePool int    // 亂數來源池大小，限制在 1..64
	Lab        *rvlab.Lab
}

// Vaild 補上預設值並檢查必要欄位
func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if _, _, err := net.SplitHostPort(sc.Addr); err != nil {
		return errs.Warnf("invalid listen address %q", sc.Addr)
	}
	sc.SourcePool = min(64, max(1, sc.SourcePool))
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	if !sc.Lab.IsFrozen() {
		return errs.NewFatal("lab must be frozen before serving")
	}
	return nil
}
