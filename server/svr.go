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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/api"
	"github.com/zintix-labs/rvlab/server/app"
	"github.com/zintix-labs/rvlab/server/netsvr"
	"github.com/zintix-labs/rvlab/server/svrcfg"
)

// Run 組裝並啟動預設的 chi server（:5808），阻塞直到收到終止信號。
//
//  1. 驗證 SvrCfg（logger、Lab、來源池大小）。
//  2. 註冊 middleware 與路由，建立抽樣 runtime。
//  3. app.Run；server 關閉後再關閉 runtime。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiServerWith(sCfg.Addr, netsvr.DefaultTimeouts))
}

// RunWithSvr 同 Run，但使用呼叫端給的 NetSvr。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		if err := s.Check(); err != nil {
			sCfg.Log.Error("server is not ready", slog.Any("err", err))
			return
		}
		sCfg.Log.Info("[rvlab] listening", slog.String("addr", s.Address()))
	}

	h, err := api.RegisterRoutes(svr, sCfg)
	if err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return
	}
	a := app.NewWith([]app.Component{svr}, app.WithLogger(sCfg.Log))
	a.OnStop(h.Runtime().Close)
	if err := a.Run(context.Background()); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
}
