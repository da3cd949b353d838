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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/rvlab/server/api/v1"
	"github.com/zintix-labs/rvlab/server/netsvr"
	"github.com/zintix-labs/rvlab/server/netsvr/middleware"
	"github.com/zintix-labs/rvlab/server/svrcfg"
)

// RegisterRoutes 註冊；回傳的 SampleHandler 持有 runtime，關閉時由呼叫端負責。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) (*v1.SampleHandler, error) {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr, sCfg)          // 2. 註冊主頁
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

// 註冊主頁：列出已註冊的分佈名稱
func registerIndex(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service": "rvlab",
			"dists":   sCfg.Lab.Names(),
		})
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) (*v1.SampleHandler, error) {
	f, err := v1.NewFamilyHandler(sCfg.Lab)
	if err != nil {
		return nil, err
	}
	s, err := v1.NewSampleHandler(sCfg)
	if err != nil {
		return nil, err
	}
	sim, err := v1.NewSimHandler(sCfg.Lab)
	if err != nil {
		return nil, err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/families", f.Families)
		vOne.Get("/metrics", s.Metrics)
		vOne.Route("/sample", s.Sample)
		vOne.Route("/sim", sim.Sim)

		vOne.Post("/density", s.Density)
		vOne.Post("/simbycfg", sim.SimByCfg)
		vOne.Post("/stat", v1.Stat)
	})
	return s, nil
}
