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

// Package netsvr 定義 HTTP 服務的最小抽象，handler 與 middleware 一律走 net/http。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/rvlab/server/app"
)

// NetSvr 可註冊路由、可交給 app.App 管理生命週期的 HTTP 服務。
type NetSvr interface {
	NetRouter
	app.Component

	// Handler 組裝完成的 http.Handler（測試或掛到其他 mux 用）
	Handler() http.Handler
}

// NetRouter 純路由行為。Group 回呼只拿得到 NetRouter，看不到 Run / Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	// Route 同一路徑同時掛 GET 與 POST
	Route(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
