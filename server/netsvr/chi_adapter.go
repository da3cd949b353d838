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

package netsvr

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/server/httperr"
)

const DefaultAddr = ":5808"

// Timeouts http.Server 的逾時設定；零值欄位使用預設。
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// 模擬請求可能跑到數秒，寫入逾時留寬一點
var DefaultTimeouts = Timeouts{Read: 10 * time.Second, Write: 30 * time.Second, Idle: 120 * time.Second}

func (t Timeouts) orDefault() Timeouts {
	if t.Read <= 0 {
		t.Read = DefaultTimeouts.Read
	}
	if t.Write <= 0 {
		t.Write = DefaultTimeouts.Write
	}
	if t.Idle <= 0 {
		t.Idle = DefaultTimeouts.Idle
	}
	return t
}

// ChiAdapter 以 chi 實作 NetSvr。找不到路由與方法不符都回 JSON 錯誤（httperr.Body）。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
}

// NewChiServer 以 addr 與預設逾時建立
func NewChiServer(addr string) *ChiAdapter {
	return NewChiServerWith(addr, DefaultTimeouts)
}

func NewChiServerWith(addr string, to Timeouts) *ChiAdapter {
	if addr == "" {
		addr = DefaultAddr
	}
	to = to.orDefault()
	cr := chi.NewRouter()
	cr.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperr.Status(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	cr.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperr.Status(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:         addr,
			Handler:      cr,
			ReadTimeout:  to.Read,
			WriteTimeout: to.Write,
			IdleTimeout:  to.Idle,
		},
	}
}

// Check 回報是否可以啟動
func (c *ChiAdapter) Check() error {
	if c == nil || c.router == nil || c.server == nil {
		return errs.NewFatal("chi server is not initialized")
	}
	if _, _, err := net.SplitHostPort(c.server.Addr); err != nil {
		return errs.Wrap(err, "invalid listen address "+c.server.Addr)
	}
	return nil
}

func (c *ChiAdapter) Run() error {
	if err := c.Check(); err != nil {
		return err
	}
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) { c.router.Use(mw) }

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) { c.router.Get(path, h) }

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) { c.router.Post(path, h) }

func (c *ChiAdapter) Route(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
	c.router.Post(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

func (c *ChiAdapter) Address() string { return c.server.Addr }

func (c *ChiAdapter) Handler() http.Handler { return c.router }
