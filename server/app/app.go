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

package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// DefaultGrace 預設的優雅關閉期限
const DefaultGrace = 5 * time.Second

// App 同時啟動所有 Component；收到 SIGINT/SIGTERM、ctx 取消，或任一 Component
// 結束時，依註冊的相反順序關閉元件，最後執行 OnStop 掛勾。
type App struct {
	comps []Component
	hooks []func()
	log   *slog.Logger
	grace time.Duration
}

type Option func(*App)

// WithLogger 關閉過程的錯誤寫到 log；nil 代表不記錄。
func WithLogger(log *slog.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithGrace 設定關閉期限；<= 0 忽略。
func WithGrace(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.grace = d
		}
	}
}

func New(opts ...Option) *App {
	a := &App{grace: DefaultGrace}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewWith 建立 App 並註冊 comps
func NewWith(comps []Component, opts ...Option) *App {
	a := New(opts...)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// OnStop 註冊在所有元件關閉後才執行的掛勾（例如關閉抽樣 runtime）。
// 掛勾以註冊的相反順序執行，且只執行一次。
func (a *App) OnStop(fn func()) {
	if fn != nil {
		a.hooks = append(a.hooks, fn)
	}
}

// Run 阻塞直到結束。信號或 ctx 取消視為正常結束（回傳 nil）；
// 元件自行結束時回傳其錯誤。http.ErrServerClosed 不算錯誤。
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) { errCh <- c.Run() }(c)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()
	for i := len(a.comps) - 1; i >= 0; i-- {
		if err := a.comps[i].Shutdown(ctx); err != nil && a.log != nil {
			a.log.Error("shutdown failed", slog.Any("err", err))
		}
	}
	hooks := a.hooks
	a.hooks = nil
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}
