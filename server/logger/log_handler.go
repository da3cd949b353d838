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

// Package logger 組裝 rvlab 使用的 *slog.Logger。
//
// 兩種用法：
//   - NewDefaultLogger / NewAsync 依 LogMode 取得預設 logger。
//   - 自行組裝 slog.Handler 再以 NewLogger 包成 *slog.Logger。
//
// AsyncHandler 可把任何 slog.Handler 變成非阻塞寫出。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/rvlab/errs"
)

type LogMode uint8

const (
	ModeDev     LogMode = iota // text → stderr，含 debug
	ModeProd                   // JSON → stdout，info 以上
	ModeSilence                // 全部丟棄
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	default:
		return "unknown"
	}
}

// ParseMode 解析 CLI 的 log 模式，接受 dev / prod / silence（不分大小寫，可加 Mode 前綴）。
func ParseMode(s string) (LogMode, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.TrimPrefix(k, "mode")
	switch k {
	case "dev", "":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silence", "silent":
		return ModeSilence, nil
	default:
		return ModeDev, errs.Warnf("unknown log mode %q (dev|prod|silence)", s)
	}
}

func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode, nil))
}

// NewDefaultAsyncLogger 同 NewDefaultLogger，但以 AsyncHandler 寫出。
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(mode, nil), 8192))
}

// NewWriterLogger 依 mode 的格式與等級寫到 w（測試或寫檔用）。
func NewWriterLogger(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// NewLogger 包裝自訂 Handler；nil 使用 ModeDev。
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev, nil)
	}
	return slog.New(h)
}

// NewAsync 依 mode 建立 logger，並回傳底層 AsyncHandler 供關閉時 Close。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode, nil), buf)
	return slog.New(ah), ah
}

func buildHandler(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeSilence:
		return slog.DiscardHandler
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
		return h.WithAttrs([]slog.Attr{slog.String("service", "rvlab")})
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// AsyncHandler 非阻塞的 slog.Handler：
// Handle 只把 record 放進 channel，背景 goroutine 依序交給 next 寫出；
// channel 滿或已 Close 時丟棄並計數。slog.Logger 本來就忽略 Handle 的錯誤。
type AsyncHandler struct {
	next slog.Handler
	d    *dispatcher
}

type dispatcher struct {
	ch      chan item
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type item struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler buf <= 0 時使用 1024。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev, nil)
	}
	if buf <= 0 {
		buf = 1024
	}
	d := &dispatcher{
		ch:     make(chan item, buf),
		closed: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return &AsyncHandler{next: next, d: d}
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case it := <-d.ch:
			it.write()
		case <-d.closed:
			// 關閉後把已排隊的寫完
			for {
				select {
				case it := <-d.ch:
					it.write()
				default:
					return
				}
			}
		}
	}
}

func (it item) write() {
	if it.h != nil {
		_ = it.h.Handle(it.ctx, it.rec)
	}
}

func (h *AsyncHandler) Ready() bool { return h != nil && h.d != nil }

// Dropped 因 buffer 滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.d.dropped.Load()
}

// Close 停止接收並寫完已排隊的紀錄；可重複呼叫。
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.d.once.Do(func() { close(h.d.closed) })
	h.d.wg.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.d.closed:
		h.d.dropped.Add(1)
		return nil
	default:
	}
	// Clone：record 會跨 goroutine
	select {
	case h.d.ch <- item{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.d.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), d: h.d}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), d: h.d}
}
