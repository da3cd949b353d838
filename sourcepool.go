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

package rvlab

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

// SourcePool 管理一組亂數來源，讓併發的呼叫端各自獨佔一個來源。
// 它透過兩個通道管理來源生命週期：
//  1. pool：可用的來源，供 Do() 借出 / 歸還。
//  2. broken：最近淘汰的來源（抽樣過程 panic 或回傳 Fatal，狀態不可信），容量等於 pool，滿了丟最舊的。
//
// 來源被淘汰時會立即以新的 seed 補上一個，維持容量。
// 補充失敗（factory panic 或回傳 nil）時存活數減一；存活數歸零時 pool 自行關閉。
type SourcePool struct {
	cf            core.PRNGFactory
	initSeed      int64
	seedMaker     *seedMaker
	pool          chan core.PRNG // 可用來源
	broken        chan core.PRNG // 淘汰的來源
	done          chan struct{}  // 關閉訊號：關閉後不再允許借出/歸還/補充
	closeOnce     sync.Once
	poolsize      int
	live          atomic.Int32 // 存活（可借出或借出中）的來源數
	rebuild       atomic.Int32 // 補充次數
	inflight      atomic.Int32 // 借出中
	panics        atomic.Int32 // panic 次數
	fatals        atomic.Int32 // fatal 次數
	closeReason   atomic.Value // string
	closeInflight atomic.Int32 // 關閉當下 inflight 快照
	closeAvail    atomic.Int32 // 關閉當下可用數快照
	closeBroken   atomic.Int32 // 關閉當下 broken backlog 快照
}

// newSourcePool 建立 n 個（至少 1 個）來源，seed 由 seedMaker 推導。
func newSourcePool(n int, cf core.PRNGFactory, seed int64) *SourcePool {
	n = max(1, n)
	p := &SourcePool{
		cf:        cf,
		initSeed:  seed,
		seedMaker: newSeedMaker(seed),
		pool:      make(chan core.PRNG, n),
		broken:    make(chan core.PRNG, n),
		done:      make(chan struct{}),
		poolsize:  n,
	}
	p.closeReason.Store("")
	p.closeInflight.Store(-1)
	p.closeAvail.Store(-1)
	p.closeBroken.Store(-1)
	p.live.Store(int32(n))

	for i := 0; i < n; i++ {
		p.pool <- cf.New(p.seedMaker.next())
	}
	return p
}

// Close 進入關閉狀態；之後 Do() 直接回傳錯誤。可重複呼叫。
func (p *SourcePool) Close() {
	p.closeWithReason("closed")
}

func (p *SourcePool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// closeWithReason 進入關閉狀態並記錄原因（只寫入一次）。
func (p *SourcePool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		p.closeReason.Store(reason)
		p.closeInflight.Store(p.inflight.Load())
		p.closeAvail.Store(int32(len(p.pool)))
		p.closeBroken.Store(int32(len(p.broken)))
		close(p.done)
	})
}

// isFatalErr 只有錯誤本身宣告 Fatal 時才淘汰來源；定義域、參數類錯誤不影響來源。
func isFatalErr(err error) bool {
	if e, ok := errs.AsErr(err); ok {
		return e.ErrLv == errs.Fatal
	}
	return false
}

// Do 借出一個來源給 fn 獨佔使用，結束後歸還。
//
// fn panic 時回傳 Fatal（panic 值為 error 時保留錯誤鏈，例如 ErrEntropy），
// 該來源被淘汰並補上新來源。
func (p *SourcePool) Do(ctx context.Context, fn func(src core.RAND) error) (err error) {
	var src core.PRNG
	select {
	case <-p.done:
		return errs.NewFatal("source pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return errs.Interrupted(ctx.Err())
	case src = <-p.pool:
		p.inflight.Add(1)
	}
	if src == nil {
		return errs.NewFatal("source pool got nil source")
	}

	defer func() {
		p.inflight.Add(-1)
		r := recover()
		if r != nil {
			p.panics.Add(1)
			err = errs.Panicked("draw panic", r)
		}
		if p.Closed() {
			return
		}
		if r != nil || isFatalErr(err) {
			if r == nil {
				p.fatals.Add(1)
			}
			p.retire(src)
			return
		}
		select {
		case <-p.done:
		case p.pool <- src:
		}
	}()

	return fn(src)
}

// retire 把 src 放進 broken，並補上一個新來源。
func (p *SourcePool) retire(src core.PRNG) {
	select {
	case p.broken <- src:
	default:
		select {
		case <-p.broken:
		default:
		}
		select {
		case p.broken <- src:
		default:
		}
	}
	fresh := p.fresh()
	if fresh == nil {
		if p.live.Add(-1) <= 0 {
			p.closeWithReason("all_sources_broken")
		}
		return
	}
	p.rebuild.Add(1)
	select {
	case <-p.done:
	case p.pool <- fresh:
	}
}

func (p *SourcePool) fresh() (src core.PRNG) {
	defer func() {
		if recover() != nil {
			src = nil
		}
	}()
	return p.cf.New(p.seedMaker.next())
}

func (p *SourcePool) PoolSize() int {
	return p.poolsize
}

// Live 存活的來源數
func (p *SourcePool) Live() int {
	return int(p.live.Load())
}

func (p *SourcePool) Inflight() int {
	return int(p.inflight.Load())
}

func (p *SourcePool) ReBuild() int {
	return int(p.rebuild.Load())
}

func (p *SourcePool) Panics() int {
	return int(p.panics.Load())
}

func (p *SourcePool) Fatals() int {
	return int(p.fatals.Load())
}

// Available 當下可借出的來源數；高併發下為近似值。
func (p *SourcePool) Available() int {
	return len(p.pool)
}

func (p *SourcePool) ClosedReason() string {
	if v := p.closeReason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SourcePoolMetrics 拉取式觀測快照。
// Available / BrokenBacklog 來自 len(chan)，高併發下為近似值。
// Close* 欄位只在關閉時寫入一次，-1 表示尚未關閉。
type SourcePoolMetrics struct {
	PoolSize      int    `json:"pool_size"`
	Live          int    `json:"live"`
	Available     int    `json:"available"`
	Inflight      int    `json:"inflight"`
	BrokenBacklog int    `json:"broken_backlog"`
	Rebuild       int    `json:"rebuild"`
	Panics        int    `json:"panics"`
	Fatals        int    `json:"fatals"`
	Closed        bool   `json:"closed"`
	CloseReason   string `json:"close_reason"`

	CloseInflight int `json:"close_inflight"`
	CloseAvail    int `json:"close_avail"`
	CloseBroken   int `json:"close_broken"`
}

func (p *SourcePool) Metrics() SourcePoolMetrics {
	return SourcePoolMetrics{
		PoolSize:      p.poolsize,
		Live:          int(p.live.Load()),
		Available:     len(p.pool),
		Inflight:      int(p.inflight.Load()),
		BrokenBacklog: len(p.broken),
		Rebuild:       int(p.rebuild.Load()),
		Panics:        int(p.panics.Load()),
		Fatals:        int(p.fatals.Load()),
		Closed:        p.Closed(),
		CloseReason:   p.ClosedReason(),
		CloseInflight: int(p.closeInflight.Load()),
		CloseAvail:    int(p.closeAvail.Load()),
		CloseBroken:   int(p.closeBroken.Load()),
	}
}
