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

	"github.com/zintix-labs/rvlab/catalog"
	"github.com/zintix-labs/rvlab/corefmt"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

// Runtime 對外服務用：持有所有已註冊分佈的 Drawer，與共用的 SourcePool。
type Runtime struct {
	lab *Lab

	drawers map[string]catalog.Drawer
	names   []string // 固定順序
	pool    *SourcePool

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// MaxDraws 單次請求允許的最大抽樣數
const MaxDraws = 100_000

func (rt *Runtime) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.Interrupted(ctx.Err())
	case <-rt.done:
		rt.closed.Store(true)
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
		return nil
	}
}

// Drawer 依名稱取得分佈
func (rt *Runtime) Drawer(name string) (catalog.Drawer, error) {
	e, ok := rt.lab.EntryByName(name)
	if !ok {
		return nil, errs.Warnf("distribution %q not found", name)
	}
	return rt.drawers[e.Name], nil
}

func (rt *Runtime) Names() []string {
	return append([]string(nil), rt.names...)
}

// Sample 以借出的來源抽 n 個值
func (rt *Runtime) Sample(ctx context.Context, name string, n int) ([]any, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	if n < 0 || n > MaxDraws {
		return nil, errs.Warnf("draws must be in [0, %d], got %d", MaxDraws, n)
	}
	d, err := rt.Drawer(name)
	if err != nil {
		return nil, err
	}
	var out []any
	err = rt.pool.Do(ctx, func(src core.RAND) error {
		xs, serr := d.Sample(n, src)
		out = xs
		return serr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replay 指定抽樣起點：Seed 建立新來源，或 Snap 還原既有狀態（Snap 優先）。
type Replay struct {
	Seed *int64
	Snap string
}

// SampleReplay 以獨立來源抽樣，不佔用 SourcePool。
// 回傳抽樣前的快照；以同一個快照再呼叫一次會得到相同結果。
func (rt *Runtime) SampleReplay(ctx context.Context, name string, n int, rp Replay) ([]any, string, error) {
	if err := rt.check(ctx); err != nil {
		return nil, "", err
	}
	if n < 0 || n > MaxDraws {
		return nil, "", errs.Warnf("draws must be in [0, %d], got %d", MaxDraws, n)
	}
	d, err := rt.Drawer(name)
	if err != nil {
		return nil, "", err
	}
	var src core.PRNG
	switch {
	case rp.Snap != "":
		src = rt.lab.cf.New(0)
		if err := corefmt.Restore(src, rp.Snap); err != nil {
			return nil, "", err
		}
	case rp.Seed != nil:
		src = rt.lab.cf.New(*rp.Seed)
	default:
		return nil, "", errs.NewWarn("seed or snap required")
	}
	snap, err := corefmt.Snapshot(src)
	if err != nil {
		return nil, "", err
	}
	xs, err := d.Sample(n, src)
	if err != nil {
		return nil, "", err
	}
	return xs, snap, nil
}

// Density 計算 x 的對數密度；不需要亂數來源。
func (rt *Runtime) Density(ctx context.Context, name string, x any) (float64, error) {
	if err := rt.check(ctx); err != nil {
		return 0, err
	}
	d, err := rt.Drawer(name)
	if err != nil {
		return 0, err
	}
	return d.LnF(x)
}

func (rt *Runtime) Pool() *SourcePool {
	return rt.pool
}

// Close 關閉 runtime 與來源池；可重複呼叫。
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		rt.pool.closeWithReason(reason)
		close(rt.done)
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
