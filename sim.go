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
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/rvlab/catalog"
	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
	"github.com/zintix-labs/rvlab/spec"
	"github.com/zintix-labs/rvlab/stats"
)

// ChunkSize 每個子來源負責的抽樣數。
// 抽樣被切成固定大小的區塊，每個區塊的 seed 只由區塊序號決定，
// 因此同一個 seed 無論用幾個 worker，結果都相同。
const ChunkSize int = 4096

// Simulator 對單一分佈做大量抽樣，可平行執行並產出統計報表。
type Simulator struct {
	Name     string            // 分佈名稱
	ds       *spec.DistSetting // 方便重建報表
	d        catalog.Drawer    // 型別抹除後的分佈
	cf       core.PRNGFactory  // 亂數來源工廠
	initSeed int64             // 初始種子
	bins     int               // 直方圖分桶數
	log      *slog.Logger
}

func newSimulatorWithSeed(ds *spec.DistSetting, d catalog.Drawer, cf core.PRNGFactory, seed int64, log *slog.Logger) *Simulator {
	return &Simulator{
		Name:     ds.Label(),
		ds:       ds,
		d:        d,
		cf:       cf,
		initSeed: seed,
		bins:     stats.DefaultBins,
		log:      log,
	}
}

// Seed 回傳初始種子，用於重現
func (s *Simulator) Seed() int64 { return s.initSeed }

// Drawer 模擬的分佈
func (s *Simulator) Drawer() catalog.Drawer { return s.d }

// Setting 模擬使用的設定
func (s *Simulator) Setting() *spec.DistSetting { return s.ds }

// SetBins 設定報表直方圖分桶數
func (s *Simulator) SetBins(k int) {
	if k > 0 {
		s.bins = k
	}
}

// Draws 設定檔指定的抽樣數；未指定時為 n。
func (s *Simulator) Draws(n int) int {
	if s.ds.Draws > 0 {
		return s.ds.Draws
	}
	return n
}

// Sample 單線抽樣 n 次，回傳統計報表與用時
func (s *Simulator) Sample(n int, showpb bool) (*stats.SampleReport, time.Duration, error) {
	return s.SampleMP(n, 1, showpb)
}

type chunkResult struct {
	xs    []float64
	lnLik float64
	err   error
}

// SampleMP 以 mp 個 worker 平行抽樣共 n 次，依區塊順序合併後回傳報表與用時。
func (s *Simulator) SampleMP(n int, mp int, showpb bool) (*stats.SampleReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if n < 1 {
		return nil, 0, errs.NewWarn("draws must > 0")
	}
	chunks := (n + ChunkSize - 1) / ChunkSize
	mp = min(mp, chunks)

	// 每次執行都從初始種子重新推導，保證重跑結果相同
	sm := newSeedMaker(s.initSeed)
	seeds := make([]int64, chunks)
	for i := range seeds {
		seeds[i] = sm.next()
	}
	results := make([]chunkResult, chunks)

	var next atomic.Int64
	var failed atomic.Bool
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(n)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < mp; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= chunks || failed.Load() {
					return
				}
				size := min(ChunkSize, n-i*ChunkSize)
				results[i] = s.runChunk(seeds[i], size, bar)
				if results[i].err != nil {
					failed.Store(true)
				}
			}
		}()
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	rep := stats.NewSampleReport(s.Name, string(s.d.Family()), string(s.d.Output()))
	rep.SetBins(s.bins)
	th := s.d.Theory()
	if th.HasMean || th.HasVar {
		rep.SetTheory(th.Mean, th.HasMean, th.Variance, th.HasVar)
	}
	for i := range results {
		if results[i].err != nil {
			s.log.Warn("simulation aborted", slog.String("dist", s.Name), slog.Int("chunk", i), slog.Any("err", results[i].err))
			return nil, used, results[i].err
		}
		rep.AddAll(results[i].xs)
		rep.AddLnLik(results[i].lnLik)
	}
	rep.Done()
	s.log.Debug("simulation done", slog.String("dist", s.Name), slog.Int("draws", n), slog.Int("workers", mp), slog.Duration("used", used))
	return rep, used, nil
}

func (s *Simulator) runChunk(seed int64, size int, bar *pb.ProgressBar) chunkResult {
	src := s.cf.New(seed)
	r := chunkResult{xs: make([]float64, 0, size)}
	for j := 0; j < size; j++ {
		x, lnf, err := s.d.DrawF64(src)
		if err != nil {
			r.err = err
			return r
		}
		r.xs = append(r.xs, x)
		if !math.IsNaN(lnf) {
			r.lnLik += lnf
		}
	}
	bar.Add(size)
	return r
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 推進全週期 LCG 後以可逆 mix63 打散；可被多個 goroutine 同時呼叫。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
