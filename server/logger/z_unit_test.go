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

package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/zintix-labs/rvlab/server/logger"
)

// syncBuffer 背景 goroutine 寫、測試讀
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]logger.LogMode{
		"dev": logger.ModeDev, "ModeProd": logger.ModeProd, " Silence ": logger.ModeSilence, "": logger.ModeDev,
	} {
		got, err := logger.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := logger.ParseMode("loud"); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	buf := &syncBuffer{}
	base := logger.NewWriterLogger(logger.ModeProd, buf).Handler()
	ah := logger.NewAsyncHandler(base, 256)
	log := slog.New(ah).With(slog.String("dist", "coin"))
	for i := 0; i < 100; i++ {
		log.Info("draw", slog.Int("i", i))
	}
	ah.Close()
	out := buf.String()
	if n := strings.Count(out, `"msg":"draw"`); n+int(ah.Dropped()) != 100 {
		t.Fatalf("written %d + dropped %d != 100", n, ah.Dropped())
	}
	if !strings.Contains(out, `"service":"rvlab"`) || !strings.Contains(out, `"dist":"coin"`) {
		t.Fatalf("missing attrs: %s", out)
	}

	log.Info("after close")
	ah.Close()
	if strings.Contains(buf.String(), "after close") {
		t.Fatalf("records after Close must be dropped")
	}
}

func TestSilence(t *testing.T) {
	log := logger.NewDefaultLogger(logger.ModeSilence)
	if log.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("silence logger must be disabled")
	}
}
