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

package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zintix-labs/rvlab/server/app"
)

type order struct {
	mu  sync.Mutex
	seq []string
}

func (o *order) add(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq = append(o.seq, s)
}

func blocking(name string, o *order) app.ComponentFunc {
	done := make(chan struct{})
	return app.ComponentFunc{
		RunFn: func() error { <-done; return nil },
		ShutdownFn: func(ctx context.Context) error {
			o.add("stop " + name)
			close(done)
			return nil
		},
	}
}

func TestAppComponentError(t *testing.T) {
	o := &order{}
	boom := errors.New("boom")
	a := app.NewWith([]app.Component{
		blocking("a", o),
		app.ComponentFunc{RunFn: func() error { return boom }},
		blocking("c", o),
	})
	a.OnStop(func() { o.add("hook 1") })
	a.OnStop(func() { o.add("hook 2") })

	if err := a.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected component error, got %v", err)
	}
	want := []string{"stop c", "stop a", "hook 2", "hook 1"}
	if len(o.seq) != len(want) {
		t.Fatalf("got %v want %v", o.seq, want)
	}
	for i := range want {
		if o.seq[i] != want[i] {
			t.Fatalf("got %v want %v", o.seq, want)
		}
	}
}

func TestAppContextCancel(t *testing.T) {
	o := &order{}
	a := app.New(app.WithGrace(time.Second))
	a.Register(blocking("svr", o))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("cancel must be a clean stop, got %v", err)
	}
	if len(o.seq) != 1 || o.seq[0] != "stop svr" {
		t.Fatalf("unexpected shutdown sequence %v", o.seq)
	}
}
