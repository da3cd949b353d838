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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/demo"
	"github.com/zintix-labs/rvlab/server"
	"github.com/zintix-labs/rvlab/server/logger"
	"github.com/zintix-labs/rvlab/server/svrcfg"
)

// rvlab 的實驗室 server 入口，載入內建示範分佈與 -dir 指定的設定目錄。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	server.Run(cfg)
}

type config struct {
	LogMode    string
	Addr       string
	SourcePool int
	Dir        string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.IntVar(&cfg.SourcePool, "pool", 4, "number of random sources shared by requests")
	flag.StringVar(&cfg.Dir, "dir", "", "extra config directory (flat, yaml/json)")
	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	lab, err := demo.NewLabWithDir(cfg.Dir, rvlab.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &svrcfg.SvrCfg{
		Log:        log,
		Addr:       cfg.Addr,
		SourcePool: cfg.SourcePool,
		Lab:        lab,
	}, nil
}
