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
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"strings"

	"github.com/zintix-labs/rvlab"
	"github.com/zintix-labs/rvlab/catalog"
	"github.com/zintix-labs/rvlab/demo"
	"github.com/zintix-labs/rvlab/sdk/perf"
	"github.com/zintix-labs/rvlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	dir       string
	worker    int
	draws     int
	bins      int
	seed      int64
	format    string
	quantiles bool
	list      bool
	pprofmode string
	pprofdir  string
}

func bindVar() {
	flag.StringVar(&cfg.name, "dist", "jeffreys", "distribution name (config file name without extension)")
	flag.StringVar(&cfg.dir, "dir", "", "extra config directory (flat, yaml/json)")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.draws, "draws", 0, "number of draws (0: use the config)")
	flag.IntVar(&cfg.bins, "bins", stats.DefaultBins, "histogram bins")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.format, "o", "table", "output: table, json, yaml")
	flag.BoolVar(&cfg.quantiles, "q", false, "print quantile / threshold estimates")
	flag.BoolVar(&cfg.list, "list", false, "list families and distributions then exit")
	flag.StringVar(&cfg.pprofmode, "p", "", "profile: '', cpu, heap, allocs, block, mutex, trace")
	flag.StringVar(&cfg.pprofdir, "pdir", perf.DefaultDir, "profile output directory")

	flag.Parse()

	// given seed illegal -> random seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並執行模擬器
func executeSimulator() {
	cfg.valid()

	lab, err := demo.NewLabWithDir(cfg.dir)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.list {
		listAll(lab)
		return
	}
	s, err := lab.NewSimulatorWithSeed(cfg.name, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	s.SetBins(cfg.bins)
	draws := cfg.draws
	if draws == 0 {
		draws = s.Draws(1_000_000)
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[WORKERS:%d] [DIST:%s] [%s] [DRAWS:%d] [SEED:%d]%s\n", green, cfg.worker, s.Name, s.Drawer(), draws, s.Seed(), reset)

	st, used, err := s.SampleMP(draws, cfg.worker, cfg.format == "table")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.format == "table" {
		st.StdOut(used)
	} else if err := st.WriteWith(os.Stdout, stats.RenderByName(cfg.format)); err != nil {
		log.Fatal(err)
	}
	if cfg.quantiles {
		est := stats.Estimator(st.Values(), stats.DefaultQuantiles, []float64{st.Summary.Mean}, 0.95)
		est.Out()
	}
}

func listAll(lab *rvlab.Lab) {
	p := message.NewPrinter(language.English)
	p.Println("families:")
	for _, info := range catalog.Families() {
		outs := make([]string, len(info.Outputs))
		for i, o := range info.Outputs {
			outs[i] = string(o)
		}
		p.Printf("  %-15s params=[%s] outputs=[%s]\n", info.Family, strings.Join(info.Params, ", "), strings.Join(outs, " "))
	}
	sum, err := lab.Summary()
	if err != nil {
		log.Fatal(err)
	}
	p.Println("distributions:")
	for _, s := range sum {
		p.Printf("  %-15s %-10s %-45s draws=%d\n", s.Name, s.Output, s.Desc, s.Draws)
	}
}

func (cfg *config) valid() {
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.draws < 0 {
		log.Fatal("value err : draws must >= 0")
	}
	switch cfg.format {
	case "table", "json", "yaml", "yml":
	default:
		log.Fatalf("value err : unknown output format %q", cfg.format)
	}
}
