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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// 開發用任務：go run ./scripts [task]
//
//	test        只列出 ok / FAIL
//	test-all    完整輸出含 coverage
//	test-race   以 -race 跑併發相關套件
//	demo        列出內建家族與示範分佈
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-all|test-race|demo]")
		os.Exit(1)
	}
	var ok bool
	switch task := os.Args[1]; task {
	case "test":
		cleanCache()
		ok = run(okFailOnly, "go", "test", "./...", "-cover", "-count=1")
	case "test-all":
		cleanCache()
		ok = run(nil, "go", "test", "./...", "-cover")
	case "test-race":
		ok = run(okFailOnly, "go", "test", "-race", "-count=1", ".", "./server/...")
	case "demo":
		ok = run(nil, "go", "run", "./cmd/run", "-list")
	default:
		printColor(colorYellow, "Unknown task: "+task)
		os.Exit(1)
	}
	if !ok {
		printColor(colorRed, "\ntask finished with errors")
		os.Exit(1)
	}
}

func cleanCache() {
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		printColor(colorRed, err.Error())
	}
}

// okFailOnly 只保留 ok / FAIL 與建置失敗的行
func okFailOnly(line string) bool {
	return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
}

// run 執行指令並逐行上色輸出；keep 為 nil 時全部輸出。
func run(keep func(string) bool, name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		printColor(colorRed, err.Error())
		return false
	}
	cmd.Stderr = cmd.Stdout // 2>&1
	if err := cmd.Start(); err != nil {
		printColor(colorRed, fmt.Sprintf("Error starting %s: %v", name, err))
		return false
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, "[no test files]") || (keep != nil && !keep(line)) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			printColor(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "failed"):
			printColor(colorRed, line)
		default:
			fmt.Println(line)
		}
	}
	return cmd.Wait() == nil
}

type ansiColor string

const (
	colorYellow ansiColor = "\033[33m"
	colorGreen  ansiColor = "\033[32m"
	colorRed    ansiColor = "\033[31m"
	colorReset            = "\033[0m"
)

func printColor(c ansiColor, msg string) {
	fmt.Printf("%s%s%s\n", c, msg, colorReset)
}
