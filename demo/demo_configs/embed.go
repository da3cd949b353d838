// Package demo_configs 內建的示範分佈設定，一個檔案一個具名分佈。
package demo_configs

import (
	"embed"
)

// FS 以檔名（去副檔名）作為分佈名稱註冊。
//
//go:embed *.yaml
var FS embed.FS
