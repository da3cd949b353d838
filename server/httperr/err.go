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

// Package httperr 把 errs 的分級與類別映射成 HTTP 回應，只在 server 邊界使用。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/rvlab/errs"
)

// Body 錯誤回應的 JSON 內容
type Body struct {
	Status int    `json:"status"`
	Level  string `json:"level,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error"`
}

// StatusCode 錯誤 → status code：
//   - ctx 逾時 504，ctx 取消 408
//   - ErrEntropy 503（亂數來源暫時不可用）
//   - Warn 400，其餘 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errs.IsEntropy(err):
		return http.StatusServiceUnavailable
	}
	if errs.Level(err) == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// BodyOf 建立 err 對應的回應內容
func BodyOf(err error) Body {
	return Body{
		Status: StatusCode(err),
		Level:  errs.Level(err).String(),
		Kind:   errs.Kind(err),
		Error:  err.Error(),
	}
}

// Errs 以 JSON 寫回錯誤；err 為 nil 時不做事。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	b := BodyOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(b.Status)
	_ = json.NewEncoder(w).Encode(b)
}

// Status 以固定訊息寫回非 errs 來源的錯誤（405、404 等）。
func Status(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Status: status, Error: msg})
}

// Log 只記錄需要關注的錯誤：5xx 記 Error，408/429 記 Warn，其餘略過。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
