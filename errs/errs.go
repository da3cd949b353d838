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

// Package errs 提供分級錯誤 E 與兩個錯誤類別哨兵值（ErrDomain / ErrEntropy）。
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLevel 錯誤嚴重度，讓最上層（CLI / HTTP）決定如何處理
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// 錯誤分類哨兵值。
//
// 建構分佈時參數不在數學定義域內一律包裝 ErrDomain；
// 亂數來源本身失敗一律包裝 ErrEntropy。呼叫端以 errors.Is 判斷類別。
var (
	ErrDomain  = errors.New("domain error")
	ErrEntropy = errors.New("entropy source failure")
)

// E 統一的錯誤型別。
// Message 主訊息；Extra 呼叫端追加的上下文；Cause 下層錯誤；ErrLv 嚴重度。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	var sb strings.Builder
	sb.WriteString("errlv=")
	sb.WriteString(e.ErrLv.String())
	sb.WriteByte(' ')
	sb.WriteString(e.Message)
	if e.Extra != "" {
		sb.WriteString(" | extra: ")
		sb.WriteString(e.Extra)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, " (cause: %v)", e.Cause)
	}
	return sb.String()
}

func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }
func NewWarn(msg string) *E  { return New(Warn, msg) }
func NewLog(msg string) *E   { return New(Log, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Domainf 參數超出定義域。分級為 Warn，滿足 errors.Is(err, ErrDomain)。
func Domainf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), Cause: ErrDomain, ErrLv: Warn}
}

// Entropy 包裝亂數來源的底層錯誤。分級為 Fatal，滿足 errors.Is(err, ErrEntropy)。
func Entropy(cause error) *E {
	return &E{
		Message: "entropy source failed",
		Cause:   errors.Join(ErrEntropy, cause),
		ErrLv:   Fatal,
	}
}

// Interrupted 包裝 ctx 的取消或逾時。分級為 Warn，保留 context.Canceled /
// context.DeadlineExceeded 供 errors.Is 判斷。
func Interrupted(cause error) *E {
	return &E{Message: "draw canceled/timeout", Cause: cause, ErrLv: Warn}
}

// Panicked 把 recover 到的值轉成 Fatal；值本身是 error 時保留錯誤鏈。
func Panicked(msg string, r any) *E {
	if err, ok := r.(error); ok {
		return &E{Message: msg, Cause: err, ErrLv: Fatal}
	}
	return Fatalf("%s : %v", msg, r)
}

func IsDomain(err error) bool  { return errors.Is(err, ErrDomain) }
func IsEntropy(err error) bool { return errors.Is(err, ErrEntropy) }

// Kind 錯誤類別名稱："domain"、"entropy" 或空字串。
func Kind(err error) string {
	switch {
	case IsEntropy(err):
		return "entropy"
	case IsDomain(err):
		return "domain"
	default:
		return ""
	}
}

// Wrap 以 msg 包裝 cause。
//
// cause 鏈上已有 *E 時沿用其分級；否則（標準庫或第三方錯誤）視為 Fatal。
// 可預期、可處理的情境請直接建立 *E，不要 Wrap。
func Wrap(cause error, msg string) *E {
	errLv := Fatal
	if e, ok := AsErr(cause); ok {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 同 Wrap，另外附加上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	ok := errors.As(err, &e)
	return e, ok
}

// Level 回傳 err 鏈上第一個 *E 的分級；nil 回傳 None，非 *E 視為 Fatal。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
