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

// Package corefmt 亂數來源快照的文字傳輸格式。
//
// 快照以 base64url（無 padding）編碼，可以直接放進 JSON 或 URL query。
package corefmt

import (
	"encoding/base64"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/core"
)

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.NewWarn("decode base64url failed: " + err.Error())
	}
	return b, nil
}

// Snapshot 取得 r 目前狀態的文字快照
func Snapshot(r core.Restorable) (string, error) {
	b, err := r.Snapshot()
	if err != nil {
		return "", errs.Wrap(err, "snapshot failed")
	}
	return EncodeBase64URL(b), nil
}

// Restore 以文字快照還原 r；格式或長度不符回傳 Warn。
func Restore(r core.Restorable, snap string) error {
	b, err := DecodeBase64URL(snap)
	if err != nil {
		return err
	}
	if err := r.Restore(b); err != nil {
		return errs.NewWarn("restore failed: " + err.Error())
	}
	return nil
}
