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

package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// encoder gzip.Writer 與 zstd.Encoder 的共同面
type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
}

// codec 一種 Content-Encoding 與它的 encoder pool
type codec struct {
	name string
	pool sync.Pool
	mk   func() encoder
}

func (c *codec) get(w io.Writer) encoder {
	if v := c.pool.Get(); v != nil {
		e := v.(encoder)
		e.Reset(w)
		return e
	}
	e := c.mk()
	e.Reset(w)
	return e
}

// put 歸還 encoder；discard 為 true 時結尾資料丟進 io.Discard（204/304 不可有 body）。
func (c *codec) put(e encoder, discard bool) {
	if discard {
		e.Reset(io.Discard)
	}
	_ = e.Close()
	c.pool.Put(e)
}

// CompressConfig 壓縮等級；需在第一個請求前設定。
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// 依偏好排序：同時接受時優先 zstd
var codecs = []*codec{
	{name: "zstd", mk: func() encoder {
		zw, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}},
	{name: "gzip", mk: func() encoder {
		gw, err := gzip.NewWriterLevel(io.Discard, DefaultCompressConfig.GzipLevel)
		if err != nil {
			gw = gzip.NewWriter(io.Discard)
		}
		return gw
	}},
}

// negotiate 由 Accept-Encoding 選出 codec；q=0 視為拒絕。沒有可用的回傳 nil。
func negotiate(accept string) *codec {
	if accept == "" {
		return nil
	}
	ok := make(map[string]bool)
	for _, part := range strings.Split(accept, ",") {
		name, params, _ := strings.Cut(part, ";")
		if q, found := strings.CutPrefix(strings.TrimSpace(params), "q="); found {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v <= 0 {
				continue
			}
		}
		ok[strings.ToLower(strings.TrimSpace(name))] = true
	}
	for _, c := range codecs {
		if ok[c.name] {
			return c
		}
	}
	return nil
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

// 1xx / 204 / 304 沒有 body
func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressWriter struct {
	http.ResponseWriter
	enc      encoder
	disabled bool
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	h := cw.Header()
	h.Del("Content-Length")
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) WriteHeader(code int) {
	h := cw.Header()
	h.Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		h.Del("Content-Encoding")
		h.Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Flush() {
	if !cw.disabled {
		if f, ok := cw.enc.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}

func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應。
// HEAD、WebSocket 升級與已設定 Content-Encoding 的回應原樣通過。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		c := negotiate(r.Header.Get("Accept-Encoding"))
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", c.name)
		w.Header().Add("Vary", "Accept-Encoding")

		cw := &compressWriter{ResponseWriter: w, enc: c.get(w)}
		defer func() { c.put(cw.enc, cw.disabled) }()
		next.ServeHTTP(cw, r)
	})
}
