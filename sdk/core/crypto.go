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

package core

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/zintix-labs/rvlab/errs"
)

// CryptoSource 以 io.Reader（預設 crypto/rand.Reader）作為熵來源。
//
// 它不可重現（沒有 Snapshot/Restore），只滿足 RAND。
// 底層讀取失敗屬於致命的外部錯誤：直接 panic 一個包裝 errs.ErrEntropy 的 *errs.E，
// 不重試、也不改用其他來源。
type CryptoSource struct {
	r   io.Reader
	buf [8]byte
}

// NewCryptoSource 建立以 crypto/rand 為底層的 CryptoSource。
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{r: rand.Reader}
}

// NewReaderSource 以任意 io.Reader 作為熵來源（測試或硬體 RNG 用）。
func NewReaderSource(r io.Reader) *CryptoSource {
	return &CryptoSource{r: r}
}

func (s *CryptoSource) Uint64() uint64 {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		panic(errs.Entropy(err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

func (s *CryptoSource) Float64() float64 {
	return float64(s.Uint64()<<11>>11) / (1 << 53)
}

func (s *CryptoSource) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(s.uint64n(uint64(max)))
}

func (s *CryptoSource) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(s.uint64n(uint64(max)))
}

func (s *CryptoSource) uint64n(n uint64) uint64 {
	hi, lo := bits.Mul64(s.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(s.Uint64(), n)
		}
	}
	return hi
}
