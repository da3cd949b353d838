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

package data

import (
	"errors"
	"slices"
	"testing"

	"github.com/zintix-labs/rvlab/errs"
)

func TestBernoulliSuffStatObserveForget(t *testing.T) {
	s := NewBernoulliSuffStat()
	ObserveAll[bool](s, []bool{true, false, true, true})
	if s.N() != 4 || s.K() != 3 {
		t.Fatalf("unexpected stat n=%d k=%d", s.N(), s.K())
	}
	s.Forget(true)
	s.Forget(false)
	if s.N() != 2 || s.K() != 2 {
		t.Fatalf("unexpected stat after forget n=%d k=%d", s.N(), s.K())
	}

	ObserveInt(s, uint8(0))
	ObserveInt(s, int64(5))
	if s.N() != 4 || s.K() != 3 {
		t.Fatalf("unexpected stat after int observe n=%d k=%d", s.N(), s.K())
	}
	ForgetInt(s, int16(1))
	if s.N() != 3 || s.K() != 2 {
		t.Fatalf("unexpected stat after int forget n=%d k=%d", s.N(), s.K())
	}
}

func TestBernoulliSuffStatFromCounts(t *testing.T) {
	if _, ok := BernoulliSuffStatFromCounts(3, 4); ok {
		t.Fatalf("expected k > n rejected")
	}
	s, ok := BernoulliSuffStatFromCounts(10, 4)
	if !ok || s.N() != 10 || s.K() != 4 {
		t.Fatalf("unexpected stat %+v", s)
	}
}

func TestDataOrSuffStat(t *testing.T) {
	none := None[bool]()
	if !none.IsNone() || none.N() != 0 {
		t.Fatalf("expected none")
	}

	d := FromData([]bool{true, true, false})
	if !d.IsData() || d.N() != 3 {
		t.Fatalf("expected data with n=3")
	}
	folded, err := Fold(d, NewBernoulliSuffStat())
	if err != nil || folded.N() != 3 || folded.K() != 2 {
		t.Fatalf("unexpected folded stat n=%d k=%d", folded.N(), folded.K())
	}

	st, _ := BernoulliSuffStatFromCounts(7, 1)
	ds := FromSuffStat[bool](st)
	if !ds.IsSuffStat() || ds.N() != 7 {
		t.Fatalf("expected suffstat with n=7")
	}
	if got, err := Fold(ds, NewBernoulliSuffStat()); err != nil || got != st {
		t.Fatalf("expected existing stat to be reused")
	}
}

type tally struct{ n int }

func (c *tally) N() int         { return c.n }
func (c *tally) Observe(x bool) { c.n++ }
func (c *tally) Forget(x bool)  { c.n-- }

func TestFoldRejectsForeignStat(t *testing.T) {
	_, err := Fold(FromSuffStat[bool](&tally{n: 3}), NewBernoulliSuffStat())
	if errs.Level(err) != errs.Warn {
		t.Fatalf("foreign stat must be warn, got %v", err)
	}
}

func TestBernoulliSuffStatForgetUnseen(t *testing.T) {
	s := NewBernoulliSuffStat()
	s.Forget(true)
	if s.N() != 0 || s.K() != 0 {
		t.Fatalf("forget on empty stat changed it: n=%d k=%d", s.N(), s.K())
	}
	ObserveAll[bool](s, []bool{false, false})
	s.Forget(true)
	if s.N() != 2 || s.K() != 0 {
		t.Fatalf("forget(true) without successes changed it: n=%d k=%d", s.N(), s.K())
	}
	s, _ = BernoulliSuffStatFromCounts(2, 2)
	s.Forget(false)
	if s.N() != 2 || s.K() != 2 {
		t.Fatalf("forget(false) without failures changed it: n=%d k=%d", s.N(), s.K())
	}
	s.Forget(true)
	if s.N() != 1 || s.K() != 1 {
		t.Fatalf("forget(true) got n=%d k=%d", s.N(), s.K())
	}
}

func TestPartitionFromZ(t *testing.T) {
	p, err := PartitionFromZ([]int{0, 1, 0, 2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 5 || p.K() != 3 {
		t.Fatalf("unexpected partition len=%d k=%d", p.Len(), p.K())
	}
	if !slices.Equal(p.Counts(), []int{2, 2, 1}) {
		t.Fatalf("unexpected counts %v", p.Counts())
	}
	if !p.Valid() {
		t.Fatalf("expected valid partition")
	}

	_, err = PartitionFromZ([]int{1, 0})
	if !errors.Is(err, errs.ErrDomain) {
		t.Fatalf("expected domain error for non-canonical z, got %v", err)
	}
}

func TestPartitionAppend(t *testing.T) {
	p := NewPartition()
	for _, zi := range []int{0, 0, 1, 0, 2} {
		if err := p.Append(zi); err != nil {
			t.Fatalf("append %d: %v", zi, err)
		}
	}
	if err := p.Append(5); err == nil {
		t.Fatalf("expected error when skipping group ids")
	}
	q, _ := PartitionFromZ([]int{0, 0, 1, 0, 2})
	if !p.Equal(q) || !p.Valid() {
		t.Fatalf("append result mismatch: %v vs %v", p.Z(), q.Z())
	}
	z := p.Z()
	z[0] = 9
	if p.Z()[0] != 0 {
		t.Fatalf("Z must return a copy")
	}
}
