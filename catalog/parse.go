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

package catalog

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/zintix-labs/rvlab/errs"
	"github.com/zintix-labs/rvlab/sdk/data"
	"github.com/zintix-labs/rvlab/sdk/dist"
	"github.com/zintix-labs/rvlab/sdk/rv"
)

// 由 JSON / YAML / CLI 來的值轉成各輸出型別。
// 型別不符或無法表示回傳 Warn；是否落在支撐集內由分佈判斷。

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, errs.Warnf("not a number: %q", x)
		}
		return f, nil
	default:
		return 0, errs.Warnf("not a number: %v (%T)", v, v)
	}
}

func parseReal[T rv.Real](v any) (T, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	return T(f), nil
}

func parseInt[T rv.Integer](v any) (T, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, errs.Warnf("not an integer: %v", f)
	}
	i := int64(f)
	x := T(i)
	if int64(x) != i || (x < 0) != (i < 0) {
		return 0, errs.Warnf("%d is not representable in the output type", i)
	}
	return x, nil
}

func parseBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, errs.Warnf("not a bool: %q", x)
		}
		return b, nil
	default:
		return false, errs.Warnf("not a bool: %v (%T)", v, v)
	}
}

func parsePartition(v any) (data.Partition, error) {
	var z []int
	switch x := v.(type) {
	case data.Partition:
		return x, nil
	case []int:
		z = x
	case []any:
		z = make([]int, len(x))
		for i, e := range x {
			zi, err := parseInt[int](e)
			if err != nil {
				return data.Partition{}, err
			}
			z[i] = zi
		}
	default:
		return data.Partition{}, errs.Warnf("not an assignment list: %v (%T)", v, v)
	}
	p, err := data.PartitionFromZ(z)
	if err != nil {
		return data.Partition{}, errs.Wrap(err, "invalid partition")
	}
	return p, nil
}

// parseBernoulli 以成功機率描述一個 Bernoulli 值
func parseBernoulli(v any) (dist.Bernoulli, error) {
	p, err := asFloat(v)
	if err != nil {
		return dist.Bernoulli{}, err
	}
	b, err := dist.NewBernoulli(p)
	if err != nil {
		return dist.Bernoulli{}, errs.Wrap(err, "invalid bernoulli value")
	}
	return b, nil
}

func boolF64(x bool) float64 {
	if x {
		return 1
	}
	return 0
}
