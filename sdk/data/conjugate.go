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

import "github.com/zintix-labs/rvlab/errs"

// HasSuffStat 似然分佈能提供空的充分統計量，供彙整觀測資料使用。
type HasSuffStat[X any] interface {
	EmptySuffStat() SuffStat[X]
}

// ConjugatePrior 觀測型別 X、似然 Fx 的共軛先驗；P 為後驗型別（通常與先驗同型）。
//
// 所有方法都可能因為無法彙整的充分統計量而失敗（Warn）。
type ConjugatePrior[X any, Fx HasSuffStat[X], P any] interface {
	Posterior(x DataOrSuffStat[X]) (P, error)
	PosteriorPredictive(x DataOrSuffStat[X]) (Fx, error)
	// LnM 邊際似然 ln p(x)
	LnM(x DataOrSuffStat[X]) (float64, error)
	// LnPp 後驗預測 ln p(y | x)
	LnPp(y X, x DataOrSuffStat[X]) (float64, error)
}

// SequentialLnM 以逐筆後驗預測累加 Σ ln p(x_i | x_<i)，結果應等於 LnM(xs)。
// 前綴以 likelihood 的空統計量逐筆累積。
func SequentialLnM[X any, Fx HasSuffStat[X], P any](prior ConjugatePrior[X, Fx, P], likelihood Fx, xs []X) (float64, error) {
	seen := likelihood.EmptySuffStat()
	if seen == nil {
		return 0, errs.NewWarn("likelihood returned no sufficient statistic")
	}
	total := 0.0
	for _, x := range xs {
		lp, err := prior.LnPp(x, FromSuffStat[X](seen))
		if err != nil {
			return 0, err
		}
		total += lp
		seen.Observe(x)
	}
	return total, nil
}
