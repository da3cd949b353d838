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

package misc

// 數學常數
const (
	SqrtPi       = 1.772453850905515881919427556567825376987457275391
	HalfLn2Pi    = 0.918938533204672669540968854562379419803619384766 // 0.5 ln(2π)
	HalfLn2PiE   = 1.418938533204672669540968854562379419803619384766 // 0.5 ln(2πe)
	HalfLnPi     = 0.57236494292470008193873809432261623442173004150390625
	LnPi         = 1.1447298858494001638774761886452324688434600830078125
	Ln2Pi        = 1.83787706640934533908193770912475883960723876953125
	EulerGamma   = 0.5772156649015328606065120900824024310421
	LnLn2        = -0.36651292058166432701243915823266946945426344783710526305
	DefaultQuadE = 1e-8
)
