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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// SampleReportRender 定義輸出行為
type SampleReportRender interface {
	Write(w io.Writer, r *SampleReport) error
}

// Json渲染
type JsonSampleReportRender struct{}

func (jr *JsonSampleReportRender) Write(w io.Writer, r *SampleReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLSampleReportRender struct{}

func (yr *YAMLSampleReportRender) Write(w io.Writer, r *SampleReport) error {
	return forceReadableList(w, r)
}

// 表格渲染
type TableSampleReportRender struct{}

func (tr *TableSampleReportRender) Write(w io.Writer, r *SampleReport) error {
	_, err := io.WriteString(w, r.Table())
	return err
}

type EstimateRender interface {
	Write(w io.Writer, e *Estimate) error
}

// Json渲染
type JsonEstimateRender struct{}

func (jr *JsonEstimateRender) Write(w io.Writer, e *Estimate) error {
	return json.NewEncoder(w).Encode(e)
}

// YAML渲染
type YAMLEstimateRender struct{}

func (yr *YAMLEstimateRender) Write(w io.Writer, e *Estimate) error {
	return forceReadableList(w, e)
}

// RenderByName 依名稱取得報告渲染器：json / yaml / table（預設）
func RenderByName(name string) SampleReportRender {
	switch name {
	case "json":
		return &JsonSampleReportRender{}
	case "yaml", "yml":
		return &YAMLSampleReportRender{}
	default:
		return &TableSampleReportRender{}
	}
}

// YAML 內層方法
//
// 只要是陣列（YAML Sequence），外層維持預設展開；
// 只有「最內層的一維陣列」才輸出成 flow style：[..., ...]
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasChild := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChild = true
			}
			styleReadableSequences(c)
		}
		if !hasChild {
			n.Style = yaml.FlowStyle
		}
	}
}
