package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Answer 与题型一一对应的答案类型，仅本包内类型可实现
type Answer interface {
	answered() bool
}

type SingleChoiceAnswer struct {
	Value string
}

type ScaleAnswer struct {
	Value float64
}

type MultiChoiceAnswer struct {
	Values []string
}

func (a SingleChoiceAnswer) answered() bool { return a.Value != "" }
func (a ScaleAnswer) answered() bool        { return true }
func (a MultiChoiceAnswer) answered() bool  { return len(a.Values) > 0 }

// Responses 题目 ID -> 答案，缺失即未作答
type Responses map[string]Answer

// IsAnswered 存在且非空字符串、非空列表
func IsAnswered(a Answer) bool {
	return a != nil && a.answered()
}

// DecodeResponses 将前端提交的原始 JSON 按题型解析为 Responses。
// 无法识别的题目或值直接丢弃，等同于未作答
func DecodeResponses(c *Catalog, raw map[string]json.RawMessage) Responses {
	out := make(Responses, len(raw))
	for id, msg := range raw {
		q, ok := c.Question(id)
		if !ok {
			continue
		}
		if a := decodeAnswer(q, msg); a != nil {
			out[id] = a
		}
	}
	return out
}

func decodeAnswer(q Question, msg json.RawMessage) Answer {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return nil
	}

	switch q.Type {
	case SingleChoice:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil || s == "" {
			return nil
		}
		return SingleChoiceAnswer{Value: s}
	case Scale:
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return nil
			}
			if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return nil
			}
		}
		// ParseFloat 接受 "Inf"、"NaN"，这类值不算作答
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return ScaleAnswer{Value: f}
	case MultiChoice:
		var vs []string
		if err := json.Unmarshal(msg, &vs); err != nil {
			// 单个字符串按单选项处理
			var s string
			if err := json.Unmarshal(msg, &s); err != nil || s == "" {
				return nil
			}
			vs = []string{s}
		}
		if len(vs) == 0 {
			return nil
		}
		return MultiChoiceAnswer{Values: vs}
	}
	return nil
}

// EncodeResponses Responses -> 可持久化的 JSON 值
func EncodeResponses(r Responses) map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for id, a := range r {
		switch v := a.(type) {
		case SingleChoiceAnswer:
			out[id] = v.Value
		case ScaleAnswer:
			out[id] = v.Value
		case MultiChoiceAnswer:
			out[id] = v.Values
		}
	}
	return out
}
