package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Deref nil 返回空串
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// ScalarString 把 JSON 标量转成字符串：字符串原样，数字与布尔取文本形式；null 或缺省返回 nil。
// 对象和数组返回错误
func ScalarString(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	case '{', '[':
		return nil, fmt.Errorf("expected a scalar, got %s", raw)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		s = strconv.FormatBool(b)
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		s = numberString(f)
	}
	return &s, nil
}

// numberString 与 JS 的 String(number) 一致的十进制写法
func numberString(f float64) string {
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
