package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray 字符串数组类型，用于存储 images、供应商等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	bytes, ok := scanBytes(value)
	if !ok {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// CategoryRef 商品分类引用
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRefs 分类集合
type CategoryRefs []CategoryRef

// Value 实现 driver.Valuer 接口
func (c CategoryRefs) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (c *CategoryRefs) Scan(value interface{}) error {
	bytes, ok := scanBytes(value)
	if !ok {
		*c = CategoryRefs{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// HasAny 判断是否包含任一分类
func (c CategoryRefs) HasAny(ids map[int64]struct{}) bool {
	if len(ids) == 0 {
		return false
	}
	for _, ref := range c {
		if _, ok := ids[ref.ID]; ok {
			return true
		}
	}
	return false
}

// AttributePair 变体属性（如 颜色=红）
type AttributePair struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// AttributePairs 变体属性集合
type AttributePairs []AttributePair

// Value 实现 driver.Valuer 接口
func (a AttributePairs) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (a *AttributePairs) Scan(value interface{}) error {
	bytes, ok := scanBytes(value)
	if !ok {
		*a = AttributePairs{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Label 拼接属性用于展示，例如 "Color: Red / Size: M"
func (a AttributePairs) Label() string {
	parts := make([]string, 0, len(a))
	for _, pair := range a {
		option := strings.TrimSpace(pair.Option)
		if option == "" {
			continue
		}
		name := strings.TrimSpace(pair.Name)
		if name == "" {
			parts = append(parts, option)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, option))
	}
	return strings.Join(parts, " / ")
}

// sqlite 返回 string，postgres 返回 []byte
func scanBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	case string:
		if v == "" {
			return nil, false
		}
		return []byte(v), true
	default:
		return nil, false
	}
}
