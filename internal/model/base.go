package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── PostgreSQL jsonb 自定义类型 ──

// JSONMap 对应 PostgreSQL jsonb 类型的 名称→文本 映射，
// 用于存储评审维度说明（criteria name → description）。
// 实现 GORM Scanner/Valuer 接口。
type JSONMap map[string]string

// Scan 将 jsonb 文本解析为 map[string]string。
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value 将 map 序列化为 jsonb 文本。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// ScoreMap 对应 PostgreSQL jsonb 类型的 名称→分数 映射，
// 用于存储评审打分（criteria name → score）。
type ScoreMap map[string]float64

// Scan 将 jsonb 文本解析为 map[string]float64。
func (m *ScoreMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("ScoreMap.Scan: unsupported type %T", src)
	}
	if len(data) == 0 {
		*m = ScoreMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value 将 map 序列化为 jsonb 文本。
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
