package tools

import (
	"bytes"
	"database/sql/driver"
	"fmt"
)

// JSON 原样保存的 JSON 文档，用于 GORM 字段与接口透传；零值表示缺省
type JSON []byte

// Scan 实现 sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("tools.JSON: unsupported scan type %T", value)
	}
	return nil
}

// Value 实现 driver.Valuer；缺省写入 NULL
func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("tools.JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// IsNull 空或字面量 null
func (j JSON) IsNull() bool {
	return len(j) == 0 || bytes.Equal(bytes.TrimSpace(j), []byte("null"))
}

// GormDataType 让 AutoMigrate 在 mysql 上建 JSON 列
func (JSON) GormDataType() string { return "json" }
