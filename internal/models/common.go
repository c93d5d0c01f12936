package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// JSON 类型定义，用于存储编辑器文档与自由元数据
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// ensureUUID 在创建前补齐 UUID 主键
func ensureUUID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
