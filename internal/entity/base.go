package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Map is a json object stored in a single column.
type Map map[string]any

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Map) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("failed to unmarshal map value")
		}
		b = []byte(s)
	}

	return json.Unmarshal(b, m)
}

type Array[T any] []T

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Array[T]) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("failed to unmarshal array value")
		}
		b = []byte(s)
	}

	return json.Unmarshal(b, a)
}
