package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SeedRecord represents a row in the public.seeds table: one interesting
// input the campaign decided to keep, with enough scheduling context to
// reconstruct why.
type SeedRecord struct {
	ID         int       `gorm:"primaryKey;column:id"`
	CampaignID string    `gorm:"column:campaign_id;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	CorpusID   int       `gorm:"column:corpus_id;not null"`
	Path       string    `gorm:"column:path"`
	InputLen   int       `gorm:"column:input_len"`
	ExecTimeUS int64     `gorm:"column:exec_time_us"`
	Edges      int       `gorm:"column:edges"`
	Metric     Metric    `gorm:"column:metric;type:jsonb"`
}

func (SeedRecord) TableName() string { return "seeds" }

// Metric represents the jsonb field in the seeds table
type Metric map[string]any

// Value implements the driver.Valuer interface for the Metric type
func (m Metric) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for the Metric type
func (m *Metric) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, &m)
}
