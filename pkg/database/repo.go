package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// inserts a single seed record into the database
func AddSeedRecord(ctx context.Context, db *gorm.DB, rec *SeedRecord) error {
	if rec == nil {
		return nil
	}
	return db.WithContext(ctx).Create(rec).Error
}

// NewSeedRecord creates a new SeedRecord with the provided parameters
func NewSeedRecord(
	campaignID string,
	corpusID int,
	path string,
	inputLen int,
	execTime time.Duration,
	edges int,
) *SeedRecord {
	return &SeedRecord{
		CampaignID: campaignID,
		CreatedAt:  time.Now(),
		CorpusID:   corpusID,
		Path:       path,
		InputLen:   inputLen,
		ExecTimeUS: execTime.Microseconds(),
		Edges:      edges,
	}
}
