package types

import "github.com/google/uuid"

// CampaignID identifies one fuzzing campaign run of this worker. Seed
// records, stats keys and corpus events all carry it.
type CampaignID string

func NewCampaignID() CampaignID {
	return CampaignID(uuid.New().String())
}

func (id CampaignID) String() string { return string(id) }
