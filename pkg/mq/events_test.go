package mq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPublishWithoutBroker(t *testing.T) {
	p := NewEventPublisher(nil, zap.NewNop())

	err := p.Publish(context.Background(), &CorpusEvent{
		CampaignID: "c1",
		Kind:       "added",
		CorpusID:   0,
	})
	assert.NoError(t, err)
}
