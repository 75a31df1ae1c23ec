package kafkautils

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
)

func TestToSpecifications(t *testing.T) {
	cfg := KafkaConfig{
		BootstrapServers: "localhost:9092",
		Topics: []TopicConfig{
			{Topic: "wallet.transfers", NumPartitions: 4, ReplicationFactor: 1, Config: map[string]string{"retention.ms": "1000"}},
		},
	}

	specs := cfg.ToSpecifications()

	assert.Len(t, specs, 1)
	assert.Equal(t, "wallet.transfers", specs[0].Topic)
	assert.Equal(t, 4, specs[0].NumPartitions)
	assert.Equal(t, "1000", specs[0].Config["retention.ms"])
}

func TestIsTopicReady(t *testing.T) {
	assert.True(t, IsTopicReady(kafka.ErrNoError))
	assert.True(t, IsTopicReady(kafka.ErrTopicAlreadyExists))
	assert.False(t, IsTopicReady(kafka.ErrInvalidPartitions))
}
