package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/views"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionFor(t *testing.T) {
	tests := []struct {
		name       string
		accountID  int64
		partitions uint32
		want       int32
	}{
		{"no partitions configured", 42, 0, kafka.PartitionAny},
		{"single partition", 42, 1, 0},
		{"modulo partitions", 7, 3, 1},
		{"exact multiple", 9, 3, 0},
		{"account below partition count", 2, 8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, partitionFor(tt.accountID, tt.partitions))
		})
	}
}

func TestTransferMessage(t *testing.T) {
	event := views.TransferEvent{
		TransferID:        501,
		SenderAccountID:   7,
		ReceiverAccountID: 9,
		SenderUsername:    "asha",
		ReceiverUsername:  "ravi",
		Amount:            250,
		OccurredAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	msg, err := transferMessage("wallet.transfers", 3, "trace-9", event)
	require.NoError(t, err)

	require.NotNil(t, msg.TopicPartition.Topic)
	assert.Equal(t, "wallet.transfers", *msg.TopicPartition.Topic)
	assert.Equal(t, int32(1), msg.TopicPartition.Partition)
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, pkg.HeaderTraceId, msg.Headers[0].Key)
	assert.Equal(t, "trace-9", string(msg.Headers[0].Value))

	var decoded views.TransferEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestTransferMessage_SameSenderSamePartitionAndKey(t *testing.T) {
	first, err := transferMessage("wallet.transfers", 4, "a", views.TransferEvent{TransferID: 1, SenderAccountID: 13})
	require.NoError(t, err)
	second, err := transferMessage("wallet.transfers", 4, "b", views.TransferEvent{TransferID: 2, SenderAccountID: 13})
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.TopicPartition.Partition, second.TopicPartition.Partition)
}
