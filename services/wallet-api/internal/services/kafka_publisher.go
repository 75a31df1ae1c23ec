package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	kafkautils "github.com/Seer7-SWE/PayTM-clone/pkg/kafka"
	"github.com/Seer7-SWE/PayTM-clone/pkg/views"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/observability"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// TransferPublisher announces committed transfers to downstream consumers.
type TransferPublisher interface {
	PublishTransfer(traceId string, event views.TransferEvent) error
	Close()
}

type KafkaPublisherImpl struct {
	logger   *zap.Logger
	producer *kafka.Producer
	topic    string
	parts    uint32
}

// NewKafkaPublisher ensures the transfer topic exists and opens an idempotent producer.
func NewKafkaPublisher(logger *zap.Logger, ctx context.Context, cnf *configs.Config) (TransferPublisher, error) {
	topicConfig := kafkautils.KafkaConfig{
		BootstrapServers: cnf.KafkaBrokers,
		Topics: []kafkautils.TopicConfig{
			{
				Topic:             cnf.KafkaTransferTopic,
				NumPartitions:     int(cnf.KafkaPartition),
				ReplicationFactor: 1,
				Config: map[string]string{
					"cleanup.policy": "delete",
					"retention.ms":   fmt.Sprintf("%d", cnf.KafkaTransferRetention.Milliseconds()),
				},
			},
		},
	}
	if err := kafkautils.InitKafkaTopics(logger, ctx, topicConfig); err != nil {
		return nil, fmt.Errorf("init kafka topics: %w", err)
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cnf.KafkaBrokers,
		"acks":               "all",
		"enable.idempotence": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("kafka_producer_created", zap.String("brokers", cnf.KafkaBrokers), zap.String("topic", cnf.KafkaTransferTopic))
	go handleDeliveryReports(logger, p)
	return &KafkaPublisherImpl{
		logger:   logger,
		producer: p,
		topic:    cnf.KafkaTransferTopic,
		parts:    cnf.KafkaPartition,
	}, nil
}

func (k *KafkaPublisherImpl) PublishTransfer(traceId string, event views.TransferEvent) error {
	msg, err := transferMessage(k.topic, k.parts, traceId, event)
	if err != nil {
		return err
	}
	err = k.producer.Produce(msg, nil)
	if err != nil {
		observability.EventsPublishFailed.WithLabelValues(k.topic).Inc()
	}
	return err
}

// Close flushes outstanding messages before closing the producer.
func (k *KafkaPublisherImpl) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		k.logger.Warn("kafka_messages_unflushed", zap.Int("remaining", remaining))
	}
	k.producer.Close()
}

// transferMessage keys the event by sender account so the key and the partition agree.
func transferMessage(topic string, partitions uint32, traceId string, event views.TransferEvent) (*kafka.Message, error) {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: partitionFor(event.SenderAccountID, partitions),
		},
		Key:     []byte(strconv.FormatInt(event.SenderAccountID, 10)),
		Value:   msgBytes,
		Headers: []kafka.Header{{Key: pkg.HeaderTraceId, Value: []byte(traceId)}},
	}, nil
}

// partitionFor keeps every transfer of one sender on the same partition.
func partitionFor(senderAccountID int64, partitions uint32) int32 {
	if partitions == 0 {
		return kafka.PartitionAny
	}
	return int32(uint64(senderAccountID) % uint64(partitions))
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				topic := ""
				if ev.TopicPartition.Topic != nil {
					topic = *ev.TopicPartition.Topic
				}
				observability.EventsPublishFailed.WithLabelValues(topic).Inc()
				logger.Error("transfer_event_delivery_failed", zap.Error(ev.TopicPartition.Error))
			}
		}
	}
}

// NoopPublisher is used when no Kafka brokers are configured.
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) TransferPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) PublishTransfer(traceId string, event views.TransferEvent) error {
	n.logger.Debug("transfer_event_skipped", zap.String(pkg.TraceId, traceId), zap.Int64("transfer_id", event.TransferID))
	return nil
}

func (n *NoopPublisher) Close() {}
