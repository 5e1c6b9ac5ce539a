// Package events publishes item lifecycle events to Kafka so downstream
// consumers (sync, analytics) can react to saves and deletes. Publishing is
// best-effort: a broker outage never fails the originating request.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// ItemEvent is the wire payload for one lifecycle event.
type ItemEvent struct {
	ItemID    string    `json:"itemId"`
	OwnerID   string    `json:"ownerId"`
	Action    string    `json:"action"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Producer wraps a Kafka sync producer. A nil Producer is valid and drops
// every event, so the service runs without a broker configured.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects to the brokers. An empty broker list yields a nil
// producer rather than an error.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	log.Printf("events: kafka producer connected (topic: %s)", topic)
	return &Producer{producer: producer, topic: topic}, nil
}

// ItemCreated publishes a create event.
func (p *Producer) ItemCreated(itemID, ownerID, category string) {
	p.publish(ItemEvent{
		ItemID:    itemID,
		OwnerID:   ownerID,
		Action:    "created",
		Category:  category,
		CreatedAt: time.Now().UTC(),
	})
}

// ItemDeleted publishes a delete event.
func (p *Producer) ItemDeleted(itemID, ownerID string) {
	p.publish(ItemEvent{
		ItemID:    itemID,
		OwnerID:   ownerID,
		Action:    "deleted",
		CreatedAt: time.Now().UTC(),
	})
}

func (p *Producer) publish(event ItemEvent) {
	if p == nil || p.producer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OwnerID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Printf("events: publish failed: %v", err)
	}
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
