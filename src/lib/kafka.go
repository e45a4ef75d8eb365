package lib

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// Audit topics carrying the ticket lifecycle stream.
const (
	TopicTicketsIssued   = "tickets-issued"
	TopicTicketsRedeemed = "tickets-redeemed"
	TopicTicketsVoided   = "tickets-voided"
)

var kafkaProducer *kafka.Producer

func GetKafkaProducer(clientId string) (*kafka.Producer, error) {
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					log.Printf("Delivery failed for %s: %v\n", *ev.TopicPartition.Topic, ev.TopicPartition.Error)
				}
			case kafka.Error:
				fmt.Fprintf(os.Stderr, "%% Error: %v\n", ev)
			}
		}
	}()
	kafkaProducer = p
	return p, nil
}

// KafkaProduceMessage publishes one JSON payload to the given audit topic.
// Delivery is fire-and-forget; failures only get logged.
func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	p, err := GetKafkaProducer(clientId)
	if err != nil {
		return err
	}
	value, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	return p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
}
