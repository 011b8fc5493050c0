package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/config"
	"github.com/avGenie/go-order-system/internal/app/entity"
)

const writeTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, event entity.OrderEvent) error
	Close() error
}

// New returns a kafka publisher when brokers are configured and a no-op one otherwise.
func New(config config.Config) Publisher {
	brokers := parseBrokers(config.KafkaBrokers)
	if len(brokers) == 0 {
		zap.L().Info("kafka brokers are not set, order events are disabled")
		return Noop{}
	}

	return NewKafka(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  config.KafkaTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	})
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Kafka struct {
	writer MessageWriter
}

func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{
		writer: writer,
	}
}

// Publish keys messages by team so events of one team stay ordered.
func (k *Kafka) Publish(ctx context.Context, event entity.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error while marshalling order event: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TeamID.String()),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("error while writing order event: %w", err)
	}

	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

type Noop struct{}

func (Noop) Publish(context.Context, entity.OrderEvent) error {
	return nil
}

func (Noop) Close() error {
	return nil
}

func parseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, broker := range strings.Split(brokersCSV, ",") {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}
