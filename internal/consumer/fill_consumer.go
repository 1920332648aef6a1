package consumer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	v1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill-consumer/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/config"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/questdb"
)

// FillConsumer is the consumer for the fills topic.
type FillConsumer struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface

	writer  v1.FillWriter
	dbTx    questdb.TX // nil when the writer autocommits
	msgChan chan kafka.Message
}

// NewFillConsumer creates a new FillConsumer.
func NewFillConsumer(config config.FillKafkaConfig, logger logger.Interface, writer v1.FillWriter, dbTx questdb.TX) *FillConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return &FillConsumer{
		kafkaReader: kafkaReader,
		logger:      logger,
		writer:      writer,
		dbTx:        dbTx,
		msgChan:     make(chan kafka.Message),
	}
}

// Start starts the FillConsumer.
func (c *FillConsumer) Start(ctx context.Context) {
	c.logger.InfoContext(ctx, "starting fill consumer", logger.Field{
		Key:   "action",
		Value: "fill_consumer_start",
	})

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "context done", logger.Field{
				Key:   "action",
				Value: "fill_consumer_stop",
			})
			return
		default:
			msg, err := c.kafkaReader.ReadMessage(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "read_message",
				})
				continue
			}

			c.msgChan <- msg
		}
	}
}

// Stop stops the FillConsumer.
func (c *FillConsumer) Stop() error {
	c.logger.InfoContext(context.Background(), "stopping fill consumer", logger.Field{
		Key:   "action",
		Value: "fill_consumer_stop",
	})
	return c.kafkaReader.Close()
}

// Subscribe subscribes to the FillConsumer.
func (c *FillConsumer) Subscribe(ctx context.Context) {
	c.logger.InfoContext(ctx, "subscribing to fill consumer", logger.Field{
		Key:   "action",
		Value: "fill_consumer_subscribe",
	})

	for msg := range c.msgChan {
		var event v1.RawFillEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "unmarshal_fill",
			})
			continue
		}

		if err := c.handleFill(ctx, &event); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "handle_fill",
			})
		}

		if err := c.kafkaReader.CommitMessages(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_message",
			})
		}
	}
}

func (c *FillConsumer) handleFill(ctx context.Context, event *v1.RawFillEvent) error {
	fill, err := event.ToFill()
	if err != nil {
		return err
	}
	if err := fill.Validate(); err != nil {
		return err
	}

	if c.dbTx == nil {
		return c.writer.Store(ctx, fill)
	}

	txCtx, err := c.dbTx.Begin(ctx)
	if err != nil {
		return err
	}

	defer c.dbTx.Rollback(txCtx)

	if err := c.writer.Store(txCtx, fill); err != nil {
		c.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "store_fill",
		})
		return err
	}

	return c.dbTx.Commit(txCtx)
}
