package messaging

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/internal/config"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/logger"
)

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// UserRequestHandler resolves a user id to its public view. A nil view with a nil error
// means the user does not exist.
type UserRequestHandler interface {
	HandleUserRequest(ctx context.Context, userID string) (*dto.UserView, error)
}

const (
	initialRetryBackoff = 200 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// UserRequestConsumer answers user lookups arriving on the request topic. Each reply is
// published on the reply topic under the request's key; unknown users are answered with null.
// A request whose lookup or reply fails is retried in place, so offsets are only committed
// once the request has been answered.
type UserRequestConsumer struct {
	reader       messageReader
	handler      UserRequestHandler
	publisher    domainService.MessagePublisher
	replyTopic   string
	retryBackoff time.Duration
	logger       logger.Logger
}

// NewUserRequestConsumer creates a consumer group member for the request topic.
func NewUserRequestConsumer(cfg config.KafkaConfig, handler UserRequestHandler, publisher domainService.MessagePublisher, log logger.Logger) *UserRequestConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.UserRequestTopic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	return newUserRequestConsumer(reader, handler, publisher, cfg.UserReplyTopic, log)
}

func newUserRequestConsumer(reader messageReader, handler UserRequestHandler, publisher domainService.MessagePublisher, replyTopic string, log logger.Logger) *UserRequestConsumer {
	return &UserRequestConsumer{
		reader:       reader,
		handler:      handler,
		publisher:    publisher,
		replyTopic:   replyTopic,
		retryBackoff: initialRetryBackoff,
		logger:       log.WithComponent("UserRequestConsumer"),
	}
}

// Start runs the consumer loop until ctx is canceled. It is a blocking call.
func (c *UserRequestConsumer) Start(ctx context.Context) error {
	c.logger.Info(ctx, "starting user request consumer", logger.String("reply_topic", c.replyTopic))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				c.logger.Info(ctx, "stopping user request consumer")
				return nil
			}
			c.logger.Error(ctx, "failed to fetch message from kafka", err)
			continue
		}

		if !c.answer(ctx, msg) {
			c.logger.Info(ctx, "stopping user request consumer", logger.Int64("pending_offset", msg.Offset))
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error(ctx, "failed to commit message", err, logger.Int64("offset", msg.Offset))
		}
	}
}

// answer handles msg until it succeeds. It returns false when ctx is canceled first, leaving
// the message uncommitted.
func (c *UserRequestConsumer) answer(ctx context.Context, msg kafka.Message) bool {
	backoff := c.retryBackoff
	for {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			return true
		}
		c.logger.Error(ctx, "failed to answer user request, retrying", err,
			logger.Int64("offset", msg.Offset),
			logger.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, maxRetryBackoff)
	}
}

func (c *UserRequestConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	userID := decodeUserID(msg.Value)
	view, err := c.handler.HandleUserRequest(ctx, userID)
	if err != nil {
		return err
	}

	key := string(msg.Key)
	if key == "" {
		key = userID
	}
	return c.publisher.Publish(ctx, c.replyTopic, key, view)
}

// decodeUserID accepts either a JSON string or the raw id.
func decodeUserID(value []byte) string {
	var id string
	if err := json.Unmarshal(value, &id); err == nil {
		return id
	}
	return strings.TrimSpace(string(value))
}

// Close closes the underlying reader.
func (c *UserRequestConsumer) Close() error {
	return c.reader.Close()
}
