// Package events fans domain changes out to notification topics.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the package logger with the service level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Topics published by the service
const (
	TopicRecipeCreated = "recipe.created"
	TopicRecipeUpdated = "recipe.updated"
	TopicRecipeDeleted = "recipe.deleted"
	TopicPantryUpdated = "pantry.updated"
	TopicMatchesFound  = "matches.found"
)

// ChannelPrefix namespaces every redis channel written by the service
const ChannelPrefix = "recipematch:"

// Event is the envelope written to a topic
type Event struct {
	Topic      string    `json:"topic"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events. Delivery is best effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// Channel returns the redis channel used for topic
func Channel(topic string) string {
	return ChannelPrefix + topic
}

func encode(topic string, payload any) ([]byte, error) {
	data, err := json.Marshal(Event{Topic: topic, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", topic, err)
	}
	return data, nil
}

// RedisPublisher publishes events with redis PUBLISH
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to the redis server at rawURL, e.g. redis://:password@host:6379/0
func NewRedisPublisher(ctx context.Context, rawURL string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisPublisher{client: client}, nil
}

// NewRedisPublisherFromClient wraps an existing client
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload any) error {
	data, err := encode(topic, payload)
	if err != nil {
		return err
	}
	receivers, err := p.client.Publish(ctx, Channel(topic), data).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	log.WithFields(logrus.Fields{
		"topic":     topic,
		"receivers": receivers,
	}).Debug("Event published")
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher writes events to the log. It is used when no redis server is configured.
type LogPublisher struct {
	logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	if logger == nil {
		logger = log
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, payload any) error {
	data, err := encode(topic, payload)
	if err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"topic": topic,
		"event": string(data),
	}).Info("Event emitted")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
