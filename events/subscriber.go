package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded event. A non-nil error leaves the message
// unacknowledged so the consumer group redelivers it.
type Handler func(ctx context.Context, event Event) error

// Subscriber reads one stream through a consumer group and hands each
// event to a Handler.
type Subscriber struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	batch    int64
	block    time.Duration
}

func NewSubscriber(client *redis.Client, stream, group, consumer string) *Subscriber {
	return &Subscriber{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumer,
		batch:    10,
		block:    5 * time.Second,
	}
}

// Run consumes until ctx is cancelled. The consumer group is created on
// first use.
func (s *Subscriber) Run(ctx context.Context, handler Handler) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("events: create consumer group %s on %s: %w", s.group, s.stream, err)
	}

	log.Printf("events: consuming stream=%s group=%s consumer=%s", s.stream, s.group, s.consumer)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.poll(ctx, handler); err != nil {
			log.Printf("events: read %s: %v", s.stream, err)
			time.Sleep(time.Second)
		}
	}
}

func (s *Subscriber) poll(ctx context.Context, handler Handler) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batch,
		Block:    s.block,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			event, err := decode(msg)
			if err != nil {
				log.Printf("events: drop malformed message %s: %v", msg.ID, err)
				// malformed payloads can never succeed; ack to stop redelivery
				s.ack(ctx, msg.ID)
				continue
			}
			if err := handler(ctx, event); err != nil {
				log.Printf("events: handler failed for %s: %v", msg.ID, err)
				continue
			}
			s.ack(ctx, msg.ID)
		}
	}
	return nil
}

func (s *Subscriber) ack(ctx context.Context, id string) {
	if err := s.client.XAck(ctx, s.stream, s.group, id).Err(); err != nil {
		log.Printf("events: ack %s: %v", id, err)
	}
}

func decode(msg redis.XMessage) (Event, error) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing event field")
	}
	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
