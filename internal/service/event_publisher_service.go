package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/streadway/amqp"
)

const CandidateScoredRoutingKey = "candidate.scored"

type CandidateEvent struct {
	Type            string    `json:"type"`
	CandidateID     string    `json:"candidate_id"`
	JobID           string    `json:"job_id"`
	Filename        string    `json:"filename"`
	MatchPercentage float64   `json:"match_percentage"`
	ScoreStatus     string    `json:"score_status"`
	Skills          string    `json:"skills"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewCandidateEvent(c *model.Candidate) CandidateEvent {
	return CandidateEvent{
		Type:            CandidateScoredRoutingKey,
		CandidateID:     c.ID.String(),
		JobID:           c.JobID.String(),
		Filename:        c.Filename,
		MatchPercentage: c.MatchPercentage,
		ScoreStatus:     c.ScoreStatus,
		Skills:          c.Skills,
		Timestamp:       c.Timestamp,
	}
}

type EventPublisherInterface interface {
	PublishCandidateScored(ctx context.Context, c *model.Candidate) error
	Close() error
}

type NopEventPublisher struct{}

func (NopEventPublisher) PublishCandidateScored(context.Context, *model.Candidate) error { return nil }
func (NopEventPublisher) Close() error                                                  { return nil }

// AMQPEventPublisher publishes candidate events to a durable topic exchange.
type AMQPEventPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPEventPublisher(url, exchange string) (*AMQPEventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &AMQPEventPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

func (p *AMQPEventPublisher) PublishCandidateScored(ctx context.Context, c *model.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewCandidateEvent(c))
	if err != nil {
		return fmt.Errorf("marshal candidate event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.Publish(
		p.exchange,
		CandidateScoredRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (p *AMQPEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
