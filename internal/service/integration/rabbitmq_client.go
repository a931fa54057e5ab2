package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
)

// EventPublisher emits portal events for downstream consumers (notifications,
// analytics). Publishing is fire-and-forget: callers log failures and move on.
type EventPublisher interface {
	PublishSubmissionGraded(ctx context.Context, event *models.SubmissionGradedEvent) error
	PublishExamCompleted(ctx context.Context, event *models.ExamCompletedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

const (
	routingKeySubmissionGraded = "submission.graded"
	routingKeyExamCompleted    = "exam.completed"
)

func NewRabbitMQPublisher(url, exchange string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info().
		Str("exchange", exchange).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (c *rabbitMQPublisher) PublishSubmissionGraded(ctx context.Context, event *models.SubmissionGradedEvent) error {
	if err := c.publish(ctx, routingKeySubmissionGraded, event); err != nil {
		return err
	}

	c.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("student_id", event.StudentID).
		Msg("Submission graded event published")

	return nil
}

func (c *rabbitMQPublisher) PublishExamCompleted(ctx context.Context, event *models.ExamCompletedEvent) error {
	if err := c.publish(ctx, routingKeyExamCompleted, event); err != nil {
		return err
	}

	c.logger.Info().
		Str("student_id", event.StudentID).
		Str("course_id", event.CourseID).
		Msg("Exam completed event published")

	return nil
}

func (c *rabbitMQPublisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent, // Сохраняем сообщение
			Timestamp:    time.Now(),
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (c *rabbitMQPublisher) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
