package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"HealthRocket/config"
	"HealthRocket/pkg/logger"
	pkgmq "HealthRocket/pkg/mq"
)

const (
	ExchangeProgress   = "progress"
	ExchangeDeadLetter = "progress.dlx"

	QueueProgressEvents = "progress.events"
	QueueBoostReminder  = "progress.boost_reminder"
	QueueDeadLetter     = "progress.dead"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error

	instrumentation *pkgmq.Instrumentation
)

// Init dials RabbitMQ and declares the progress topology.
func Init() error {
	connOnce.Do(func() {
		conn, connErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if connErr != nil {
			logger.Logger.Error("Failed to connect to RabbitMQ", zap.Error(connErr))
			return
		}

		instrumentation = pkgmq.NewInstrumentation(config.Cfg.ServiceName)

		ch, err := conn.Channel()
		if err != nil {
			connErr = fmt.Errorf("open setup channel: %w", err)
			return
		}
		defer ch.Close()

		if connErr = declareTopology(ch); connErr != nil {
			logger.Logger.Error("Failed to declare RabbitMQ topology", zap.Error(connErr))
			return
		}
		logger.Logger.Info("RabbitMQ initialized")
	})

	return connErr
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeProgress, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(ExchangeDeadLetter, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueDeadLetter, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(QueueDeadLetter, "", ExchangeDeadLetter, false, nil); err != nil {
		return err
	}

	for _, q := range []string{QueueProgressEvents, QueueBoostReminder} {
		args := amqp.Table{"x-dead-letter-exchange": ExchangeDeadLetter}
		if _, err := ch.QueueDeclare(q, true, false, false, false, args); err != nil {
			return fmt.Errorf("declare %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, ExchangeProgress, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", q, err)
		}
	}
	return nil
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	pubMutex.Lock()
	if publisherCh != nil {
		_ = publisherCh.Close()
		publisherCh = nil
	}
	pubMutex.Unlock()

	done := make(chan error, 1)
	go func() { done <- conn.Close() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
