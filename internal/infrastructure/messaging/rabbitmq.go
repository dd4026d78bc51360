// Package messaging publica eventos del inventario en RabbitMQ (exchange topic durable).
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/jhoicas/tienda-inventario/pkg/config"
)

// ErrNotConnected se devuelve al publicar sin conexión activa.
var ErrNotConnected = errors.New("messaging: sin conexión a RabbitMQ")

// RabbitMQClient mantiene una conexión y un canal; reconecta cuando el broker cierra la conexión.
type RabbitMQClient struct {
	cfg        config.RabbitMQConfig
	mu         sync.RWMutex
	connection *amqp.Connection
	channel    *amqp.Channel
	closing    bool
}

// NewRabbitMQClient crea el cliente sin conectar.
func NewRabbitMQClient(cfg config.RabbitMQConfig) *RabbitMQClient {
	return &RabbitMQClient{cfg: cfg}
}

// Connect abre conexión y canal y declara el exchange. Reintenta RetryCount veces con RetryDelay entre intentos.
func (r *RabbitMQClient) Connect(ctx context.Context) error {
	attempts := r.cfg.RetryCount
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := r.dial(); err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", i).Int("of", attempts).Msg("rabbitmq: error de conexión")
			if i == attempts {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.cfg.RetryDelay):
			}
			continue
		}
		log.Info().Str("host", r.cfg.Host).Str("exchange", r.cfg.Exchange).Msg("rabbitmq: conectado")
		return nil
	}
	return fmt.Errorf("rabbitmq: no se pudo conectar tras %d intentos: %w", attempts, lastErr)
}

func (r *RabbitMQClient) dial() error {
	conn, err := amqp.Dial(r.cfg.ConnectionURL())
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("abrir canal: %w", err)
	}
	err = ch.ExchangeDeclare(
		r.cfg.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declarar exchange %s: %w", r.cfg.Exchange, err)
	}

	r.mu.Lock()
	r.connection = conn
	r.channel = ch
	r.mu.Unlock()

	go r.watch(conn)
	return nil
}

// watch reconecta si el broker cierra la conexión y no fue un Close nuestro.
func (r *RabbitMQClient) watch(conn *amqp.Connection) {
	amqpErr, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	r.mu.RLock()
	closing := r.closing
	r.mu.RUnlock()
	if closing || !ok {
		return
	}
	log.Warn().Err(amqpErr).Msg("rabbitmq: conexión perdida, reconectando")
	if err := r.Connect(context.Background()); err != nil {
		log.Error().Err(err).Msg("rabbitmq: reconexión fallida")
	}
}

// Publish envía un mensaje al exchange configurado.
func (r *RabbitMQClient) Publish(routingKey string, msg amqp.Publishing) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.channel == nil || r.connection == nil || r.connection.IsClosed() {
		return ErrNotConnected
	}
	return r.channel.Publish(r.cfg.Exchange, routingKey, false, false, msg)
}

// IsConnected indica si hay una conexión abierta.
func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connection != nil && !r.connection.IsClosed()
}

// Close cierra canal y conexión. Llamadas repetidas no hacen nada.
func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closing {
		return nil
	}
	r.closing = true

	var errs []error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cerrar canal: %w", err))
		}
	}
	if r.connection != nil {
		if err := r.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cerrar conexión: %w", err))
		}
	}
	return errors.Join(errs...)
}
