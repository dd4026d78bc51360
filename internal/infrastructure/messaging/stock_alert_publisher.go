package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
)

var _ inventory.AlertPublisher = (*StockAlertPublisher)(nil)

// Publisher lo implementa RabbitMQClient; en pruebas se reemplaza por un doble.
type Publisher interface {
	Publish(routingKey string, msg amqp.Publishing) error
}

// StockAlertPublisher publica alertas de umbral con routing key inventory.stock.<low|high>.
type StockAlertPublisher struct {
	pub Publisher
	now func() time.Time
}

// NewStockAlertPublisher construye el publicador.
func NewStockAlertPublisher(pub Publisher) *StockAlertPublisher {
	return &StockAlertPublisher{pub: pub, now: time.Now}
}

// RoutingKey routing key para el estado de la alerta.
func RoutingKey(alert inventory.StockAlert) string {
	return "inventory.stock." + strings.ToLower(string(alert.State))
}

func (p *StockAlertPublisher) PublishStockAlert(ctx context.Context, alert inventory.StockAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	key := RoutingKey(alert)
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    p.now(),
		Headers: amqp.Table{
			"company_id":   alert.CompanyID,
			"warehouse_id": alert.WarehouseID,
			"product_id":   alert.ProductID,
			"state":        string(alert.State),
		},
	}
	if err := p.pub.Publish(key, msg); err != nil {
		return fmt.Errorf("publicar alerta %s: %w", key, err)
	}
	log.Debug().Str("routing_key", key).Str("record_id", alert.RecordID).Msg("alerta de stock publicada")
	return nil
}
