package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// publishTimeout 单条消息发布超时
const publishTimeout = 5 * time.Second

// publisher 消息发布能力，*amqp091.Channel 满足该接口
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier 将预算提醒发布到 RabbitMQ topic 交换机，路由键为 budget.<status>
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  publisher
	exchange string
}

// NewAMQPNotifier 连接 RabbitMQ 并声明交换机
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPNotifier{conn: conn, channel: ch, exchange: exchange}, nil
}

// RoutingKey 预算提醒的路由键
func RoutingKey(alert BudgetAlert) string {
	return "budget." + string(alert.Current)
}

// NotifyBudget 发布预算提醒消息
func (n *AMQPNotifier) NotifyBudget(ctx context.Context, alert BudgetAlert) error {
	body, err := alert.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := n.channel.PublishWithContext(ctx,
		n.exchange,        // exchange
		RoutingKey(alert), // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    alert.At,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Printf("已发布预算提醒: user=%d month=%s status=%s", alert.UserID, alert.Month, alert.Current)
	return nil
}

// Close 关闭连接
func (n *AMQPNotifier) Close() error {
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
