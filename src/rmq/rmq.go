package rmq

import (
	"time"

	"github.com/seventv/IconProcessor/src/global"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

type RmqInstance struct {
	rmq   *amqp.Connection
	chRmq *amqp.Channel
}

// New connects and declares the job, result and update queues. prefetch
// caps unacknowledged deliveries, one per worker.
func New(ctx global.Context, prefetch int) global.Rmq {
	rmq, err := amqp.Dial(ctx.Config().Rmq.ServerURL)
	if err != nil {
		logrus.Fatal("failed to connect to rmq: ", err)
	}

	chRmq, err := rmq.Channel()
	if err != nil {
		logrus.Fatal("failed to open rmq channel: ", err)
	}

	if err := chRmq.Qos(prefetch, 0, false); err != nil {
		logrus.Fatal("failed to set rmq qos: ", err)
	}

	for _, queue := range []string{
		ctx.Config().Rmq.JobQueueName,
		ctx.Config().Rmq.ResultQueueName,
		ctx.Config().Rmq.UpdateQueueName,
	} {
		_, err = chRmq.QueueDeclare(
			queue, // queue name
			true,  // durable
			false, // auto delete
			false, // exclusive
			false, // no wait
			nil,   // arguments
		)
		if err != nil {
			logrus.WithField("queue", queue).Fatal("failed to declare rmq queue: ", err)
		}
	}

	return &RmqInstance{
		rmq:   rmq,
		chRmq: chRmq,
	}
}

func (r *RmqInstance) Subscribe(queue string) (<-chan amqp.Delivery, error) {
	return r.chRmq.Consume(
		queue, // queue name
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no local
		false, // no wait
		nil,   // arguments
	)
}

func (r *RmqInstance) Publish(queue string, contentType string, deliveryMode uint8, msg []byte) error {
	return r.chRmq.Publish(
		"",    // exchange
		queue, // queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  contentType,
			DeliveryMode: deliveryMode,
			Timestamp:    time.Now(),
			Body:         msg,
		},
	)
}

func (r *RmqInstance) Shutdown() {
	_ = r.chRmq.Close()
	_ = r.rmq.Close()
}
