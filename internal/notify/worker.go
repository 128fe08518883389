package notify

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vezba/fitness-backend/pkg/mailer"
	"github.com/vezba/fitness-backend/pkg/rabbitmq"
)

const maxRetries = 3

// Worker drains the notifications queue and delivers email. A failed send is
// republished with an incremented x-retries header; after maxRetries the
// message is dropped with a log line, keeping delivery strictly best-effort.
type Worker struct {
	mail mailer.Mailer
	pub  *rabbitmq.Publisher
}

func NewWorker(mail mailer.Mailer, pub *rabbitmq.Publisher) *Worker {
	return &Worker{mail: mail, pub: pub}
}

func (w *Worker) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			w.handle(msg)
		}
		log.Println("[NotifyWorker] channel closed, stopping worker")
	}()
}

func (w *Worker) handle(msg amqp.Delivery) {
	var m Message
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Printf("[NotifyWorker] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	subject, body := render(m)
	if err := w.mail.Send(m.To, subject, body); err != nil {
		w.retry(msg, m, err)
		return
	}

	msg.Ack(false)
}

func (w *Worker) retry(msg amqp.Delivery, m Message, sendErr error) {
	retries := retryCount(msg.Headers)
	if retries >= maxRetries {
		log.Printf("[NotifyWorker] dropping %s to %s after %d attempts: %v", m.Kind, m.To, retries, sendErr)
		msg.Ack(false)
		return
	}

	headers := amqp.Table{"x-retries": int32(retries + 1)}
	if err := w.pub.Publish(msg.RoutingKey, m, headers); err != nil {
		log.Printf("[NotifyWorker] republish failed for %s to %s: %v", m.Kind, m.To, err)
	}
	msg.Ack(false)
}

func retryCount(headers amqp.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

func render(m Message) (subject, body string) {
	p := m.Params
	switch m.Kind {
	case KindTrainerBooked:
		return "New booking",
			fmt.Sprintf("%s booked %s on %s.", p["client"], p["program"], p["start"])
	case KindTrainerCanceledByClient:
		return "Booking canceled",
			fmt.Sprintf("%s canceled their booking for %s on %s.", p["client"], p["program"], p["start"])
	case KindTermCanceled:
		return "Session canceled",
			fmt.Sprintf("%s canceled %s scheduled for %s.", p["trainer"], p["program"], p["start"])
	case KindOTPCode:
		return "Your verification code",
			fmt.Sprintf("Your one-time code is %s. It expires in 10 minutes.", p["code"])
	case KindInvoiceIssued:
		return "Invoice " + p["number"],
			fmt.Sprintf("Your invoice for %s is ready. Amount due: %s.", p["month"], p["amount"])
	default:
		return "Notification", "You have a new notification."
	}
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f EUR", amount)
}
