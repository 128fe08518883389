package notify

import (
	"time"

	"github.com/vezba/fitness-backend/pkg/rabbitmq"
)

type Kind string

const (
	KindTrainerBooked           Kind = "trainer_booked"
	KindTrainerCanceledByClient Kind = "trainer_canceled_by_client"
	KindTermCanceled            Kind = "term_canceled"
	KindOTPCode                 Kind = "otp_code"
	KindInvoiceIssued           Kind = "invoice_issued"
)

// Message is the wire format on the notifications exchange. Params carry the
// template values the worker renders into the email body.
type Message struct {
	Kind   Kind              `json:"kind"`
	To     string            `json:"to"`
	Params map[string]string `json:"params"`
}

// Notifier queues email side effects. Every method is best-effort from the
// caller's perspective: the services log a returned error and move on, they
// never fail the primary operation over it.
type Notifier interface {
	TrainerBooked(trainerEmail, programTitle string, startAt time.Time, clientName string) error
	TrainerCanceledByClient(trainerEmail, programTitle string, startAt time.Time, clientName string) error
	ClientTermCanceled(clientEmail, trainerName, programTitle string, startAt time.Time) error
	OTPCode(email, code string) error
	InvoiceIssued(email, number, month string, amount float64) error
}

type amqpNotifier struct {
	pub *rabbitmq.Publisher
}

func NewAMQPNotifier(pub *rabbitmq.Publisher) Notifier {
	return &amqpNotifier{pub: pub}
}

func (n *amqpNotifier) publish(kind Kind, to string, params map[string]string) error {
	return n.pub.Publish("notify."+string(kind), Message{Kind: kind, To: to, Params: params}, nil)
}

func (n *amqpNotifier) TrainerBooked(trainerEmail, programTitle string, startAt time.Time, clientName string) error {
	return n.publish(KindTrainerBooked, trainerEmail, map[string]string{
		"program": programTitle,
		"start":   startAt.Format(time.RFC1123),
		"client":  clientName,
	})
}

func (n *amqpNotifier) TrainerCanceledByClient(trainerEmail, programTitle string, startAt time.Time, clientName string) error {
	return n.publish(KindTrainerCanceledByClient, trainerEmail, map[string]string{
		"program": programTitle,
		"start":   startAt.Format(time.RFC1123),
		"client":  clientName,
	})
}

func (n *amqpNotifier) ClientTermCanceled(clientEmail, trainerName, programTitle string, startAt time.Time) error {
	return n.publish(KindTermCanceled, clientEmail, map[string]string{
		"trainer": trainerName,
		"program": programTitle,
		"start":   startAt.Format(time.RFC1123),
	})
}

func (n *amqpNotifier) OTPCode(email, code string) error {
	return n.publish(KindOTPCode, email, map[string]string{"code": code})
}

func (n *amqpNotifier) InvoiceIssued(email, number, month string, amount float64) error {
	return n.publish(KindInvoiceIssued, email, map[string]string{
		"number": number,
		"month":  month,
		"amount": formatAmount(amount),
	})
}
