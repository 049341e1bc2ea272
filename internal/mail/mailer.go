package mail

import (
	"fmt"

	"shopduy_back_end/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Mailer sends transactional mail through SMTP. Status-change notifications
// are fire and forget; a failed send is logged, never surfaced to the admin.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *logrus.Logger
}

func NewMailer(host string, port int, username, password, from string, logger *logrus.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// SendStatusUpdate notifies a customer that an admin changed their order's
// status pair.
func (m *Mailer) SendStatusUpdate(to string, order *models.Order, paymentStatus models.PaymentStatus) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(statusSubject(order.State))
	msg.SetBodyString(mail.TypeTextHTML, statusUpdateHTML(order, paymentStatus))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"state":    order.State,
	}).Info("Sending status update email")
	return client.DialAndSend(msg)
}

func statusSubject(state models.OrderState) string {
	switch state {
	case models.OrderProcessing:
		return "✅ Payment confirmed — your order is being prepared"
	case models.OrderShipped:
		return "📦 Your order has shipped"
	case models.OrderDelivered:
		return "🎉 Your order has been delivered"
	case models.OrderCancelled:
		return "❌ Your order has been cancelled"
	case models.OrderRefunded:
		return "💰 Your refund has been processed"
	default:
		return "📋 Your order has been updated"
	}
}

func statusMessage(state models.OrderState) string {
	switch state {
	case models.OrderProcessing:
		return "Your payment was confirmed and we are preparing your order."
	case models.OrderShipped:
		return "Good news! Your order has shipped and is on its way."
	case models.OrderDelivered:
		return "Your order was delivered. We hope you enjoy it!"
	case models.OrderCancelled:
		return "Your order has been cancelled. Contact support if you have any questions."
	case models.OrderRefunded:
		return "Your refund has been processed. Funds arrive within 5-10 business days."
	default:
		return "The status of your order has been updated."
	}
}

func statusUpdateHTML(order *models.Order, paymentStatus models.PaymentStatus) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order update</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order update</h2>
		<p>%s</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tr>
				<td style="padding: 8px; color: #666;">Order number</td>
				<td style="padding: 8px; text-align: right;">#%d</td>
			</tr>
			<tr>
				<td style="padding: 8px; color: #666;">Order status</td>
				<td style="padding: 8px; text-align: right; font-weight: bold;">%s</td>
			</tr>
			<tr>
				<td style="padding: 8px; color: #666;">Payment status</td>
				<td style="padding: 8px; text-align: right; font-weight: bold;">%s</td>
			</tr>
			<tr>
				<td style="padding: 8px; color: #666;">Total</td>
				<td style="padding: 8px; text-align: right; font-weight: bold;">%.0f₫</td>
			</tr>
		</table>
		<p style="color: #999; font-size: 12px;">This email was sent automatically, please do not reply.</p>
	</div>
</body>
</html>`, statusMessage(order.State), order.ID, order.State, paymentStatus, order.TotalAmount)
}
