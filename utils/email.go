package utils

import (
	"fmt"
	"log"
	"os"

	"go-storefront/models"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark. When no API token is
// configured the service logs instead of sending, so local runs and tests
// do not need credentials.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set; emails will be logged, not sent")
		return &EmailService{sender: os.Getenv("EMAIL_SENDER")}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		log.Printf("email disabled: to=%s subject=%q", toEmail, subject)
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order *models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order <strong>#%s</strong> has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		order.OrderNumber,
		order.TotalPrice,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderStatusEmail notifies the user that an order's status changed.
func (es *EmailService) SendOrderStatusEmail(toEmail string, order *models.Order) error {
	subject := "Order Status Updated"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order <strong>#%s</strong> is now <strong>%s</strong> (payment: %s).<br><br>Thank you for shopping with us!",
		order.OrderNumber,
		order.Status,
		order.PaymentStatus,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
