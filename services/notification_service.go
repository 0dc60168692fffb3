package services

import (
	"fmt"
	"log"

	"admissions-api/config"
	"admissions-api/models"
)

// NotificationService sends candidate-facing mail. Every send is
// fire-and-forget: delivery problems are logged, never propagated, so a
// broken SMTP relay cannot fail a registration or a payment.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (s *NotificationService) SendWelcome(candidate *models.Candidate) {
	if candidate.Email == nil || *candidate.Email == "" {
		return
	}
	subject := "Post-UTME Registration Successful"
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your Post-UTME registration with registration number <b>%s</b> was successful.</p>
<p>Log in to the portal to complete your profile and upload your documents.</p>`,
		candidate.FullName(), candidate.JambRegNumber)

	go func() {
		if err := config.SendMail([]string{*candidate.Email}, subject, body); err != nil {
			log.Printf("welcome mail to %s failed: %v", candidate.JambRegNumber, err)
		}
	}()
}

func (s *NotificationService) SendPaymentReceipt(candidate *models.Candidate, payment *models.Payment, purposeName string) {
	if candidate.Email == nil || *candidate.Email == "" {
		return
	}
	subject := "Payment Received"
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your payment of NGN %s for <b>%s</b> was received.</p>
<p>Payment reference: %s</p>`,
		candidate.FullName(), payment.Amount.StringFixed(2), purposeName, payment.Reference)

	go func() {
		if err := config.SendMail([]string{*candidate.Email}, subject, body); err != nil {
			log.Printf("receipt mail for %s failed: %v", payment.Reference, err)
		}
	}()
}
