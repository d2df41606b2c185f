package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// NotifyPlanExpired sends a best-effort expiry notice after a paid plan is
// downgraded. The user row is already persisted by the time this runs; email
// is never allowed to fail the request.
func NotifyPlanExpired(email string, renewalAt *time.Time) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Notify panic recovered: %v\n", r)
		}
	}()

	renewalInfo := "unknown"
	if renewalAt != nil {
		renewalInfo = renewalAt.Format("2006-01-02")
	}
	message := fmt.Sprintf("Your paid plan lapsed (renewal was due %s). The account was moved back to the personal tier.", renewalInfo)

	sendWebhookNotice(email, message)

	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("NOTIFY_FROM_EMAIL")
	if apiKey == "" || fromEmail == "" {
		fmt.Println("Missing SendGrid config, skipping expiry email")
		return
	}

	from := mail.NewEmail("Alidash", fromEmail)
	to := mail.NewEmail("", email)
	subject := "Your plan has expired"
	m := mail.NewSingleEmail(from, subject, to, message, message)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(m)
	if err != nil {
		fmt.Printf("Error sending expiry email: %v\n", err)
	} else {
		fmt.Printf("Expiry email sent. Status Code: %d\n", response.StatusCode)
	}
}

// sendWebhookNotice posts a flat payload to an optional ops webhook so plan
// downgrades show up somewhere even without email configured.
func sendWebhookNotice(email, message string) {
	webhookURL := os.Getenv("NOTIFY_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	payload := map[string]string{
		"text": fmt.Sprintf("Plan expired\n\nUser: %s\n%s", email, message),
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error marshaling webhook payload: %v\n", err)
		return
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(jsonPayload))
	if err != nil {
		fmt.Printf("Error sending webhook notice: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		fmt.Printf("Webhook error: Status %d\n", resp.StatusCode)
	}
}
