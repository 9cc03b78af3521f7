package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/iteka-youth/site-backend/config"
	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// Notifier delivers operator notifications for accepted contact submissions.
// Delivery is a non-critical side effect: callers log failures and move on.
type Notifier interface {
	SendContactNotification(ctx context.Context, msg types.ContactMessage) error
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *EmailMetrics
}

var _ Notifier = (*EmailService)(nil)

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress,
		"to", logger.MaskEmail(cfg.ContactEmail))
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "iteka_email_send_duration_seconds",
			Help:    "Time taken to send notification emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iteka_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iteka_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// SendContactNotification sends a formatted copy of an accepted contact
// submission to the fixed operator address, with Reply-To set to the
// submitter so the operator can answer directly.
func (s *EmailService) SendContactNotification(ctx context.Context, msg types.ContactMessage) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	subject := msg.Subject
	if subject == "" {
		subject = "No subject"
	}

	tmpl, err := template.New("contact").Parse(contactEmailTemplate)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to parse email template", "error", err)
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var htmlContent bytes.Buffer
	if err := tmpl.Execute(&htmlContent, msg); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{s.config.ContactEmail},
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("New Contact Form: %s", subject),
		Html:    htmlContent.String(),
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send notification email",
			"error", err,
			"from", logger.MaskEmail(msg.Email))
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Notification email sent",
		"from", logger.MaskEmail(msg.Email))

	return nil
}

const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Contact Form Submission</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h2 {
            color: #1E6F5C;
            font-size: 24px;
            margin-bottom: 20px;
        }
        p {
            font-size: 16px;
            line-height: 1.6;
            margin-bottom: 12px;
        }
        .message {
            white-space: pre-wrap;
            background-color: #f7f7f7;
            padding: 16px;
            border-radius: 8px;
        }
        .footer {
            margin-top: 24px;
            font-size: 13px;
            color: #777777;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>New Contact Form Submission</h2>
        <p><strong>Name:</strong> {{.Name}}</p>
        <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
        {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
        <p><strong>Subject:</strong> {{.Subject}}</p>
        <p><strong>Message:</strong></p>
        <p class="message">{{.Message}}</p>
        <hr>
        <p class="footer">Sent from the Iteka website contact form</p>
    </div>
</body>
</html>`
