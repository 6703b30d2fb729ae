package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// AlertService sends low-score alert emails to the quality team.
type AlertService interface {
	SendLowScoreAlert(ctx context.Context, evaluation *entity.Evaluation, gridName string) error
}

// NoopAlertService is used when alerting is disabled.
type NoopAlertService struct{}

func (s *NoopAlertService) SendLowScoreAlert(ctx context.Context, evaluation *entity.Evaluation, gridName string) error {
	log.Printf("[AlertService] noop low score alert evaluation=%d score=%d", evaluation.ID, evaluation.Score)
	return nil
}

// ResendAlertService sends alerts via Resend REST API.
type ResendAlertService struct {
	from   string
	to     []string
	client *resend.Client
}

func NewResendAlertService(apiKey, from string, to []string) (*ResendAlertService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("alert from address is required")
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("at least one alert recipient is required")
	}
	return &ResendAlertService{
		from:   from,
		to:     to,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendAlertService) SendLowScoreAlert(ctx context.Context, evaluation *entity.Evaluation, gridName string) error {
	if evaluation == nil {
		return fmt.Errorf("evaluation is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.to,
		Subject: fmt.Sprintf("Low score alert: evaluation %s scored %d", evaluation.Reference, evaluation.Score),
		Text: fmt.Sprintf("Evaluation %s on grid %q scored %d out of 100. Please review it.",
			evaluation.Reference, gridName, evaluation.Score),
		Html: fmt.Sprintf("<p>Evaluation <strong>%s</strong> on grid <strong>%s</strong> scored <strong>%d</strong> out of 100.</p><p>Please review it.</p>",
			evaluation.Reference, gridName, evaluation.Score),
	}

	options := &resend.SendEmailOptions{
		IdempotencyKey: "low-score-" + evaluation.Reference,
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && (netErr.Timeout() || netErr.Temporary()) {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
