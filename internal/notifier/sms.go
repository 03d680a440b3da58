package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jwalitptl/medminder/pkg/logger"
)

type SMSConfig struct {
	GatewayURL string
	APIToken   string
	Sender     string
	Timeout    time.Duration
}

// SMSGateway sends messages through an HTTP SMS provider.
type SMSGateway struct {
	client *resty.Client
	sender string
	logger *logger.Logger
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type smsResponse struct {
	ID string `json:"id"`
}

func NewSMSGateway(cfg SMSConfig, logger *logger.Logger) *SMSGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.GatewayURL).
		SetAuthToken(cfg.APIToken).
		SetTimeout(timeout)

	return &SMSGateway{
		client: client,
		sender: cfg.Sender,
		logger: logger,
	}
}

func (g *SMSGateway) Send(ctx context.Context, to, message string) (string, error) {
	var result smsResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(smsRequest{To: to, From: g.sender, Message: message}).
		SetResult(&result).
		Post("/messages")
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("SMS gateway returned %s", resp.Status())
	}

	g.logger.Debug("SMS sent", "delivery_id", result.ID)
	return result.ID, nil
}

// LogNotifier writes messages to the log instead of sending them. Used in
// development and as a fallback when no gateway is configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to, message string) (string, error) {
	n.logger.Info("reminder notification", "to", to, "message", message)
	return fmt.Sprintf("log-%d", time.Now().UnixNano()), nil
}
