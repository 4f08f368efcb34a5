package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ulrichyv/mailing/internal/models"
)

// Cameroonian operator API endpoints.
const (
	orangeTokenURL = "https://api.orange.com/oauth/v3/token"
	orangeSMSURL   = "https://api.orange.com/smsmessaging/v1/outbound/%s/requests"
	mtnSMSURL      = "https://api.mtn.cm/sms/v1/subscriptions/%s/messages"
)

// NewSMSSender selects the operator implementation for a connection
// descriptor. The operator set is closed; anything else fails here, at
// construction time.
func NewSMSSender(conn *models.SMSConnection) (Sender, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	switch conn.Operator {
	case models.OperatorOrangeCM:
		return &orangeSender{conn: conn, http: httpClient}, nil
	case models.OperatorMTNCM:
		return &mtnSender{conn: conn, http: httpClient}, nil
	default:
		// Validate already rejects unknown operators; kept for safety.
		return nil, models.ErrInvalidInput("unsupported SMS operator: " + conn.Operator)
	}
}

// orangeSender implements the Orange Cameroun SMS API: an OAuth2
// client-credentials token, then one POST per message.
type orangeSender struct {
	conn *models.SMSConnection
	http *http.Client
}

func (s *orangeSender) Channel() models.Channel {
	return models.ChannelSMS
}

// Open acquires the OAuth2 access token. A token failure is channel-fatal.
func (s *orangeSender) Open(ctx context.Context) (Session, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, orangeTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.conn.ClientID, s.conn.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orange token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("orange token request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("orange token decode: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("orange token response carried no access_token")
	}

	return &orangeSession{conn: s.conn, http: s.http, token: token.AccessToken}, nil
}

type orangeSession struct {
	conn  *models.SMSConnection
	http  *http.Client
	token string
}

func (s *orangeSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	sender := "tel:+237" + s.conn.SenderName
	payload := map[string]any{
		"outboundSMSMessageRequest": map[string]any{
			"address":       "tel:" + recipient,
			"senderAddress": sender,
			"outboundSMSTextMessage": map[string]string{
				"message": msg.Content,
			},
		},
	}

	endpoint := fmt.Sprintf(orangeSMSURL, url.PathEscape(sender))
	return postJSON(ctx, s.http, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + s.token,
	})
}

func (s *orangeSession) Close() error {
	return nil
}

// mtnSender implements the MTN Cameroon Business SMS API: a bearer API key
// per subscription.
type mtnSender struct {
	conn *models.SMSConnection
	http *http.Client
}

func (s *mtnSender) Channel() models.Channel {
	return models.ChannelSMS
}

func (s *mtnSender) Open(ctx context.Context) (Session, error) {
	// MTN has no session handshake; the key is checked on first send.
	return &mtnSession{conn: s.conn, http: s.http}, nil
}

type mtnSession struct {
	conn *models.SMSConnection
	http *http.Client
}

func (s *mtnSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	payload := map[string]string{
		"to":      recipient,
		"from":    s.conn.SenderName,
		"message": msg.Content,
	}

	endpoint := fmt.Sprintf(mtnSMSURL, url.PathEscape(s.conn.SubscriptionID))
	return postJSON(ctx, s.http, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + s.conn.APIKey,
	})
}

func (s *mtnSession) Close() error {
	return nil
}

// postJSON posts a JSON payload and treats any non-2xx status as a send
// failure, surfacing the provider's response body as the error detail.
func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
