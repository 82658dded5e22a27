package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

const resendTimeout = time.Minute

// NewResendClient creates a new Resend client. An empty baseURL keeps the Resend default.
func NewResendClient(apiKey, fromName, fromEmail, baseURL string) (*ResendClient, error) {
	httpClient := &http.Client{
		Timeout:   resendTimeout,
		Transport: statusTransport{base: http.DefaultTransport},
	}
	client := resend.NewCustomClient(httpClient, apiKey)
	if baseURL != "" {
		parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &ResendClient{
		client:    client,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	to := input.To
	if input.Name != "" {
		to = fmt.Sprintf("%s <%s>", input.Name, input.To)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	}

	status := &responseStatus{}
	resp, err := c.client.Emails.SendWithContext(context.WithValue(ctx, responseStatusKey{}, status), params)
	if err != nil {
		if isPermanentStatus(status.code) {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				err,
			)
		}
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"temporary email failure",
			err,
		)
	}

	return &adapter.SendEmailResult{
		ProviderID: resp.Id,
	}, nil
}

type responseStatusKey struct{}

// responseStatus receives the HTTP status of the request carrying it. It stays
// zero when no response arrived.
type responseStatus struct {
	code int
}

// statusTransport copies the response status into the request's responseStatus.
// resend-go reports API errors as plain text, so the status is the only reliable signal.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if status, ok := req.Context().Value(responseStatusKey{}).(*responseStatus); ok && resp != nil {
		status.code = resp.StatusCode
	}
	return resp, err
}

// isPermanentStatus reports whether a retry cannot fix the request: the API
// rejected the credentials or the payload. Timeouts, rate limits, server errors
// and transport failures (code 0) stay retryable.
func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return code >= 400 && code < 500
}

var _ adapter.EmailSender = (*ResendClient)(nil)
