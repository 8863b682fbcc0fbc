package evolution

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
)

// Client talks to an Evolution API deployment. One Evolution "instance" maps
// to one paired WhatsApp number.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendTextResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

type connectionStateResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
		Number       string `json:"number"`
	} `json:"instance"`
}

func NewClient(cfg environments.EvolutionConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.APIKey)

	return &Client{
		httpClient: client,
		baseURL:    cfg.URL,
	}
}

// SendText transmits a text message through the given instance. Any non-2xx
// response is an error; the caller folds it into the queue item.
func (c *Client) SendText(ctx context.Context, instance, number, text string) error {
	payload := sendTextRequest{
		Number: number,
		Text:   text,
	}

	var sendResp sendTextResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&sendResp).
		Post(fmt.Sprintf("%s/message/sendText/%s", c.baseURL, instance))

	duration := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("Evolution sendText via %s completed in %v (status: %d)", instance, duration, resp.StatusCode())

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// ConnectionState reports whether the instance's WhatsApp session is paired.
func (c *Client) ConnectionState(ctx context.Context, instance string) (*domain.InstanceStatus, error) {
	var stateResp connectionStateResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&stateResp).
		Get(fmt.Sprintf("%s/instance/connectionState/%s", c.baseURL, instance))

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return &domain.InstanceStatus{
		State:       domain.ConnectionState(stateResp.Instance.State),
		PhoneNumber: stateResp.Instance.Number,
		CheckedAt:   time.Now(),
	}, nil
}

func (c *Client) GetURL() string {
	return c.baseURL
}
