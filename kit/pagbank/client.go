package pagbank

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

type orderResponse struct {
	ID      string `json:"id"`
	Charges []struct {
		ID     string       `json:"id"`
		Status ChargeStatus `json:"status"`
	} `json:"charges"`
}

// Client reads orders from the PagBank REST API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		h.SetAuthToken(token)
	}
	return &Client{http: h}
}

// OrderStatus returns the status of the latest charge of the order. An order
// without charges is still waiting for the buyer.
func (c *Client) OrderStatus(ctx context.Context, pagbankOrderID string) (ChargeStatus, error) {
	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", pagbankOrderID).
		SetResult(&out).
		Get("/orders/{id}")
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", errors.Join(ErrTimeout, err)
		}
		return "", errors.Join(ErrServer, err)
	}

	switch code := resp.StatusCode(); {
	case code >= 500:
		return "", fmt.Errorf("%w: status=%d", ErrServer, code)
	case code >= 400:
		return "", fmt.Errorf("%w: status=%d", ErrClient, code)
	}

	if len(out.Charges) == 0 {
		return StatusWaiting, nil
	}
	return out.Charges[len(out.Charges)-1].Status, nil
}
