// Package gateway is the signed REST client for the venue's private
// order API, plus the public trade stream. It is the only package that
// knows about HTTP; the core consumes it through narrow interfaces.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"bitwyre-maker-go/order"
)

const (
	pathOrder       = "/private/orders"
	pathOrderInfo   = "/private/orders/info"
	pathOrderCancel = "/private/orders/cancel"
)

// RESTClient signs and sends place/info/cancel requests. HTTPClient must
// carry a timeout; a hung call blocks the whole cycle otherwise.
type RESTClient struct {
	BaseURL    string
	APIKey     string
	Secret     string
	HTTPClient *http.Client
	Limiter    RateLimiter // optional
}

// NewDefaultHTTPClient returns an http.Client with the venue call timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// envelope is the venue's uniform response wrapper.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// execReport is the wire shape of an order on placement acks and status
// queries. It must round-trip into order.Order losslessly.
type execReport struct {
	OrderID    string `json:"orderid"`
	Instrument string `json:"instrument"`
	Side       int    `json:"side"`
	OrdType    int    `json:"ordtype"`
	OrdStatus  int    `json:"ordstatus"`
	Price      string `json:"price"`
	OrderQty   string `json:"orderqty"`
	LeavesQty  string `json:"leavesqty"`
	Timestamp  int64  `json:"timestamp"`
}

func (r execReport) toOrder(op string) (order.Order, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: fmt.Errorf("price %q: %w", r.Price, err)}
	}
	qty, err := decimal.NewFromString(r.OrderQty)
	if err != nil {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: fmt.Errorf("orderqty %q: %w", r.OrderQty, err)}
	}
	leaves := decimal.Zero
	if r.LeavesQty != "" {
		leaves, err = decimal.NewFromString(r.LeavesQty)
		if err != nil {
			return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: fmt.Errorf("leavesqty %q: %w", r.LeavesQty, err)}
		}
	}
	return order.Order{
		ID:         r.OrderID,
		Instrument: r.Instrument,
		Side:       order.Side(r.Side),
		Type:       order.Type(r.OrdType),
		Status:     order.Status(r.OrdStatus),
		Price:      price,
		Quantity:   qty,
		LeavesQty:  leaves,
		Timestamp:  r.Timestamp,
	}, nil
}

// PlaceOrder submits a new order and returns the venue's exec report.
func (c *RESTClient) PlaceOrder(ctx context.Context, intent order.Intent) (order.Order, error) {
	const op = "place"
	body := map[string]any{
		"instrument": intent.Instrument,
		"side":       int(intent.Side),
		"ordtype":    int(intent.Type),
		"orderqty":   intent.Quantity.String(),
		"price":      intent.Price.String(),
		"clordid":    xid.New().String(),
		// Leverage rides along for spot and futures products alike.
		"leverage": intent.Leverage,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: err}
	}

	raw, cerr := c.call(ctx, op, http.MethodPost, pathOrder, string(payload))
	if cerr != nil {
		return order.Order{}, cerr
	}
	var rep execReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: err}
	}
	return rep.toOrder(op)
}

// OrderInfo queries the current state of one order.
func (c *RESTClient) OrderInfo(ctx context.Context, orderID string) (order.Order, error) {
	const op = "order_info"
	raw, cerr := c.call(ctx, op, http.MethodGet, pathOrderInfo+"/"+orderID, "")
	if cerr != nil {
		return order.Order{}, cerr
	}
	// The info endpoint wraps the report in a single-element array.
	var reps []execReport
	if err := json.Unmarshal(raw, &reps); err != nil {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: err}
	}
	if len(reps) == 0 {
		return order.Order{}, &ClientError{Kind: KindMalformed, Op: op, Err: errors.New("empty result array")}
	}
	return reps[0].toOrder(op)
}

// CancelOrder asks the venue to cancel qty of the order; order.CancelAllQty
// cancels everything that remains.
func (c *RESTClient) CancelOrder(ctx context.Context, orderID string, qty decimal.Decimal) error {
	const op = "cancel"
	payload, err := json.Marshal(map[string]any{
		"order_ids": []string{orderID},
		"qtys":      []string{qty.String()},
	})
	if err != nil {
		return &ClientError{Kind: KindMalformed, Op: op, Err: err}
	}
	_, cerr := c.call(ctx, op, http.MethodDelete, pathOrderCancel, string(payload))
	if cerr != nil {
		return cerr
	}
	return nil
}

// call signs and executes one request, returning the raw result on a
// clean 200 with an empty error array.
func (c *RESTClient) call(ctx context.Context, op, method, uriPath, payload string) (json.RawMessage, *ClientError) {
	if c.Limiter != nil {
		c.Limiter.Wait(ctx)
	}
	nonce, checksum, signature := Sign(c.Secret, uriPath, payload)
	form := url.Values{}
	form.Set("nonce", strconv.FormatInt(nonce, 10))
	form.Set("checksum", checksum)
	form.Set("payload", payload)

	var req *http.Request
	var err error
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+uriPath, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+uriPath+"?"+form.Encode(), nil)
	}
	if err != nil {
		return nil, &ClientError{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("API-Key", c.APIKey)
	req.Header.Set("API-Sign", signature)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ClientError{Kind: classifyTransport(err), Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &ClientError{Kind: KindMalformed, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK || len(env.Error) != 0 {
		return nil, &ClientError{Kind: KindVenue, Op: op, StatusCode: resp.StatusCode, Messages: env.Error}
	}
	return env.Result, nil
}

func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
