// Package api is the HTTP client for the emergency-reporting backend.
//
// Every method issues exactly one request. There are no retries; callers
// decide what to show on ErrTransport and *StatusError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pathLogin          = "/api/login_movil/"
	pathRegister       = "/api/registro/"
	pathSubscribe      = "/api/suscribirse/"
	pathUnsubscribe    = "/api/unsuscribe/"
	pathCreateReport   = "/api/create_emergency/"
	maxResponseBytes   = 4 << 20
	requestIDHeader    = "X-Request-ID"
	contentTypeJSON    = "application/json"
	nullChannelLiteral = "null"
)

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request; zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string { return c.baseURL }

// Login posts credentials and returns the raw response text.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.postText(ctx, pathLogin, creds)
}

// Register creates an account and returns the raw response text.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	return c.postText(ctx, pathRegister, creds)
}

// SubscribedChannels lists the channels userID is subscribed to.
func (c *Client) SubscribedChannels(ctx context.Context, userID string) ([]Channel, error) {
	var out []Channel
	if err := c.getJSON(ctx, "/api/"+url.PathEscape(userID)+"/subscriptions/", &out); err != nil {
		return nil, fmt.Errorf("subscribed channels: %w", err)
	}
	return out, nil
}

// UnsubscribedChannels lists the channels userID has not joined yet.
func (c *Client) UnsubscribedChannels(ctx context.Context, userID string) ([]Channel, error) {
	var out []Channel
	if err := c.getJSON(ctx, "/api/"+url.PathEscape(userID)+"/notSuscribedChannels/", &out); err != nil {
		return nil, fmt.Errorf("unsubscribed channels: %w", err)
	}
	return out, nil
}

// Emergencies lists the reports of one channel.
func (c *Client) Emergencies(ctx context.Context, channelID int64) ([]Emergency, error) {
	var out []Emergency
	if err := c.getJSON(ctx, "/api/"+strconv.FormatInt(channelID, 10)+"/emergencies", &out); err != nil {
		return nil, fmt.Errorf("emergencies: %w", err)
	}
	return out, nil
}

type membershipRequest struct {
	ChannelID int64  `json:"channel_id"`
	UserID    string `json:"user_id"`
}

// Subscribe adds userID to channelID.
func (c *Client) Subscribe(ctx context.Context, channelID int64, userID string) (Ack, error) {
	return c.postAck(ctx, pathSubscribe, membershipRequest{ChannelID: channelID, UserID: userID})
}

// Unsubscribe removes userID from channelID.
func (c *Client) Unsubscribe(ctx context.Context, channelID int64, userID string) (Ack, error) {
	return c.postAck(ctx, pathUnsubscribe, membershipRequest{ChannelID: channelID, UserID: userID})
}

// CreateEmergency submits a report as multipart form data.
func (c *Client) CreateEmergency(ctx context.Context, in NewEmergency) (CreatedEmergency, error) {
	body, contentType, err := encodeEmergency(in)
	if err != nil {
		return CreatedEmergency{}, fmt.Errorf("encode emergency: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, pathCreateReport, body)
	if err != nil {
		return CreatedEmergency{}, err
	}
	req.Header.Set("Content-Type", contentType)
	raw, err := c.do(req, false)
	if err != nil {
		return CreatedEmergency{}, err
	}
	var out CreatedEmergency
	if err := json.Unmarshal(raw, &out); err != nil {
		// the report exists server side; keep whatever text came back
		c.log.Warn("unexpected create response", zap.Error(err))
		return CreatedEmergency{Message: plainText(raw)}, nil
	}
	return out, nil
}

func encodeEmergency(in NewEmergency) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	channel := nullChannelLiteral
	if in.ChannelID != nil {
		channel = strconv.FormatInt(*in.ChannelID, 10)
	}
	fields := [][2]string{
		{"title", in.Title},
		{"description", in.Description},
		{"channel_id", channel},
		{"reporter_id", in.ReporterID},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	for i, img := range in.Images {
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) postText(ctx context.Context, path string, payload any) (string, error) {
	req, err := c.newJSONRequest(ctx, path, payload)
	if err != nil {
		return "", err
	}
	raw, err := c.do(req, true)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) postAck(ctx context.Context, path string, payload any) (Ack, error) {
	req, err := c.newJSONRequest(ctx, path, payload)
	if err != nil {
		return Ack{}, err
	}
	raw, err := c.do(req, false)
	if err != nil {
		return Ack{}, err
	}
	ack := Ack{Fields: map[string]any{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return ack, nil
	}
	// a 2xx is a completed mutation whatever the body looks like
	if err := json.Unmarshal(raw, &ack.Fields); err != nil || ack.Fields == nil {
		ack.Fields = map[string]any{}
		ack.Message = plainText(raw)
		return ack, nil
	}
	ack.Message = messageFrom(raw, "")
	return ack, nil
}

// plainText is body trimmed, with a JSON string literal unquoted.
func plainText(body []byte) string {
	raw := bytes.TrimSpace(body)
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	raw, err := c.do(req, false)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

// do sends req and returns the body of a 2xx response. rawErrors keeps the
// whole body as the StatusError message (login and register show it verbatim).
func (c *Client) do(req *http.Request, rawErrors bool) ([]byte, error) {
	start := time.Now()
	log := c.log.With(
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("read body failed", zap.Error(err), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransport, req.URL.Path, err)
	}
	log.Debug("request done", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := newStatusError(resp.StatusCode, raw)
		if rawErrors && se.Body != "" {
			se.Message = se.Body
		}
		return nil, se
	}
	return raw, nil
}
