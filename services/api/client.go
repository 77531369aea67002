package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

type (
	// TokenSource provides the bearer token of the current session.
	TokenSource interface {
		Token() (string, error)
	}

	TokenFunc func() (string, error)

	// Policy bounds every request. Only reads are retried.
	Policy struct {
		Timeout time.Duration // 0: no deadline
		Retries int
		Backoff time.Duration // grows linearly with each attempt
	}

	// File is an upload.
	File struct {
		Name string
		Body io.Reader
	}

	Client struct {
		baseURL  string
		http     *http.Client
		tokens   TokenSource
		policy   Policy
		validate *validator.Validate
		logger   core.Logger
	}
)

func (fn TokenFunc) Token() (string, error) { return fn() }

type tokenKey struct{}

// WithToken makes requests under ctx carry token instead of the TokenSource's.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func (c *Client) token(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token()
	if err != nil {
		return ""
	}
	return token
}

func PolicyFrom(conf core.PortalConfig) Policy {
	return Policy{Timeout: conf.RequestTimeout, Retries: conf.RequestRetries, Backoff: conf.RetryBackoff}
}

func NewClient(baseURL string, tokens TokenSource, policy Policy, validate *validator.Validate, logger core.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		tokens:   tokens,
		policy:   policy,
		validate: validate,
		logger:   logger,
	}
}

// FileURL is the download link of an uploaded file.
func (c *Client) FileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return c.baseURL + "/uploads/" + url.PathEscape(filePath)
}

type request struct {
	method      string
	endpoint    string
	auth        bool
	body        []byte
	contentType string
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.auth {
		if token := c.token(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

// attempt sends the request once and reads the whole response.
func (c *Client) attempt(ctx context.Context, req request) (int, []byte, error) {
	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, &TransportError{Endpoint: req.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Endpoint: req.endpoint, Err: err}
	}
	return resp.StatusCode, data, nil
}

func retryable(status int, err error) bool {
	if err != nil {
		return IsTransport(err)
	}
	return status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
}

// do sends the request, following the Policy, and decodes a successful response into out.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	attempts := 1
	if req.method == http.MethodGet && c.policy.Retries > 0 {
		attempts += c.policy.Retries
	}

	var (
		status int
		data   []byte
		err    error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return &TransportError{Endpoint: req.endpoint, Err: ctx.Err()}
			case <-time.After(time.Duration(i) * c.policy.Backoff):
			}
		}
		status, data, err = c.attempt(ctx, req)
		if !retryable(status, err) {
			break
		}
		if c.logger != nil && i+1 < attempts {
			c.logger.Warn("retrying "+req.method+" "+req.endpoint, map[string]interface{}{"attempt": i + 1, "status": status, "error": err})
		}
	}
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		return &APIError{Status: status, Detail: detailOf(data)}
	}
	if out == nil {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Endpoint: req.endpoint, Err: err}
	}
	return nil
}

// detailOf reads the server message of an error body, if it is a string.
func detailOf(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, auth: true}, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, auth bool, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, "encoding request")
		}
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		auth:        auth,
		body:        body,
		contentType: "application/json",
	}, out)
}

// form is a multipart body under construction.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := new(form)
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err == nil {
		f.err = f.w.WriteField(name, value)
	}
}

func (f *form) file(name string, file *File) {
	if f.err != nil || file == nil {
		return
	}
	part, err := f.w.CreateFormFile(name, file.Name)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = io.Copy(part, file.Body)
}

func (f *form) close() ([]byte, string, error) {
	if f.err == nil {
		f.err = f.w.Close()
	}
	if f.err != nil {
		return nil, "", errors.Wrap(f.err, "encoding form")
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, f *form, out interface{}) error {
	body, contentType, err := f.close()
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		auth:        true,
		body:        body,
		contentType: contentType,
	}, out)
}

func (c *Client) check(endpoint string, err error) error {
	if err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }
