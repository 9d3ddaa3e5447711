// client.go contains the logic for logging into the iliad account portal, every
// call starts from a fresh session.

package iliad

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"iliad-account/internal/components/assert"
	"iliad-account/internal/components/telemetry"
	"iliad-account/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_authenticate = "client.authenticate"
)

const (
	// DefaultBaseUrl is the portal the account page is served from.
	DefaultBaseUrl = "https://www.iliad.it"
	// DefaultTimeout bounds a single login request.
	DefaultTimeout = time.Second * 30

	accountPath = "/account/"
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// InstrumentOutput receives a dump of every HTTP exchange when verbose
	// logging is enabled, it can be nil.
	InstrumentOutput restyutil.InstrumentOutput
}

// Client authenticates against the account portal.
type Client struct {
	baseUrl *url.URL
	timeout time.Duration
	output  restyutil.InstrumentOutput
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("parse base url: '%s' is not absolute", opts.BaseUrl)
	}

	return &Client{
		baseUrl: baseUrl,
		timeout: opts.Timeout,
		output:  opts.InstrumentOutput,
		tel:     telemetry.NewScopedAPI("iliad_client", tel),
	}, nil
}

// AccountUrl is the url the login form is posted to.
func (c *Client) AccountUrl() string {
	return c.baseUrl.JoinPath(accountPath).String()
}

func (c *Client) newHttpClient() (*resty.Client, error) {
	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	httpClient.SetTimeout(c.timeout)

	telemetry.InstrumentResty(httpClient, c.tel)
	restyutil.InstrumentClient(httpClient, nil, c.output)

	return httpClient, nil
}

// Authenticate posts the credentials to the account page and returns the
// status code and body of the response. A non-200 status is not an error,
// it is up to the caller to decide what to do with it.
func (c *Client) Authenticate(ctx context.Context, username, password string) (int, []byte, error) {
	httpClient, err := c.newHttpClient()
	if err != nil {
		c.tel.ReportBroken(
			report_client_authenticate,
			fmt.Errorf("create http client: %w", err),
		)
		return 0, nil, err
	}

	res, err := httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"login-ident": username,
			"login-pwd":   password,
		}).
		Post(c.AccountUrl())
	if err != nil {
		return 0, nil, fmt.Errorf("iliad client: login request: %w", err)
	}

	c.tel.ReportDebug(report_client_authenticate, res.StatusCode(), len(res.Body()))

	return res.StatusCode(), res.Body(), nil
}
