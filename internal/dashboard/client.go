package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tomnomnom/linkheader"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	pkgName = "internal/dashboard"

	retryWaitMin = 1 * time.Second
	retryWaitMax = 30 * time.Second

	// maxRedirects matches the net/http default redirect limit.
	maxRedirects = 10

	// maxPages bounds the pages followed for a single listing.
	maxPages = 10000

	queryKindOrganizations = "organizations"
	queryKindNetworks      = "networks"
	queryKindDevices       = "devices"
)

var (
	ErrDashboardQuery = errors.New("error querying Dashboard API")
)

// APIError is returned when the Dashboard API responds with a non success status.
type APIError struct {
	StatusCode int      `json:"-"`
	Errors     []string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("Dashboard API error, status code %d", e.StatusCode)
	}

	return fmt.Sprintf("Dashboard API error, status code %d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
}

// Client is a Meraki Dashboard API client which implements the inventory Source interface.
type Client struct {
	opts     *app.DashboardOptions
	endpoint *url.URL
	client   *retryablehttp.Client
	logger   *logrus.Logger
}

// New returns a Dashboard API client for the given configuration.
func New(opts *app.DashboardOptions, logger *logrus.Logger) (*Client, error) {
	if opts == nil || opts.APIKey == "" {
		return nil, errors.Wrap(ErrDashboardQuery, "API key not set")
	}

	endpoint := opts.EndpointURL
	if endpoint == nil {
		var err error

		endpoint, err = url.Parse(opts.Endpoint)
		if err != nil {
			return nil, errors.Wrap(ErrDashboardQuery, "endpoint: "+err.Error())
		}
	}

	// init retryable http client
	client := retryablehttp.NewClient()
	client.RetryMax = opts.MaxRetries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	// the last response is returned when retries are exhausted so the API errors are available.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// set retryable HTTP client to be the otel http client to collect telemetry
	client.HTTPClient = &http.Client{
		Transport:     otelhttp.NewTransport(http.DefaultTransport),
		Timeout:       opts.Timeout,
		CheckRedirect: keepAuthorization,
	}

	// disable default debug logging on the retryable client
	if logger.Level < logrus.DebugLevel {
		client.Logger = nil
	} else {
		client.Logger = logger
	}

	return &Client{opts: opts, endpoint: endpoint, client: client, logger: logger}, nil
}

// keepAuthorization carries the API key over redirects,
// the Dashboard redirects requests to the shard hosting the organization and net/http drops
// the Authorization header when the host changes.
func keepAuthorization(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.Errorf("stopped after %d redirects", maxRedirects)
	}

	if req.URL.Scheme != via[0].URL.Scheme {
		return errors.Wrap(ErrDashboardQuery, "redirect changes the URL scheme: "+req.URL.String())
	}

	if auth := via[0].Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	return nil
}

// Organizations returns the organizations accessible with the API key.
func (c *Client) Organizations(ctx context.Context) ([]model.Organization, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Client.Organizations")
	defer span.End()

	return listAll[model.Organization](ctx, c, queryKindOrganizations, "organizations")
}

// Networks returns the networks in the organization.
func (c *Client) Networks(ctx context.Context, orgID string) ([]model.Network, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Client.Networks")
	defer span.End()

	span.SetAttributes(attribute.String("orgID", orgID))

	return listAll[model.Network](ctx, c, queryKindNetworks, "organizations", orgID, "networks")
}

// Devices returns the devices in the organization inventory.
func (c *Client) Devices(ctx context.Context, orgID string) ([]model.Device, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Client.Devices")
	defer span.End()

	span.SetAttributes(attribute.String("orgID", orgID))

	return listAll[model.Device](ctx, c, queryKindDevices, "organizations", orgID, "devices")
}

// listAll returns the items of a listing, following the next page links.
func listAll[T any](ctx context.Context, c *Client, queryKind string, pathElems ...string) ([]T, error) {
	next := c.listURL(pathElems...)
	items := []T{}

	for page := 0; next != ""; page++ {
		if page == maxPages {
			return nil, errors.Wrap(ErrDashboardQuery, fmt.Sprintf("%s: page limit %d reached", queryKind, maxPages))
		}

		var pageItems []T

		link, err := c.get(ctx, next, &pageItems)
		if err != nil {
			metrics.DashboardQueryErrorCount.With(prometheus.Labels{"queryKind": queryKind}).Inc()

			return nil, err
		}

		items = append(items, pageItems...)
		next = nextLink(link)
	}

	return items, nil
}

func (c *Client) listURL(pathElems ...string) string {
	u := c.endpoint.JoinPath(pathElems...)

	if c.opts.PerPage > 0 {
		q := u.Query()
		q.Set("perPage", strconv.Itoa(c.opts.PerPage))
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// get decodes the JSON response body of the URL into v and returns the response Link header.
func (c *Client) get(ctx context.Context, reqURL string, v any) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", errors.Wrap(ErrDashboardQuery, err.Error())
	}

	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrDashboardQuery, err.Error())
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(ErrDashboardQuery, err.Error())
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		// the error list is optional, a body that is not JSON is reported by its status alone.
		_ = json.Unmarshal(body, apiErr)

		c.logger.WithFields(logrus.Fields{"url": reqURL, "status": resp.StatusCode}).Debug("Dashboard API error response")

		return "", apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return "", errors.Wrap(ErrDashboardQuery, "decoding response: "+err.Error())
	}

	return resp.Header.Get("Link"), nil
}

// nextLink returns the URL of the rel=next entry in a Link header, or an empty string.
//
// The Dashboard API paginates with headers of the form
// <https://api.meraki.com/api/v1/organizations?startingAfter=a>; rel=first, <...>; rel=next
func nextLink(header string) string {
	next := linkheader.Parse(header).FilterByRel("next")
	if len(next) == 0 {
		return ""
	}

	return next[0].URL
}
