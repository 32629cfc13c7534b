package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	pkgName = "internal/catalog"

	fetchRetryDelay = 2 * time.Second
	// the published page is a few hundred KB, anything beyond this is not a catalog.
	maxCatalogBytes = 32 << 20
)

var (
	ErrCatalogFetch  = errors.New("error fetching EOL catalog")
	ErrCatalogSource = errors.New("unsupported EOL catalog source")
)

type parseFunc func(io.Reader) (*RawCatalog, error)

// Loader loads the EOL catalog from the configured source.
type Loader struct {
	opts   *app.CatalogOptions
	client *retryablehttp.Client
	logger *logrus.Logger
}

// NewLoader returns a catalog Loader.
func NewLoader(opts *app.CatalogOptions, logger *logrus.Logger) *Loader {
	client := retryablehttp.NewClient()
	client.RetryWaitMin = fetchRetryDelay
	client.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   opts.Timeout,
	}

	// disable default debug logging on the retryable client
	if logger.Level < logrus.DebugLevel {
		client.Logger = nil
	} else {
		client.Logger = logger
	}

	return &Loader{opts: opts, client: client, logger: logger}
}

// Load returns the normalized EOL catalog along with the rows skipped.
//
// With the auto source the published CSV summary is fetched first, on failure the HTML page is scraped.
func (l *Loader) Load(ctx context.Context) (*model.Catalog, []Diagnostic, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Loader.Load")
	defer span.End()

	source := l.opts.Source
	span.SetAttributes(attribute.String("catalog.source", source))

	switch {
	case strings.HasSuffix(source, ".csv"):
		return l.loadFile(source, ParseCSV)
	case strings.HasSuffix(source, ".html"), strings.HasSuffix(source, ".htm"):
		return l.loadFile(source, ParseHTML)
	case source == model.CatalogSourceCSV:
		return l.loadURL(ctx, l.opts.CSVURL, ParseCSV)
	case source == model.CatalogSourceHTML:
		return l.loadURL(ctx, l.opts.HTMLURL, ParseHTML)
	case source == model.CatalogSourceAuto, source == "":
		catalog, diagnostics, err := l.loadURL(ctx, l.opts.CSVURL, ParseCSV)
		if err == nil {
			return catalog, diagnostics, nil
		}

		l.logger.WithError(err).Warn("EOL catalog CSV unavailable, falling back to the HTML page")

		return l.loadURL(ctx, l.opts.HTMLURL, ParseHTML)
	default:
		return nil, nil, errors.Wrap(ErrCatalogSource, fmt.Sprintf("%s, expected one of %s or a local .csv/.html file", source, strings.Join(model.CatalogSourceKinds(), ", ")))
	}
}

func (l *Loader) loadFile(path string, parse parseFunc) (*model.Catalog, []Diagnostic, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(ErrCatalogFetch, err.Error())
	}

	defer fh.Close()

	return l.normalize(path, "", fh, parse)
}

func (l *Loader) loadURL(ctx context.Context, catalogURL string, parse parseFunc) (*model.Catalog, []Diagnostic, error) {
	body, err := l.fetch(ctx, catalogURL)
	if err != nil {
		return nil, nil, err
	}

	return l.normalize(catalogURL, catalogURL, bytes.NewReader(body), parse)
}

func (l *Loader) normalize(source, baseURL string, r io.Reader, parse parseFunc) (*model.Catalog, []Diagnostic, error) {
	raw, err := parse(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, source)
	}

	raw.BaseURL = baseURL

	catalog, diagnostics, err := Normalize(raw)
	if err != nil {
		return nil, diagnostics, errors.Wrap(err, source)
	}

	catalog.Source = source

	for _, d := range diagnostics {
		l.logger.WithFields(logrus.Fields{"source": source, "row": d.Line}).Warn("EOL catalog row skipped: " + d.Reason)
	}

	metrics.CatalogRecordsGauge.With(prometheus.Labels{"source": source}).Set(float64(catalog.Len()))
	metrics.CatalogDiagnosticsCounter.With(prometheus.Labels{"source": source}).Add(float64(len(diagnostics)))

	l.logger.WithFields(logrus.Fields{"source": source, "records": catalog.Len()}).Info("EOL catalog loaded")

	return catalog, diagnostics, nil
}

func (l *Loader) fetch(ctx context.Context, catalogURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(ErrCatalogFetch, err.Error())
	}

	requestRetryable, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, errors.Wrap(ErrCatalogFetch, err.Error())
	}

	resp, err := l.client.Do(requestRetryable)
	if err != nil {
		return nil, errors.Wrap(ErrCatalogFetch, err.Error())
	}
	defer resp.Body.Close()

	// Check server response
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrCatalogFetch, fmt.Sprintf("URL: %s, status code %s", catalogURL, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, errors.Wrap(ErrCatalogFetch, err.Error())
	}

	return body, nil
}
