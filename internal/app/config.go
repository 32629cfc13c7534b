package app

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeremywohl/flatten"
	"github.com/mitchellh/mapstructure"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

const (
	DefaultConcurrency = 4

	DefaultDashboardEndpoint = "https://api.meraki.com/api/v1"
	defaultDashboardPerPage  = 1000
	defaultDashboardTimeout  = 60 * time.Second
	defaultDashboardRetries  = 4

	DefaultCatalogCSVURL  = "https://documentation.meraki.com/@api/deki/files/30186/Meraki_EOS_Summary.csv?revision=2"
	DefaultCatalogHTMLURL = "https://documentation.meraki.com/General_Administration/Other_Topics/Meraki_End-of-Life_(EOL)_Products_and_Dates"
	defaultCatalogTimeout = 60 * time.Second

	defaultReportTitle = "Cisco Meraki Lifecycle Report"
	defaultHTMLFile    = "lifecycle_report.html"
	defaultPDFFile     = "lifecycle_report.pdf"
	defaultJSONFile    = "lifecycle_report.json"

	// fallbackAPIKeyEnv is the environment variable the Meraki SDKs read the API key from.
	fallbackAPIKeyEnv = "MERAKI_DASHBOARD_API_KEY"
)

var (
	ErrConfig = errors.New("configuration error")
)

// Configuration holds application configuration read from a YAML or set by env variables.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type Configuration struct {
	// LogLevel is the app verbose logging level.
	// one of - info, debug, trace
	LogLevel string `mapstructure:"log_level"`

	// Concurrency is the number of organizations fetched in parallel.
	Concurrency int `mapstructure:"concurrency"`

	// The inventory source - one of dashboard OR a YAML file path.
	InventorySource string `mapstructure:"inventory_source"`

	// DashboardOptions defines the Meraki Dashboard API client configuration parameters
	//
	// This parameter is required when InventorySource is set to dashboard.
	DashboardOptions *DashboardOptions `mapstructure:"dashboard"`

	CatalogOptions *CatalogOptions `mapstructure:"catalog"`

	ReportOptions *ReportOptions `mapstructure:"report"`

	MetricsOptions *MetricsOptions `mapstructure:"metrics"`
}

// DashboardOptions defines configuration for the Meraki Dashboard API client.
type DashboardOptions struct {
	EndpointURL *url.URL      `mapstructure:"-"`
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	PerPage     int           `mapstructure:"per_page"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CatalogOptions defines where the EOL catalog is loaded from.
type CatalogOptions struct {
	// Source is one of auto, csv, html or a local .csv/.html file path.
	Source  string        `mapstructure:"source"`
	CSVURL  string        `mapstructure:"csv_url"`
	HTMLURL string        `mapstructure:"html_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ReportOptions defines the report artifacts written.
type ReportOptions struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
	HTMLFile  string `mapstructure:"html_file"`
	PDFFile   string `mapstructure:"pdf_file"`
	JSONFile  string `mapstructure:"json_file"`
	// PDFCommand is the HTML to PDF converter command, one of wkhtmltopdf, chrome or none.
	PDFCommand string `mapstructure:"pdf_command"`
	// WriteJSON enables writing the report model as JSON next to the HTML report.
	WriteJSON bool `mapstructure:"write_json"`
}

// MetricsOptions defines where run metrics are pushed.
type MetricsOptions struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
}

// HTMLPath returns the HTML report file path.
func (r *ReportOptions) HTMLPath() string { return filepath.Join(r.OutputDir, r.HTMLFile) }

// PDFPath returns the PDF report file path.
func (r *ReportOptions) PDFPath() string { return filepath.Join(r.OutputDir, r.PDFFile) }

// JSONPath returns the JSON report file path.
func (r *ReportOptions) JSONPath() string { return filepath.Join(r.OutputDir, r.JSONFile) }

// LoadConfiguration loads application configuration
//
// Reads in the cfgFile when available and overrides from environment variables.
func (a *App) LoadConfiguration(cfgFile, inventorySource string) error {
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix(model.AppName)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	// these are initialized here so viper can read in configuration from env vars
	// once https://github.com/spf13/viper/pull/1429 is merged, this can go.
	a.Config.DashboardOptions = &DashboardOptions{}
	a.Config.CatalogOptions = &CatalogOptions{}
	a.Config.ReportOptions = &ReportOptions{}
	a.Config.MetricsOptions = &MetricsOptions{}

	if cfgFile == "" {
		cfgFile = defaultConfigFile()
	}

	if cfgFile != "" {
		fh, err := os.Open(cfgFile)
		if err != nil {
			return errors.Wrap(ErrConfig, err.Error())
		}

		defer fh.Close()

		if err = a.v.ReadConfig(fh); err != nil {
			return errors.Wrap(ErrConfig, "ReadConfig error:"+err.Error())
		}
	}

	a.v.SetDefault("log.level", "info")

	if err := a.envBindVars(); err != nil {
		return errors.Wrap(ErrConfig, "env var bind error:"+err.Error())
	}

	if err := a.v.Unmarshal(a.Config); err != nil {
		return errors.Wrap(ErrConfig, "Unmarshal error: "+err.Error())
	}

	a.envVarAppOverrides()
	a.setDefaults()

	if inventorySource != "" {
		a.Config.InventorySource = inventorySource
	}

	if a.Config.InventorySource == "" {
		a.Config.InventorySource = model.InventorySourceDashboard
	}

	if a.Config.InventorySource == model.InventorySourceDashboard {
		if err := a.envVarDashboardOverrides(); err != nil {
			return errors.Wrap(ErrConfig, "dashboard env overrides error: "+err.Error())
		}
	}

	return nil
}

// defaultConfigFile returns ~/.eolmgr.yml when it exists.
func defaultConfigFile() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	f := filepath.Join(homedir, "."+model.AppName+".yml")
	if _, err := os.Stat(f); err != nil {
		return ""
	}

	return f
}

func (a *App) envVarAppOverrides() {
	if a.v.GetString("log.level") != "" && a.Config.LogLevel == "" {
		a.Config.LogLevel = a.v.GetString("log.level")
	}
}

// nolint:gocyclo // defaults are cyclomatic
func (a *App) setDefaults() {
	if a.Config.Concurrency <= 0 {
		a.Config.Concurrency = DefaultConcurrency
	}

	d := a.Config.DashboardOptions
	if d.Endpoint == "" {
		d.Endpoint = DefaultDashboardEndpoint
	}

	if d.PerPage <= 0 {
		d.PerPage = defaultDashboardPerPage
	}

	if d.Timeout <= 0 {
		d.Timeout = defaultDashboardTimeout
	}

	if d.MaxRetries <= 0 {
		d.MaxRetries = defaultDashboardRetries
	}

	c := a.Config.CatalogOptions
	if c.Source == "" {
		c.Source = model.CatalogSourceAuto
	}

	if c.CSVURL == "" {
		c.CSVURL = DefaultCatalogCSVURL
	}

	if c.HTMLURL == "" {
		c.HTMLURL = DefaultCatalogHTMLURL
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultCatalogTimeout
	}

	r := a.Config.ReportOptions
	if r.OutputDir == "" {
		r.OutputDir = "."
	}

	if r.Title == "" {
		r.Title = defaultReportTitle
	}

	if r.HTMLFile == "" {
		r.HTMLFile = defaultHTMLFile
	}

	if r.PDFFile == "" {
		r.PDFFile = defaultPDFFile
	}

	if r.JSONFile == "" {
		r.JSONFile = defaultJSONFile
	}
}

// envBindVars binds environment variables to the struct
// without a configuration file being unmarshalled,
// this is a workaround for a viper bug,
//
// This can be replaced by the solution in https://github.com/spf13/viper/pull/1429
// once that PR is merged.
func (a *App) envBindVars() error {
	envKeysMap := map[string]interface{}{}
	if err := mapstructure.Decode(a.Config, &envKeysMap); err != nil {
		return err
	}

	// Flatten nested conf map
	flat, err := flatten.Flatten(envKeysMap, "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "Unable to flatten config")
	}

	for k := range flat {
		if err := a.v.BindEnv(k); err != nil {
			return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
		}
	}

	return nil
}

// Dashboard API configuration options
func (a *App) envVarDashboardOverrides() error {
	if a.Config.DashboardOptions == nil {
		a.Config.DashboardOptions = &DashboardOptions{}
	}

	if a.v.GetString("dashboard.endpoint") != "" {
		a.Config.DashboardOptions.Endpoint = a.v.GetString("dashboard.endpoint")
	}

	endpointURL, err := url.Parse(a.Config.DashboardOptions.Endpoint)
	if err != nil {
		return errors.New("dashboard endpoint URL error: " + err.Error())
	}

	if endpointURL.Scheme == "" || endpointURL.Host == "" {
		return errors.New("dashboard endpoint URL error: expected an absolute URL, got " + a.Config.DashboardOptions.Endpoint)
	}

	a.Config.DashboardOptions.EndpointURL = endpointURL

	if a.v.GetString("dashboard.api_key") != "" {
		a.Config.DashboardOptions.APIKey = a.v.GetString("dashboard.api_key")
	}

	if a.Config.DashboardOptions.APIKey == "" {
		a.Config.DashboardOptions.APIKey = os.Getenv(fallbackAPIKeyEnv)
	}

	if a.Config.DashboardOptions.APIKey == "" {
		return errors.New("dashboard api_key not defined, set EOLMGR_DASHBOARD_API_KEY or " + fallbackAPIKeyEnv)
	}

	return nil
}
