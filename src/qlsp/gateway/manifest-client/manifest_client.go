package manifestclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http/httpproxy"
)

const (
	_artifactConfigKey = "artifact"
	_serverConfigKey   = "server"
	_defaultTimeout    = 10 * time.Second
	_maxManifestBytes  = 10 << 20
)

// Gateway fetches the language server manifest and downloads its artifacts.
type Gateway interface {
	// FetchManifest retrieves and decodes the manifest. Every failure is a ManifestFetchError.
	FetchManifest(ctx context.Context, manifestURL string) (*entity.Manifest, error)
	// Download streams the body of fileURL into w. Every failure is a DownloadError.
	Download(ctx context.Context, fileURL string, w io.Writer) (int64, error)
	// ProxyURL returns the proxy used for HTTPS requests to target, if any.
	ProxyURL(target string) (string, bool)
}

// Params are inbound parameters to initialize a new Gateway.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
}

type artifactConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

type serverConfig struct {
	ProxyURL string `yaml:"proxyUrl"`
}

type gateway struct {
	logger         *zap.SugaredLogger
	manifestClient *http.Client
	downloadClient *http.Client
	proxyFunc      func(*url.URL) (*url.URL, error)
}

// New creates a Gateway. A configured proxy URL takes precedence over the HTTPS_PROXY and NO_PROXY environment.
func New(p Params) (Gateway, error) {
	artifactCfg := artifactConfig{}
	if err := p.Config.Get(_artifactConfigKey).Populate(&artifactCfg); err != nil {
		return nil, fmt.Errorf("getting artifact configuration: %w", err)
	}
	serverCfg := serverConfig{}
	if err := p.Config.Get(_serverConfigKey).Populate(&serverCfg); err != nil {
		return nil, fmt.Errorf("getting server configuration: %w", err)
	}

	timeout := _defaultTimeout
	if artifactCfg.TimeoutSeconds > 0 {
		timeout = time.Duration(artifactCfg.TimeoutSeconds) * time.Second
	}

	proxyCfg := httpproxy.FromEnvironment()
	if serverCfg.ProxyURL != "" {
		proxyCfg = &httpproxy.Config{
			HTTPProxy:  serverCfg.ProxyURL,
			HTTPSProxy: serverCfg.ProxyURL,
			NoProxy:    proxyCfg.NoProxy,
		}
	}
	proxyFunc := proxyCfg.ProxyFunc()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	return &gateway{
		logger:         p.Logger.With("plugin", "manifest-client"),
		manifestClient: &http.Client{Transport: transport, Timeout: timeout},
		downloadClient: &http.Client{Transport: transport},
		proxyFunc:      proxyFunc,
	}, nil
}

func (g *gateway) FetchManifest(ctx context.Context, manifestURL string) (*entity.Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, &errors.ManifestFetchError{URL: manifestURL, Err: err}
	}

	g.logger.Infow("fetching manifest", "url", manifestURL)
	resp, err := g.manifestClient.Do(req)
	if err != nil {
		return nil, &errors.ManifestFetchError{URL: manifestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.ManifestFetchError{URL: manifestURL, StatusCode: resp.StatusCode}
	}

	manifest := &entity.Manifest{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, _maxManifestBytes)).Decode(manifest); err != nil {
		return nil, &errors.ManifestFetchError{URL: manifestURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding manifest: %w", err)}
	}
	return manifest, nil
}

func (g *gateway) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, &errors.DownloadError{URL: fileURL, Err: err}
	}

	g.logger.Infow("downloading artifact", "url", fileURL)
	resp, err := g.downloadClient.Do(req)
	if err != nil {
		return 0, &errors.DownloadError{URL: fileURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &errors.DownloadError{URL: fileURL, StatusCode: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &errors.DownloadError{URL: fileURL, StatusCode: resp.StatusCode, Err: err}
	}
	return n, nil
}

func (g *gateway) ProxyURL(target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false
	}
	proxy, err := g.proxyFunc(u)
	if err != nil || proxy == nil {
		return "", false
	}
	return proxy.String(), true
}
