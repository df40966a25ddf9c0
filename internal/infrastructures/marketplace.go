package infrastructures

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type MarketplaceConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type MarketplaceClient struct {
	HTTPClient *http.Client
	Config     MarketplaceConfig
}

// NewMarketplaceConfig creates MarketplaceConfig from the loaded AppConfig
func NewMarketplaceConfig() MarketplaceConfig {
	return MarketplaceConfig{
		BaseURL:  strings.TrimRight(Config.MARKETPLACE_BASE_URL, "/"),
		APIKey:   Config.MARKETPLACE_API_KEY,
		Timeout:  Config.MARKETPLACE_TIMEOUT,
		CacheTTL: Config.MARKETPLACE_CACHE_TTL,
	}
}

// NewMarketplaceClient creates the HTTP client used for the remote marketplace API
func NewMarketplaceClient(config MarketplaceConfig) *MarketplaceClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &MarketplaceClient{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Config: config,
	}
}

// GetFullURL constructs the full URL for an endpoint
func (c *MarketplaceClient) GetFullURL(endpoint string) string {
	return fmt.Sprintf("%s%s", c.Config.BaseURL, endpoint)
}

// GetAuthHeader returns the properly formatted authorization header
func (c *MarketplaceClient) GetAuthHeader() string {
	if c.Config.APIKey == "" {
		return ""
	}
	return "Bearer " + c.Config.APIKey
}
