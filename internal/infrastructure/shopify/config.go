package shopify

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the credentials and connection settings for one storefront's
// Admin API.
type Config struct {
	// ShopDomain is the myshopify domain, e.g. "fibermade.myshopify.com"
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version, e.g. "2024-04"
	APIVersion string
	// Timeout is the per-request timeout
	Timeout time.Duration
}

// Validate checks that all required fields are present
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return errors.New("shopify: shop domain is required")
	}
	if c.AccessToken == "" {
		return errors.New("shopify: access token is required")
	}
	if c.APIVersion == "" {
		return errors.New("shopify: API version is required")
	}
	return nil
}

// Endpoint returns the Admin GraphQL endpoint URL
func (c *Config) Endpoint() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.ShopDomain, c.APIVersion)
}
