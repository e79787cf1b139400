package config

import (
	"fmt"
	"os"

	"github.com/digital-directions/stagegate/pkg/formatting"
	"github.com/digital-directions/stagegate/pkg/middleware"
	"github.com/digital-directions/stagegate/pkg/openapi"
	"github.com/digital-directions/stagegate/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "STAGEGATE_CORS_ENABLED",
	Origins:          "STAGEGATE_CORS_ORIGINS",
	AllowedMethods:   "STAGEGATE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "STAGEGATE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "STAGEGATE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "STAGEGATE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "STAGEGATE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "STAGEGATE_PAGINATION_MAX_PAGE_SIZE",
}

var docsEnv = &openapi.ConfigEnv{
	Title:       "STAGEGATE_DOCS_TITLE",
	Description: "STAGEGATE_DOCS_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and docs settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Docs          openapi.Config        `toml:"docs"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Docs.Finalize(docsEnv); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Docs.Merge(&overlay.Docs)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("STAGEGATE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("STAGEGATE_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
