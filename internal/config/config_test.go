package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/digital-directions/stagegate/internal/config"
)

const baseConfig = `shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "stagegate"
user = "stagegate"
password = "stagegate"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "archives"
connection_string = "DefaultEndpointsProtocol=http;AccountName=stagegatestore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/stagegatestore;"

[identity]
issuer = "https://login.example.com/tenant"
client_id = "stagegate-portal"

[source]
base_url = "https://api.source.example.com"
service_user_id = "svc-stagegate"
token = "source-token"
timeout = 30

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `[server]
port = 9090

[database]
host = "prodhost"

[identity]
issuer = "https://login.example.com/tenant"
client_id = "stagegate-portal"
`

// minimalConfig provides the minimum fields required for validation to
// pass (db name, db user, storage connection string, identity disabled).
const minimalConfig = `shutdown_timeout = "30s"

[server]
port = 8080

[database]
name = "stagegate"
user = "stagegate"

[storage]
connection_string = "conn"

[identity]
disabled = true

[api]
base_path = "/api"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "archives" {
		t.Errorf("storage container: got %s, want archives", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_VERSION", "2.0.0")
	t.Setenv("STAGEGATE_SERVER_PORT", "3000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("STAGEGATE_DB_NAME", "testdb")
	t.Setenv("STAGEGATE_DB_USER", "testuser")
	t.Setenv("STAGEGATE_STORAGE_CONNECTION_STRING", "conn")
	t.Setenv("STAGEGATE_IDENTITY_DISABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `server = {port = `)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("STAGEGATE_PAGINATION_MAX_PAGE_SIZE", "200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			got := cfg.MaxUploadSizeBytes()
			if got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(50 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_API_MAX_UPLOAD_SIZE", "100MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `shutdown_timeout = "30s"

[server]
port = 99999

[database]
name = "stagegate"
user = "stagegate"

[storage]
connection_string = "conn"

[identity]
disabled = true
`,
			wantErr: "invalid port",
		},
		{
			name: "invalid read_timeout",
			config: `shutdown_timeout = "30s"

[server]
read_timeout = "bad"

[database]
name = "stagegate"
user = "stagegate"

[storage]
connection_string = "conn"

[identity]
disabled = true
`,
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIdentityFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Identity.Issuer != "https://login.example.com/tenant" {
		t.Errorf("issuer: got %s, want https://login.example.com/tenant", cfg.Identity.Issuer)
	}
	if cfg.Identity.ClientID != "stagegate-portal" {
		t.Errorf("client_id: got %s, want stagegate-portal", cfg.Identity.ClientID)
	}
	if cfg.Identity.PartyClaim != "party" {
		t.Errorf("party_claim default: got %s, want party", cfg.Identity.PartyClaim)
	}
	if cfg.Identity.Disabled {
		t.Error("identity should not be disabled")
	}
}

func TestIdentityRequiredUnlessDisabled(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `shutdown_timeout = "30s"

[database]
name = "stagegate"
user = "stagegate"

[storage]
connection_string = "conn"
`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing identity issuer")
	}
	if !strings.Contains(err.Error(), "issuer") {
		t.Errorf("error %q does not mention issuer", err.Error())
	}
}

func TestIdentityEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STAGEGATE_IDENTITY_ISSUER", "https://login.example.com/other")
	t.Setenv("STAGEGATE_IDENTITY_PARTY_CLAIM", "org_party")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Identity.Issuer != "https://login.example.com/other" {
		t.Errorf("issuer: got %s, want https://login.example.com/other", cfg.Identity.Issuer)
	}
	if cfg.Identity.PartyClaim != "org_party" {
		t.Errorf("party_claim: got %s, want org_party", cfg.Identity.PartyClaim)
	}
}

func TestSourceFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Source.Disabled {
		t.Error("source should not be disabled")
	}
	if cfg.Source.BaseURL != "https://api.source.example.com" {
		t.Errorf("base_url: got %s, want https://api.source.example.com", cfg.Source.BaseURL)
	}
	if d := cfg.Source.TimeoutDuration(); d != 30*time.Second {
		t.Errorf("timeout: got %v, want 30s", d)
	}
}

func TestSourceDisabledWhenUnset(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !cfg.Source.Disabled {
		t.Error("source without base_url should finalize as disabled")
	}
	if d := cfg.Source.TimeoutDuration(); d != 15*time.Second {
		t.Errorf("timeout default: got %v, want 15s", d)
	}
}

func TestSourceCredentialsRequired(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig+`
[source]
base_url = "https://api.source.example.com"
`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for source without credentials")
	}
	if !strings.Contains(err.Error(), "service_user_id and token") {
		t.Errorf("error %q does not mention credentials", err.Error())
	}
}
