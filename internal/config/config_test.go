package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VIDTUBE_API_BASE_URL", "")
	t.Setenv("VIDTUBE_TOKEN_STORE", "")
	t.Setenv("VIDTUBE_HTTP_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.Tokens.Backend != TokenStoreFile {
		t.Fatalf("expected file token store got %q", cfg.Tokens.Backend)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected no request timeout by default got %v", cfg.HTTPTimeout)
	}
	if cfg.Tokens.FilePath == "" {
		t.Fatal("expected a default token file path")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VIDTUBE_API_BASE_URL", "http://localhost:8000/api/v1")
	t.Setenv("VIDTUBE_TOKEN_STORE", "Redis")
	t.Setenv("VIDTUBE_HTTP_TIMEOUT", "3s")
	t.Setenv("VIDTUBE_RATE_LIMIT", "2.5")
	t.Setenv("VIDTUBE_MINIO_SECURE", "false")
	t.Setenv("VIDTUBE_HYDRATE_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tokens.Backend != TokenStoreRedis {
		t.Fatalf("expected redis token store got %q", cfg.Tokens.Backend)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.RateLimit != 2.5 {
		t.Fatalf("unexpected rate limit %v", cfg.RateLimit)
	}
	if cfg.ObjectStore.MinioSecure {
		t.Fatal("expected minio secure to be disabled")
	}
	if cfg.HydrateConcurrency != 8 {
		t.Fatalf("expected fallback concurrency got %d", cfg.HydrateConcurrency)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"badScheme", map[string]string{"VIDTUBE_API_BASE_URL": "ftp://example.com"}},
		{"unknownStore", map[string]string{"VIDTUBE_TOKEN_STORE": "etcd"}},
		{"negativeRate", map[string]string{"VIDTUBE_RATE_LIMIT": "-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
