package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "web", c.Platform)
	assert.Equal(t, 8080, c.APIPort)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.NotEmpty(t, c.StorePath)
	assert.False(t, c.ExpireOnUnauthorized)
	require.NoError(t, c.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_url":         "https://json.example.cl/api",
		"platform":        "device",
		"lan_host":        "192.168.1.20",
		"request_timeout": "3s",
		"log_format":      "json",
	})
	t.Setenv("CAMPUS_API_URL", "https://env.example.cl/api")
	t.Setenv("CAMPUS_REQUEST_TIMEOUT", "7s")
	t.Setenv("CAMPUS_EXPIRE_ON_UNAUTHORIZED", "true")

	cfg, err := Load([]string{"-c", path, "-a", "https://flag.example.cl/api", "-s", "/tmp/campus.db"})
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	want.APIURL = "https://flag.example.cl/api"
	want.Platform = "device"
	want.LANHost = "192.168.1.20"
	want.RequestTimeout = 7 * time.Second
	want.LogFormat = "json"
	want.StorePath = "/tmp/campus.db"
	want.ExpireOnUnauthorized = true

	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "unknown platform", args: []string{"-p", "symbian"}},
		{name: "device without lan host", args: []string{"-p", "device"}},
		{name: "bad api url", args: []string{"-a", "not a url"}},
		{name: "zero timeout", args: []string{"-t", "0"}},
		{name: "bad log level", env: map[string]string{"CAMPUS_LOG_LEVEL": "verbose"}},
		{name: "bad env duration", env: map[string]string{"CAMPUS_ONLINE_CHECK_INTERVAL": "soon"}},
		{name: "bad flag value", args: []string{"-i", "abc"}},
		{name: "missing config file", args: []string{"-config", "/does/not/exist.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(tt.args)
			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_IgnoresForeignArgs(t *testing.T) {
	cfg, err := Load([]string{"-v", "--other=1", "positional", "-i", "2"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
}
