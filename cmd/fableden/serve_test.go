// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     serveConfig
		wantErr string
	}{
		{
			name: "valid json config",
			cfg:  serveConfig{addr: ":8080", metricsAddr: "127.0.0.1:9100", logFormat: "json"},
		},
		{
			name: "valid text config without metrics",
			cfg:  serveConfig{addr: ":8080", logFormat: "text"},
		},
		{
			name:    "missing addr",
			cfg:     serveConfig{logFormat: "json"},
			wantErr: "addr is required",
		},
		{
			name:    "bad log format",
			cfg:     serveConfig{addr: ":8080", logFormat: "yaml"},
			wantErr: "log-format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestServeCmd_FlagDefaults(t *testing.T) {
	cmd := NewServeCmd()

	addr, err := cmd.Flags().GetString("addr")
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, addr)

	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	require.NoError(t, err)
	assert.Equal(t, defaultMetricsAddr, metricsAddr)

	logFormat, err := cmd.Flags().GetString("log-format")
	require.NoError(t, err)
	assert.Equal(t, defaultLogFormat, logFormat)
}

func TestServeCmd_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FABLEDEN_TOKEN_SECRET", "test-secret")

	cmd := NewServeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestServeCmd_RequiresTokenSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/fableden")
	t.Setenv("FABLEDEN_TOKEN_SECRET", "")

	cmd := NewServeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FABLEDEN_TOKEN_SECRET")
}

func TestServeCmd_RejectsBadLogFormat(t *testing.T) {
	cmd := NewServeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--log-format", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
