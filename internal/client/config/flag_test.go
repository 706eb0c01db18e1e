package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"pd", "-a", "http://10.0.0.5/api/", "-t", "3s", "-p", "20", "-d", "s.db", "-l", "debug", "-c", "ignored.json"},
			expected: &Config{
				APIBaseURL: "http://10.0.0.5/api/", RequestTimeout: 3 * time.Second, PageSize: 20,
				DatabasePath: "s.db", LogLevel: "debug",
			},
		},
		{
			name:     "no flags keeps values",
			args:     []string{"pd"},
			expected: &Config{PageSize: 10},
		},
		{name: "bad timeout", args: []string{"pd", "-t", "soon"}, expectPanic: true},
		{name: "bad page size", args: []string{"pd", "-p", "abc"}, expectPanic: true},
		{name: "zero page size", args: []string{"pd", "-p", "0"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{PageSize: 10}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
