package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/bbernstein/fgcboard/internal/render"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		format  string
		want    interface{}
		wantErr bool
	}{
		{format: "", want: &render.Styled{}},
		{format: "styled", want: &render.Styled{}},
		{format: "table", want: &render.Table{}},
		{format: "json", want: &render.JSON{}},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := newRenderer(tt.format, &buf, "footer")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station: PR\ncount: 4\nstore: memory\n"), 0o644))

	t.Setenv("STORE_BACKEND", "sqlite")
	configPath = path
	storeBackend = ""
	logLevel = "error"
	defer func() { configPath, logLevel = "board.yaml", "" }()

	require.NoError(t, loadConfig())
	assert.Equal(t, "PR", cfg.DefaultStation)
	assert.Equal(t, 4, cfg.DefaultCount)
	assert.Equal(t, config.BackendMemory, cacheCfg.Backend, "file beats env")

	storeBackend = "S3"
	defer func() { storeBackend = "" }()
	require.NoError(t, loadConfig())
	assert.Equal(t, config.BackendS3, cacheCfg.Backend, "flag beats file")
}

func TestFooter(t *testing.T) {
	assert.Contains(t, footer(timeutil.SystemClock{}), "FGC")
}
