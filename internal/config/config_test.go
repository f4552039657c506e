package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/docxout"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PREPBOOK_API_KEY", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("MATH_PLACEMENT", "")

	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 2, cfg.OutputColumns)
	assert.Equal(t, docxout.PlacementParagraph, cfg.MathPlacement)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.True(t, cfg.PDFFallbackPdftotext)
	assert.EqualError(t, cfg.Validate(), "PREPBOOK_API_KEY is required")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PREPBOOK_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("OUTPUT_COLUMNS", "1")
	t.Setenv("MATH_PLACEMENT", "inline")
	t.Setenv("STATS_WINDOW", "10m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("JOB_TTL", "not-a-duration")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 10*time.Minute, cfg.StatsWindow)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
	assert.Equal(t, docxout.Options{Columns: 1, Placement: docxout.PlacementInline}, cfg.Layout())
}

func TestValidate_Placement(t *testing.T) {
	t.Setenv("PREPBOOK_API_KEY", "secret")
	t.Setenv("MATH_PLACEMENT", "margin")
	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATH_PLACEMENT")
}
