package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time { return time.Date(2025, 3, 15, 12, 30, 45, 0, time.UTC) }

func runCmd(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, args, fixedClock)
	return out.String(), errOut.String(), code
}

func TestRun_Defaults(t *testing.T) {
	out, _, code := runCmd(t)
	require.Equal(t, 0, code)

	assert.Contains(t, out, "deadline_start=2025-03-15T12:30:45Z\n")
	assert.Contains(t, out, "include_no_deadline=true\n")
	assert.NotContains(t, out, "funding_min")
}

func TestRun_PresetAndFilter(t *testing.T) {
	out, _, code := runCmd(t, "--filter", `{"searchTerm":"water"}`, "--preset", "high-funding")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "funding_max=9007199254740991\n")
	assert.Contains(t, out, "funding_min=1000000\n")
	assert.Contains(t, out, "water")
}

func TestRun_FilterFromFileAndNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"statuses":[]}`), 0o600))

	out, _, code := runCmd(t, "--filter", "@"+path, "--now", "2025-01-01T00:00:00Z", "--encode")
	require.Equal(t, 0, code)

	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "deadline_start=2025-01-01T00%3A00%3A00Z")
	assert.Contains(t, out, "status=NONE")
}

func TestRun_Errors(t *testing.T) {
	_, errOut, code := runCmd(t, "--preset", "bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown preset "bogus"`)

	_, _, code = runCmd(t, "--filter", "{")
	assert.Equal(t, 1, code)

	_, _, code = runCmd(t, "--now", "yesterday")
	assert.Equal(t, 2, code)

	_, _, code = runCmd(t, "--nope")
	assert.Equal(t, 2, code)
}

func TestRun_ListPresets(t *testing.T) {
	out, _, code := runCmd(t, "--list-presets")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "high_funding")
}
