package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "bikeshare/internal/errors"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1,2017-03-06 08:00:00,2017-03-06 08:10:00,600,Canal St,Clinton St,Subscriber,Male,1990
2,2017-03-07 17:00:00,2017-03-07 17:20:00,1200,Streeter Dr,Lake Shore Dr,Customer,,
3,2017-04-05 09:00:00,2017-04-05 09:05:00,300,Canal St,Clinton St,Subscriber,Female,1992
`

var exportTime = time.Date(2017, 6, 1, 12, 0, 0, 0, time.UTC)

// setupWorkspace writes a dataset and a config file pointing every directory
// into a temp dir.
func setupWorkspace(t *testing.T) (configFile, root string) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "chicago.csv"), []byte(chicagoCSV), 0644))

	configFile = filepath.Join(root, "bikeshare.yaml")
	yaml := fmt.Sprintf("data:\n  dir: %q\n  reports_dir: %q\nlogging:\n  level: error\n  file_path: %q\n",
		filepath.Join(root, "data"), filepath.Join(root, "reports"), filepath.Join(root, "logs", "export.log"))
	require.NoError(t, os.WriteFile(configFile, []byte(yaml), 0644))
	return configFile, root
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--city", "chicago"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "all", opts.month)
	assert.Equal(t, "all", opts.day)
	assert.Equal(t, "csv", opts.format)
	assert.False(t, opts.trips)

	opts, err = parseFlags([]string{"--city", "washington", "--month", "may", "--format", "pdf", "--trips"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "may", opts.month)
	assert.True(t, opts.trips)

	_, err = parseFlags(nil, io.Discard)
	assert.EqualError(t, err, "--city is required")

	_, err = parseFlags([]string{"--bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_DefaultOutputPath(t *testing.T) {
	configFile, root := setupWorkspace(t)

	path, err := run(context.Background(), options{
		configFile: configFile, city: "chicago", month: "march", day: "all", format: "csv",
	}, io.Discard, exportTime)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "reports", "chicago_march_all_20170601_120000.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Group,Metric,Value")
	assert.Contains(t, string(data), "Canal St")
}

func TestRun_XLSXWithTrips(t *testing.T) {
	configFile, root := setupWorkspace(t)
	out := filepath.Join(root, "custom", "chicago.xlsx")

	path, err := run(context.Background(), options{
		configFile: configFile, city: "Chicago", month: "all", day: "all", format: "xlsx", out: out, trips: true,
	}, io.Discard, exportTime)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Trips")
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus three trips")
}

func TestRun_Errors(t *testing.T) {
	configFile, root := setupWorkspace(t)

	tests := []struct {
		name    string
		opts    options
		errType apierrors.ErrorType
		errText string
	}{
		{
			name:    "unknown city",
			opts:    options{city: "boston", month: "all", day: "all", format: "csv"},
			errType: apierrors.ErrTypeValidation,
		},
		{
			name:    "unsupported format",
			opts:    options{city: "chicago", month: "all", day: "all", format: "docx"},
			errText: "unsupported export format",
		},
		{
			name:    "output extension mismatch",
			opts:    options{city: "chicago", month: "all", day: "all", format: "csv", out: filepath.Join(root, "out.pdf")},
			errText: "must have one of the extensions",
		},
		{
			name:    "missing dataset",
			opts:    options{city: "washington", month: "all", day: "all", format: "csv"},
			errType: apierrors.ErrTypeDataUnavailable,
		},
		{
			name:    "no trips for filter",
			opts:    options{city: "chicago", month: "june", day: "sunday", format: "json"},
			errType: apierrors.ErrTypeNoDataForFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.configFile = configFile
			_, err := run(context.Background(), tt.opts, io.Discard, exportTime)
			require.Error(t, err)
			if tt.errType != "" {
				assert.Equal(t, tt.errType, apierrors.TypeOf(err))
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}
