package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePeriodArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    PeriodArgs
		wantErr string
	}{
		{
			name: "valid window",
			args: PeriodArgs{From: "2023-01", To: "2025-09"},
		},
		{
			name: "same month window",
			args: PeriodArgs{From: "2024-06", To: "2024-06"},
		},
		{
			name:    "missing from",
			args:    PeriodArgs{From: "", To: "2024-06"},
			wantErr: "-from",
		},
		{
			name:    "compact period",
			args:    PeriodArgs{From: "202401", To: "2024-06"},
			wantErr: "-from",
		},
		{
			name:    "month thirteen",
			args:    PeriodArgs{From: "2024-01", To: "2024-13"},
			wantErr: "-to",
		},
		{
			name:    "month zero",
			args:    PeriodArgs{From: "2024-00", To: "2024-06"},
			wantErr: "-from",
		},
		{
			name:    "date instead of period",
			args:    PeriodArgs{From: "2024-01-01", To: "2024-06"},
			wantErr: "-from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriodArgs(tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStructPeriodTag(t *testing.T) {
	type window struct {
		Cutover string `validate:"omitempty,period"`
	}

	assert.NoError(t, Struct(window{Cutover: "2019-04"}))
	assert.NoError(t, Struct(window{Cutover: ""}), "omitempty skips blank values")
	assert.Error(t, Struct(window{Cutover: "2019/04"}))
}
