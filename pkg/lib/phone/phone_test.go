package phone

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndFormat(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		defaultRegion string
		wantE164      string
		wantRegion    string
		wantErr       bool
	}{
		{
			name:          "peru mobile in E164",
			raw:           "+51987654321",
			defaultRegion: "PE",
			wantE164:      "+51987654321",
			wantRegion:    "PE",
		},
		{
			name:          "peru mobile without plus uses default region",
			raw:           "987654321",
			defaultRegion: "PE",
			wantE164:      "+51987654321",
			wantRegion:    "PE",
		},
		{
			name:          "spaces and dashes are stripped",
			raw:           "+51 987-654-321",
			defaultRegion: "PE",
			wantE164:      "+51987654321",
			wantRegion:    "PE",
		},
		{
			name:          "us number with explicit calling code",
			raw:           "+12125550123",
			defaultRegion: "PE",
			wantE164:      "+12125550123",
			wantRegion:    "US",
		},
		{
			name:          "too short",
			raw:           "12345",
			defaultRegion: "PE",
			wantErr:       true,
		},
		{
			name:          "empty after cleanup",
			raw:           "---",
			defaultRegion: "PE",
			wantErr:       true,
		},
		{
			name:          "letters rejected",
			raw:           "abcdef",
			defaultRegion: "PE",
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAndFormat(tt.raw, tt.defaultRegion)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantE164, got.E164)
			assert.Equal(t, tt.wantRegion, got.Region)
		})
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
