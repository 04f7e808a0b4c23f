package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "42.70", want: "42.7"},
		{in: " 100 ", want: "100"},
		{in: "0.01", want: "0.01"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1.999", wantErr: true},
		{in: "10000000000000", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, apperr.ErrValidation))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestFloorPoints(t *testing.T) {
	require.Equal(t, int64(42), FloorPoints(decimal.RequireFromString("42.7")))
	require.Equal(t, int64(42), FloorPoints(decimal.RequireFromString("42.0")))
	require.Equal(t, int64(0), FloorPoints(decimal.RequireFromString("0.99")))
}
