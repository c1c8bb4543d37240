package docker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTail(t *testing.T) {
	cases := map[string]string{
		"":       "100",
		"all":    "all",
		"50":     "50",
		"0":      "100",
		"abc":    "100",
		"-5":     "100",
		"5.5":    "100",
		"999999": "999999",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeTail(in), "input %q", in)
	}
}
