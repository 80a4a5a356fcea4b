package gormlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortCaller(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/home/ci/checkout/internal/platform/db/postgres.go:38", "internal/platform/db/postgres.go:38"},
		{"/a/b/c/d/e.go:7", "c/d/e.go:7"},
		{"/x/y.go:1", "x/y.go:1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, shortCaller(tt.in), tt.in)
	}
}
