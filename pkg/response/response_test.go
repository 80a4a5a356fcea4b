package response

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorT_UsesCodeMessage(t *testing.T) {
	r := ErrorT(APIResponseCodeConflict, "payment already exists")
	require.Equal(t, APIResponseCodeConflict, r.Code)
	require.Equal(t, "conflict", r.Message)
	require.Equal(t, "payment already exists", r.Data)

	ok := OKT(map[string]string{"status": "ok"})
	require.Equal(t, APIResponseCodeOK, ok.Code)
	require.Equal(t, "ok", ok.Message)
}
