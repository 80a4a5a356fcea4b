package tool

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RandomOrderCode draws a 6-digit gateway order code in [100000, 999999].
func RandomOrderCode() int64 {
	return 100000 + rand.Int64N(900000)
}
