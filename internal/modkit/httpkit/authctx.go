package httpkit

import (
	"net/http"
	"strconv"

	pnet "covtrend/internal/platform/net"
)

// UserInt64 returns the caller's numeric user id, zero for anonymous callers
func UserInt64(r *http.Request) int64 {
	id, err := strconv.ParseInt(pnet.UserID(r.Context()), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
