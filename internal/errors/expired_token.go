package errors

import "net/http"

var ErrExpiredToken = &Exception{
	Message:    "token has expired",
	StatusCode: http.StatusUnauthorized,
}
