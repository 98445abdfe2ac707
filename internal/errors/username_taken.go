package errors

import "net/http"

var ErrUsernameTaken = &Exception{
	Message:    "username is already taken",
	StatusCode: http.StatusConflict,
}
