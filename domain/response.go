package domain

import "net/http"

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func SuccessResponse(message string) Response {
	return Response{StatusCode: http.StatusOK, Body: message}
}

func ForbiddenResponse(message string) Response {
	return Response{StatusCode: http.StatusForbidden, Body: message}
}

func ErrorResponse(message string) Response {
	return Response{StatusCode: http.StatusInternalServerError, Body: message}
}
