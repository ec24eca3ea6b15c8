package api

import "github.com/cosmobobak/cbnf/internal/report"

type HeaderResponse struct {
	ID           string         `json:"id"`
	Object       string         `json:"object"`
	Validated    bool           `json:"validated"`
	Compressed   bool           `json:"compressed"`
	PayloadBytes int            `json:"payload_bytes"`
	Header       report.Summary `json:"header"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ResponseError struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Layer   *int   `json:"layer,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
