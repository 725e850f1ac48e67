// Package api is the client side of the KTech Hub REST API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the login service.
// HTTPClient implements it over JSON/HTTP:
//
//	POST {base}/auth/login
//	{"userId": "...", "password": "...", "deviceOs": "...", "deviceModel": "...", "deviceSerial": "..."}
//
// A 2xx reply carries {"token": "...", "userData": {...}}.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx replies are *StatusError,
// whose message is the server's own text when it sent one. A 2xx reply
// without a token is ErrMalformedResponse.
package api
