package api

import (
	"context"
	"encoding/json"
)

// Client talks to the KTech Hub backend.
type Client interface {
	Login(ctx context.Context, cred Credentials) (*LoginResponse, error)
}

// Credentials for a login attempt.
type Credentials struct {
	StudentID string
	Password  []byte
	Device    Device
}

// LoginResponse is a successful login. UserData is passed through untouched.
type LoginResponse struct {
	Token    string          `json:"token"`
	UserData json.RawMessage `json:"userData"`
}

type loginRequest struct {
	UserID       string `json:"userId"`
	Password     string `json:"password"`
	DeviceOS     string `json:"deviceOs"`
	DeviceModel  string `json:"deviceModel"`
	DeviceSerial string `json:"deviceSerial"`
}
