// Package services contains application services for the KTech Hub client.
// This file defines the authentication service: credential validation,
// remote sign-in and handing the issued session to the auth manager.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ktech-edu/ktechhub/internal/client/api"
	"github.com/ktech-edu/ktechhub/internal/client/session"
)

// ErrValidation wraps every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError lists problems with the entered credentials, one message
// per field.
type ValidationError struct {
	StudentID string
	Password  string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, s := range []string{e.StudentID, e.Password} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SessionManager receives the session issued by a successful sign-in.
type SessionManager interface {
	Login(ctx context.Context, token string, profile session.UserProfile) error
	Logout(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: validate, call the login API, persist and publish the session.
//   - SignOut: drop the session locally.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SignIn(ctx context.Context, studentID string, password []byte) (*session.UserProfile, error)
	SignOut(ctx context.Context) error
}

type authService struct {
	client  api.Client
	manager SessionManager
	device  func(ctx context.Context) api.Device
}

// NewAuthService constructs an AuthService. device is called once per
// sign-in to describe this installation.
func NewAuthService(client api.Client, manager SessionManager, device func(ctx context.Context) api.Device) AuthService {
	return &authService{client: client, manager: manager, device: device}
}

// ValidateCredentials reports missing fields, or nil.
func ValidateCredentials(studentID string, password []byte) error {
	var v ValidationError
	if strings.TrimSpace(studentID) == "" {
		v.StudentID = "Student ID is required"
	}
	if len(bytes.TrimSpace(password)) == 0 {
		v.Password = "Password is required"
	}
	if v.StudentID == "" && v.Password == "" {
		return nil
	}
	return &v
}

// SignIn exchanges credentials for a session. API errors are returned
// wrapped, so errors.As finds *api.StatusError.
func (a *authService) SignIn(ctx context.Context, studentID string, password []byte) (*session.UserProfile, error) {
	if err := ValidateCredentials(studentID, password); err != nil {
		return nil, err
	}

	resp, err := a.client.Login(ctx, api.Credentials{
		StudentID: studentID,
		Password:  password,
		Device:    a.device(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	profile, err := buildProfile(studentID, resp.UserData)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.manager.Login(ctx, resp.Token, profile); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &profile, nil
}

// buildProfile merges the server's user data under the entered student id.
func buildProfile(studentID string, userData json.RawMessage) (session.UserProfile, error) {
	var p session.UserProfile
	raw := bytes.TrimSpace(userData)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &p); err != nil {
			return session.UserProfile{}, fmt.Errorf("%w: user data: %w", api.ErrMalformedResponse, err)
		}
	}
	p.StudentID = studentID
	return p, nil
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.manager.Logout(ctx)
}
