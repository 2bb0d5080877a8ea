package auth

import (
	"context"
	"encoding/base64"
)

// BasicAuth produces HTTP Basic Authorization headers from a fixed username
// and password. It performs no network calls and holds no mutable state; it is
// intended for test and development environments only.
type BasicAuth struct {
	username string
	password string
}

// NewBasicAuth creates a BasicAuth header source.
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{username: username, password: password}
}

// AuthorizationHeader returns "Basic " followed by the base64 encoding of
// "username:password". It implements HeaderSource and never fails.
func (b *BasicAuth) AuthorizationHeader(_ context.Context) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(b.username + ":" + b.password))
	return "Basic " + encoded, nil
}
