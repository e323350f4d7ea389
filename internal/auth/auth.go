//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package auth issues and verifies the bearer tokens the HTTP and
// websocket surfaces require; registration and login proper are
// out-of-module collaborators, so this only covers the token half.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/frankkopp/chessd/internal/game"
)

// ErrInvalidToken is returned for a token that is missing, malformed, or
// expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Verifier resolves a bearer token to the UserId it authenticates, for
// the HTTP and websocket handshake paths.
type Verifier interface {
	Verify(ctx context.Context, token string) (game.UserId, error)
}

// Issuer mints a bearer token for a userId, for the login collaborator to
// call once it has confirmed credentials.
type Issuer interface {
	Issue(ctx context.Context, userID game.UserId) (string, error)
}

type session struct {
	userID  game.UserId
	expires time.Time
}

// TokenStore is an in-memory Issuer and Verifier pair: opaque random
// tokens mapped to a userId and an expiry, the validity window that
// config.Settings would otherwise name.
type TokenStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

// NewTokenStore creates a TokenStore whose tokens are valid for ttl after
// issuance.
func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{sessions: make(map[string]session), ttl: ttl}
}

// Issue mints a new opaque token for userID.
func (s *TokenStore) Issue(_ context.Context, userID game.UserId) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	s.mu.Lock()
	s.sessions[token] = session{userID: userID, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Verify resolves token to the userId that issued it, if still valid.
func (s *TokenStore) Verify(_ context.Context, token string) (game.UserId, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expires) {
		return game.UserId{}, ErrInvalidToken
	}
	return sess.userID, nil
}

// Revoke invalidates token immediately, e.g. on logout.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
