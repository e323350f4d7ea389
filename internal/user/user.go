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

// Package user is a minimal stand-in for account registration and login,
// which live entirely outside this module: the matchmaking and transport
// layers only ever need to know whether a userId exists. A real deployment
// swaps Store for one backed by whatever identity system owns registration.
package user

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/frankkopp/chessd/internal/game"
)

// ErrUnknownUser is returned when a userId has no registered account.
var ErrUnknownUser = errors.New("user: unknown user")

// ErrAlreadyRegistered is returned by Register for a name already taken.
var ErrAlreadyRegistered = errors.New("user: already registered")

// Account is the sliver of account data this module cares about.
type Account struct {
	ID   game.UserId
	Name string
}

// Store is an in-memory account directory. It implements
// matchmaking.UserVerifier.
type Store struct {
	mu       sync.RWMutex
	byID     map[game.UserId]Account
	byName   map[string]game.UserId
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[game.UserId]Account),
		byName: make(map[string]game.UserId),
	}
}

// Register creates a new account with a fresh UserId.
func (s *Store) Register(name string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[name]; taken {
		return Account{}, ErrAlreadyRegistered
	}
	acc := Account{ID: game.UserId(uuid.New()), Name: name}
	s.byID[acc.ID] = acc
	s.byName[name] = acc.ID
	return acc, nil
}

// UserExists implements matchmaking.UserVerifier.
func (s *Store) UserExists(_ context.Context, userID game.UserId) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[userID]
	return ok, nil
}

// Find looks up an account by id.
func (s *Store) Find(_ context.Context, userID game.UserId) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byID[userID]
	if !ok {
		return Account{}, ErrUnknownUser
	}
	return acc, nil
}

// FindByName looks up an account by its registered name, for the login
// collaborator to resolve a name/password pair to a UserId.
func (s *Store) FindByName(_ context.Context, name string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return Account{}, ErrUnknownUser
	}
	return s.byID[id], nil
}
