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

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/game"
)

func TestIssueThenVerifyRoundTrips(t *testing.T) {
	s := NewTokenStore(time.Hour)
	userID := game.UserId(uuid.New())

	token, err := s.Issue(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := s.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	s := NewTokenStore(time.Hour)
	_, err := s.Verify(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := NewTokenStore(-time.Minute)
	userID := game.UserId(uuid.New())

	token, err := s.Issue(context.Background(), userID)
	require.NoError(t, err)

	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeInvalidatesToken(t *testing.T) {
	s := NewTokenStore(time.Hour)
	userID := game.UserId(uuid.New())

	token, err := s.Issue(context.Background(), userID)
	require.NoError(t, err)

	s.Revoke(token)

	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	s := NewTokenStore(time.Hour)
	userID := game.UserId(uuid.New())

	a, err := s.Issue(context.Background(), userID)
	require.NoError(t, err)
	b, err := s.Issue(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
