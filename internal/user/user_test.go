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

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankkopp/chessd/internal/game"
)

func TestRegisterAssignsFreshID(t *testing.T) {
	s := NewStore()

	acc, err := s.Register("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Name)
	assert.NotEqual(t, game.UserId{}, acc.ID)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	s := NewStore()
	_, err := s.Register("alice")
	require.NoError(t, err)

	_, err = s.Register("alice")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestUserExists(t *testing.T) {
	s := NewStore()
	acc, err := s.Register("alice")
	require.NoError(t, err)

	ok, err := s.UserExists(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UserExists(context.Background(), game.UserId{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindUnknownUserReturnsError(t *testing.T) {
	s := NewStore()
	_, err := s.Find(context.Background(), game.UserId{})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestFindByName(t *testing.T) {
	s := NewStore()
	acc, err := s.Register("alice")
	require.NoError(t, err)

	found, err := s.FindByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = s.FindByName(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
