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

package matchmaking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/frankkopp/chessd/internal/chess"
	"github.com/frankkopp/chessd/internal/game"
	myLogging "github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/repository"
)

// Sentinel errors returned by Service operations.
var (
	ErrUnknownUser    = errors.New("user does not exist")
	ErrAlreadyMatched = errors.New("user already has an active match")
)

// UserVerifier is the out-of-scope user-account collaborator: it only
// needs to answer whether a userId refers to a real, registered account.
type UserVerifier interface {
	UserExists(ctx context.Context, userID game.UserId) (bool, error)
}

// MatchExpiryNotifier is told about every Match reclaimed by
// CleanupExpiredMatches, so the Session Hub can drop any stale UI state for
// the pair without a dedicated poll.
type MatchExpiryNotifier interface {
	NotifyMatchExpired(ctx context.Context, m *Match)
}

// Result is the outcome of JoinMatchmaking and GetMatchStatus.
type Result struct {
	Waiting       bool
	Matched       bool
	QueuePosition int
	GameID        uuid.UUID
	YourColour    chess.Color
}

// Service implements the Match Service: colour assignment, game creation,
// and periodic expiry sweeps, built on top of a Queue, a MatchRepository,
// and the Game Repository.
type Service struct {
	log *logging.Logger

	users UserVerifier
	queue *Queue
	games repository.Repository
	matches MatchRepository

	expiry   time.Duration
	notifier MatchExpiryNotifier

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService wires a Service from its collaborators. expiry is normally
// config.Settings.Matchmaking.MatchExpiry(). notifier may be nil.
func NewService(users UserVerifier, queue *Queue, games repository.Repository, matches MatchRepository, expiry time.Duration, notifier MatchExpiryNotifier) *Service {
	if expiry <= 0 {
		expiry = matchExpiryWindow
	}
	return &Service{
		log:      myLogging.GetLog(),
		users:    users,
		queue:    queue,
		games:    games,
		matches:  matches,
		expiry:   expiry,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// JoinMatchmaking enqueues userID, immediately pairing it with another
// waiting user if one is available. On any failure after enqueuing, the
// user is removed from the queue before the error is returned.
func (s *Service) JoinMatchmaking(ctx context.Context, userID game.UserId, now time.Time) (Result, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{}, ErrUnknownUser
	}
	if s.queue.IsQueued(userID) {
		return Result{}, ErrAlreadyQueued
	}
	if m, found, err := s.matches.FindByUser(ctx, userID); err != nil {
		return Result{}, err
	} else if found && m.ExpiresAt.After(now) {
		return Result{}, ErrAlreadyMatched
	}

	if err := s.queue.Add(userID); err != nil {
		return Result{}, err
	}

	// Every join either pairs immediately or leaves exactly one user
	// waiting, so whenever FindMatch succeeds here its pair is exactly
	// {userID, whoever was already waiting}.
	first, second, ok := s.queue.FindMatch()
	if !ok {
		return Result{Waiting: true, QueuePosition: s.queue.Position(userID)}, nil
	}
	other := first
	if userID == first {
		other = second
	}

	result, err := s.createMatch(ctx, userID, other, now)
	if err != nil {
		s.queue.Remove(userID)
		return Result{}, err
	}
	return result, nil
}

func (s *Service) createMatch(ctx context.Context, a, b game.UserId, now time.Time) (Result, error) {
	white, black := a, b
	if s.coinFlip() {
		white, black = b, a
	}

	g := game.New(uuid.New(), white, black, now)
	if err := s.games.Save(ctx, g); err != nil {
		return Result{}, err
	}

	m := &Match{
		GameID:        g.ID,
		WhiteUserID:   white,
		BlackUserID:   black,
		WhitePlayerID: g.White.ID,
		BlackPlayerID: g.Black.ID,
		MatchedAt:     now,
		ExpiresAt:     now.Add(s.expiry),
	}
	if err := s.matches.Save(ctx, m); err != nil {
		return Result{}, err
	}

	s.log.Infof("matched users into game %s", g.ID)
	return Result{Matched: true, GameID: g.ID, YourColour: m.ColourFor(a)}, nil
}

func (s *Service) coinFlip() bool {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(2) == 0
}

// GetMatchStatus first sweeps expired matches, then reports userID's
// current standing: not queued or matched, waiting in queue, or matched
// into a game.
func (s *Service) GetMatchStatus(ctx context.Context, userID game.UserId, now time.Time) (Result, error) {
	if err := s.CleanupExpiredMatches(ctx, now); err != nil {
		return Result{}, err
	}
	if m, found, err := s.matches.FindByUser(ctx, userID); err != nil {
		return Result{}, err
	} else if found {
		return Result{Matched: true, GameID: m.GameID, YourColour: m.ColourFor(userID)}, nil
	}
	if s.queue.IsQueued(userID) {
		return Result{Waiting: true, QueuePosition: s.queue.Position(userID)}, nil
	}
	return Result{}, nil
}

// CleanupExpiredMatches removes every Match whose ExpiresAt has passed and
// notifies the configured MatchExpiryNotifier about each one concurrently.
// Safe to call both on demand and from a periodic sweep.
func (s *Service) CleanupExpiredMatches(ctx context.Context, now time.Time) error {
	expired, err := s.matches.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 || s.notifier == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range expired {
		m := m
		g.Go(func() error {
			s.notifier.NotifyMatchExpired(gctx, m)
			return nil
		})
	}
	return g.Wait()
}
