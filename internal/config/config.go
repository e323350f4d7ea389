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

// Package config holds globally available configuration variables
// which are either set by defaults, read from a config file or set
// by command line options.
package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// globally available config values.
var (
	// ConfFile hold the path to the used config file (relative to working directory)
	ConfFile = "./config.toml"

	// LogLevel defines the general log level - can be overwritten by cmd line options or config file
	LogLevel = 5

	// SearchLogLevel defines the search log level - can be overwritten by cmd line options or config file
	SearchLogLevel = 5

	// SessionLogLevel defines the session hub log level.
	SessionLogLevel = 5

	// TestLogLevel defines the test log level
	TestLogLevel = 5

	// Settings is the global configuration read in from file
	Settings conf

	initialized = false
)

type conf struct {
	Server serverConfiguration
	Search searchConfiguration
	Matchmaking matchmakingConfiguration
	Repository repositoryConfiguration
}

// serverConfiguration holds the HTTP/websocket transport settings.
type serverConfiguration struct {
	ListenAddr string
	MaxFrameBytes int64
	WriteWaitSeconds int
	PingPeriodSeconds int
}

// searchConfiguration holds the engine's depth and Lazy-SMP worker counts
// per difficulty level, plus the shared transposition table size.
type searchConfiguration struct {
	TTSizeMB int

	WorkersBeginner int
	WorkersIntermediate int
	WorkersAdvanced int
	WorkersMaster int

	DepthBeginner int
	DepthIntermediate int
	DepthAdvanced int
	DepthMaster int
}

// matchmakingConfiguration holds the Match Service's sweep cadence and
// match expiry window.
type matchmakingConfiguration struct {
	SweepIntervalSeconds int
	MatchExpiryMinutes int
}

// SweepInterval is the matchmaking sweep cadence as a time.Duration.
func (m matchmakingConfiguration) SweepInterval() time.Duration {
	return time.Duration(m.SweepIntervalSeconds) * time.Second
}

// MatchExpiry is the match-accept expiry window as a time.Duration.
func (m matchmakingConfiguration) MatchExpiry() time.Duration {
	return time.Duration(m.MatchExpiryMinutes) * time.Minute
}

// repositoryConfiguration holds the Game Repository's storage backend.
type repositoryConfiguration struct {
	DriverName string
	DataSourceName string
}

// Setup reads configuration file and sets settings from this file or defaults
// to various aspects of the application. E.g. Search config, Matchmaking config, etc.
func Setup() {
	if initialized {
		return
	}

	defaults()
	if _, err := toml.DecodeFile(ConfFile, &Settings); err != nil {
		log.Println("Config file not found. Using defaults. (", err, ")")
	}
	initialized = true
}

func defaults() {
	Settings.Server = serverConfiguration{
		ListenAddr: ":8080",
		MaxFrameBytes: 1 << 16,
		WriteWaitSeconds: 10,
		PingPeriodSeconds: 54,
	}
	Settings.Search = searchConfiguration{
		TTSizeMB: 64,
		WorkersBeginner: 1,
		WorkersIntermediate: 1,
		WorkersAdvanced: 2,
		WorkersMaster: 4,
		DepthBeginner: 2,
		DepthIntermediate: 4,
		DepthAdvanced: 5,
		DepthMaster: 7,
	}
	Settings.Matchmaking = matchmakingConfiguration{
		SweepIntervalSeconds: 30,
		MatchExpiryMinutes: 5,
	}
	Settings.Repository = repositoryConfiguration{
		DriverName: "sqlite3",
		DataSourceName: "./chessd.db",
	}
}

// String prints out the current configuration settings and values.
// This uses reflection to read variables and their values.
func (settings *conf) String() string {
	var c strings.Builder
	c.WriteString("Search Config:\n")
	s := reflect.ValueOf(&settings.Search).Elem()
	typeOfT := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	c.WriteString("\nMatchmaking Config:\n")
	s = reflect.ValueOf(&settings.Matchmaking).Elem()
	typeOfT = s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	return c.String()
}
