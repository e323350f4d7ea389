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

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/chessd/internal/auth"
	"github.com/frankkopp/chessd/internal/config"
	"github.com/frankkopp/chessd/internal/game"
	"github.com/frankkopp/chessd/internal/logging"
	"github.com/frankkopp/chessd/internal/matchmaking"
	"github.com/frankkopp/chessd/internal/repository"
	"github.com/frankkopp/chessd/internal/session"
	"github.com/frankkopp/chessd/internal/transport/httpapi"
	"github.com/frankkopp/chessd/internal/transport/wsapi"
	"github.com/frankkopp/chessd/internal/user"
	"github.com/frankkopp/chessd/pkg/version"
)

var out = message.NewPrinter(language.German)

func main() {
	versionInfo := flag.Bool("version", false, "prints version and exits")
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	listenAddr := flag.String("listen", "", "override the configured HTTP listen address")
	doProfile := flag.Bool("profile", false, "capture a CPU profile to ./cpu.pprof while running")
	flag.Parse()

	if *versionInfo {
		printVersionInfo()
		return
	}

	if *doProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	config.ConfFile = *configFile
	config.Setup()
	if *listenAddr != "" {
		config.Settings.Server.ListenAddr = *listenAddr
	}

	log := logging.GetLog()

	games, err := repository.NewSQLiteRepository(config.Settings.Repository.DriverName, config.Settings.Repository.DataSourceName)
	if err != nil {
		log.Criticalf("failed to open game repository: %v", err)
		os.Exit(1)
	}
	defer games.Close()
	registry := game.NewRegistry(games)

	users := user.NewStore()
	tokens := auth.NewTokenStore(24 * time.Hour)

	hub := session.NewHub()
	queue := matchmaking.NewQueue()
	matchRepo := matchmaking.NewInMemoryMatchRepository()
	matchSvc := matchmaking.NewService(users, queue, games, matchRepo, config.Settings.Matchmaking.MatchExpiry(), hub)

	stopSweep := startExpirySweep(matchSvc)
	defer stopSweep()

	httpSrv := httpapi.NewServer(registry, matchSvc, tokens)
	wsSrv := wsapi.NewServer(hub, registry, matchSvc, tokens, nil)

	mux := http.NewServeMux()
	mux.Handle("/api/", httpSrv.Routes())
	mux.Handle("/ws/", wsSrv.Routes())

	server := &http.Server{
		Addr:    config.Settings.Server.ListenAddr,
		Handler: mux,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			log.Criticalf("server stopped: %v", err)
		}
	case <-sig:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warningf("graceful shutdown failed: %v", err)
		}
	}
}

// startExpirySweep runs CleanupExpiredMatches on the cadence named by
// config.Settings.Matchmaking.SweepInterval until stop is called.
func startExpirySweep(svc *matchmaking.Service) (stop func()) {
	ticker := time.NewTicker(config.Settings.Matchmaking.SweepInterval())
	done := make(chan struct{})
	go func() {
		for {
			select {
			case now := <-ticker.C:
				if err := svc.CleanupExpiredMatches(context.Background(), now); err != nil {
					logging.GetLog().Warningf("match expiry sweep failed: %v", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func printVersionInfo() {
	out.Printf("chessd %s\n", version.Version())
	out.Println("Environment:")
	out.Printf("  Using GO version %s\n", runtime.Version())
	out.Printf("  Running %s using %s as a compiler\n", runtime.GOARCH, runtime.Compiler)
	out.Printf("  Number of CPU: %d\n", runtime.NumCPU())
	cwd, _ := os.Getwd()
	out.Printf("  Working directory: %s\n", cwd)
}
