// Copyright 2025 Divine Vision Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sushilduseja/divine-vision/corpus"
	"github.com/sushilduseja/divine-vision/rag"
	"github.com/sushilduseja/divine-vision/search"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// APIPrefix prefixes all API routes. Default "/api/v1".
	APIPrefix string

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string
}

// Server wires the retrieval engine into an HTTP surface.
type Server struct {
	echo   *echo.Echo
	config Config
	logger *slog.Logger
}

// NewServer builds the HTTP server. The answerer may be nil, in which
// case the ask endpoint is not registered.
func NewServer(config Config, store *corpus.Store, searcher *search.Searcher, answerer *rag.Answerer) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.APIPrefix == "" {
		config.APIPrefix = "/api/v1"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Logger())
	e.Use(corsMiddleware(config.CORSOrigins))

	api := e.Group(config.APIPrefix)

	NewHealthHandler(store).RegisterRoutes(api)
	NewSearchHandler(searcher).RegisterRoutes(api)
	if reranker := searcher.Reranker(); reranker != nil {
		NewRerankHandler(reranker).RegisterRoutes(api)
	}
	if answerer != nil {
		NewAskHandler(answerer).RegisterRoutes(api)
	}

	return &Server{
		echo:   e,
		config: config,
		logger: slog.Default().With("component", "server"),
	}
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.config.Addr)
	return s.echo.Start(s.config.Addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// corsMiddleware returns a configured CORS middleware
func corsMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"*"},
	})
}
