// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/processing"
)

// MyServer bundles everything the HTTP layer needs.
type MyServer struct {
	DB      *database.DBinstanceStruct
	Cfg     *config.Config
	Invoker llm.Invoker
	Runner  *processing.Runner
	Log     *zap.SugaredLogger
}

// NewServer construct new http.Server instance around a MyServer.
func NewServer(s *MyServer) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
