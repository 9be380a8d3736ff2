package handlers

import (
	"context"

	"github.com/suPer8Hu/account-pilot/internal/assist"
	"github.com/suPer8Hu/account-pilot/internal/store"
)

// JobPublisher enqueues asynchronous research jobs. Nil disables the
// async endpoints (503) without touching the synchronous path.
type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// Handler carries the request-scoped dependencies. Everything is
// constructed once at process start and injected; no package-level state.
type Handler struct {
	Repo    *store.Repo
	Svc     *assist.Service
	Jobs    JobPublisher
	Version string
}

func NewHandler(repo *store.Repo, svc *assist.Service, jobs JobPublisher, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{Repo: repo, Svc: svc, Jobs: jobs, Version: version}
}
