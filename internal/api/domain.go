package api

import "github.com/JaimeStill/flowdeck/internal/workflows"

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Workflows workflows.System
}

// NewDomain creates all domain systems from the API runtime. Without a
// database the workflows system is held in memory.
func NewDomain(runtime *Runtime) *Domain {
	if runtime.Database == nil {
		return &Domain{Workflows: workflows.NewMemory(runtime.Pagination)}
	}

	return &Domain{
		Workflows: workflows.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
