package api

import (
	"github.com/digital-directions/stagegate/internal/golive"
	"github.com/digital-directions/stagegate/internal/mapping"
	"github.com/digital-directions/stagegate/internal/notify"
	"github.com/digital-directions/stagegate/internal/projects"
	"github.com/digital-directions/stagegate/internal/signoffs"
	"github.com/digital-directions/stagegate/internal/stages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Projects projects.System
	Stages   stages.System
	Signoffs signoffs.System
	GoLive   golive.System
	Mapping  mapping.System
	Notify   notify.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	notifySystem := notify.New(db, runtime.Logger, runtime.Pagination)

	projectsSystem := projects.New(db, notifySystem, runtime.Logger, runtime.Pagination)

	stagesSystem := stages.New(
		db,
		notifySystem,
		runtime.Logger,
		runtime.Pagination,
	)

	signoffsSystem := signoffs.New(
		db,
		runtime.Storage,
		notifySystem,
		runtime.Logger,
	)

	goliveSystem := golive.New(db, notifySystem, runtime.Logger)

	mappingSystem := mapping.New(
		db,
		runtime.Source,
		runtime.Storage,
		notifySystem,
		runtime.Logger,
	)

	return &Domain{
		Projects: projectsSystem,
		Stages:   stagesSystem,
		Signoffs: signoffsSystem,
		GoLive:   goliveSystem,
		Mapping:  mappingSystem,
		Notify:   notifySystem,
	}
}
