//go:build wireinject
// +build wireinject

package main

import (
	"github.com/beldeveloper/app-forge/internal/app/http"
	"github.com/beldeveloper/app-forge/internal/app/identity"
	"github.com/beldeveloper/app-forge/internal/app/postgres"
	"github.com/beldeveloper/app-forge/internal/app/queue"
	"github.com/beldeveloper/app-forge/internal/app/svc"
	"github.com/google/wire"
)

func initializeContainer() (container, error) {
	wire.Build(
		postgres.NewAssembly,
		postgres.NewPlan,
		postgres.NewArtifactState,
		queue.NewBuild,
		queue.NewDeploy,
		queue.NewResults,
		identity.NewJWT,
		svc.NewTrust,
		svc.NewPlan,
		svc.NewStatus,
		svc.NewAssembly,
		http.NewHandler,
		http.NewRouter,
		newContainer,
		newWatcher,
		newPostgresConn,
		newAsynqClient,
		newDispatchConfig,
		newSigningKey,
		newAccessKey,
	)
	return container{}, nil
}
