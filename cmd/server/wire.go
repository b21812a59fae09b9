//go:build wireinject

package main

import (
	"agenthub/services/agent-api/internal/domain"
	"agenthub/services/agent-api/internal/infrastructure"
	"agenthub/services/agent-api/internal/interfaces"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers"
	"agenthub/services/agent-api/internal/interfaces/httpserver/routes"

	"github.com/google/wire"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		handlers.HandlerProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

func CreateDataInitializer() (*DataInitializer, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		wire.Struct(new(DataInitializer), "*"),
	)
	return nil, nil
}
