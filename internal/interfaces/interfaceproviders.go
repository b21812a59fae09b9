package interfaces

import (
	"agenthub/services/agent-api/internal/interfaces/httpserver"

	"github.com/google/wire"
)

// InterfacesProvider wires the inbound HTTP layer.
var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
