//go:build tools
// +build tools

// Package tools records build-time tool dependencies so go.mod pins
// their versions.
//
// Regeneration commands, run from the service root:
//
//	wire ./cmd/server
//	swag init -g cmd/server/server.go -o docs/swagger
//	go run ./cmd/gormgen
package tools

import (
	_ "github.com/google/wire/cmd/wire"
	_ "github.com/swaggo/swag/cmd/swag"
	_ "gorm.io/gen"
)

//go:generate go install github.com/google/wire/cmd/wire
//go:generate go install github.com/swaggo/swag/cmd/swag
