//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/scenesync/scenesync/internal/core/observability/log"
)

func newInfoLogger() *log.Logger {
	return log.New(log.LevelInfo)
}

func ProvideLogger() *log.Logger {
	wire.Build(newInfoLogger)
	return nil
}
