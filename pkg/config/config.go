// Package config exposes the daemon's configuration lifecycle: resolving
// the values on disk, writing a default file and removing it again.
package config

import (
	"github.com/tauraamui/offscreend/internal/config"
	"github.com/tauraamui/offscreend/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
