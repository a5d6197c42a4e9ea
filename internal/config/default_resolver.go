package config

import (
	"github.com/tauraamui/offscreend/pkg/configdef"
)

func DefaultResolver() configdef.Resolver {
	return defaultResolver{}
}

func DefaultCreator() configdef.Creator {
	return defaultResolver{}
}

func DefaultDestroyer() configdef.Destroyer {
	return defaultResolver{}
}

func DefaultCreateResolver() configdef.CreateResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (d defaultResolver) Resolve() (configdef.Values, error) {
	return load()
}

func (d defaultResolver) Create() error {
	return create()
}

func (d defaultResolver) Destroy() error {
	return destroy()
}
