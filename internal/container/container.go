// Package container wires the application with samber/do.
package container

import (
	"github.com/samber/do"
)

// New returns an injector with every server package registered. Services are built on first invoke.
func New(options *Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	PostgresPackage(injector)
	RedisPackage(injector)
	RepositoryPackage(injector)
	MetricsPackage(injector)
	ServicePackage(injector)
	BarcodePackage(injector)
	PublisherPackage(injector)
	RateLimitPackage(injector)
	SchedulerPackage(injector)
	HTTPPackage(injector)

	return injector
}

// NewConsumer returns an injector for the event consumer process.
func NewConsumer(options *Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	ConsumerGroupPackage(injector)

	return injector
}
