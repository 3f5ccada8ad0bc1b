package providers

import "sds/internal/services"

// The services package declares the narrow interfaces it consumes; these
// adapters satisfy them with the full providers so the injector can bind
// one to the other.

func NewMetricsObserver(m MetricsProviderInterface) services.MetricsObserverInterface {
	return m
}

func NewHotCache(c CacheProviderInterface) services.HotCacheInterface {
	return c
}
