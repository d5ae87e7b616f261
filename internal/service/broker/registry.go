package broker

import (
	"fmt"
	"sort"

	"ordergateway/internal/entity"
)

// Registry maps broker names to adapter instances. It is populated
// during bootstrap and read-only afterwards, so lookups need no lock.
type Registry struct {
	brokers map[entity.BrokerName]entity.Broker
}

func NewRegistry() *Registry {
	return &Registry{
		brokers: make(map[entity.BrokerName]entity.Broker),
	}
}

func (r *Registry) Register(name entity.BrokerName, b entity.Broker) {
	r.brokers[name] = b
}

func (r *Registry) Resolve(name string) (entity.Broker, error) {
	b, ok := r.brokers[entity.BrokerName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBroker, name)
	}

	return b, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.brokers))
	for name := range r.brokers {
		names = append(names, string(name))
	}

	sort.Strings(names)

	return names
}
