package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownService - сервис с таким именем не зарегистрирован
var ErrUnknownService = errors.New("unknown service")

// Registry - набор сервисов, создается один раз в main
type Registry struct {
	mu       sync.RWMutex
	services map[string]HutService
}

// NewRegistry создает реестр с сервисами
func NewRegistry(services ...HutService) *Registry {
	r := &Registry{services: make(map[string]HutService, len(services))}
	for _, s := range services {
		r.Register(s)
	}
	return r
}

// Register добавляет или заменяет сервис
func (r *Registry) Register(s HutService) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.Name()] = s
}

// Get возвращает сервис по имени
func (r *Registry) Get(name string) (HutService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	return s, nil
}

// Names возвращает отсортированные имена сервисов
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info - описание сервиса для API
type Info struct {
	Name         string       `json:"name"`
	Capabilities Capabilities `json:"capabilities"`
}

// List возвращает описание всех сервисов
func (r *Registry) List() []Info {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Info, 0, len(names))
	for _, name := range names {
		res = append(res, Info{Name: name, Capabilities: r.services[name].Capabilities()})
	}
	return res
}
