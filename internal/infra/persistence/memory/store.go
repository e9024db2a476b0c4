// Package memory implements domain.VolumeStore in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"detgeo/pkg/domain"
)

var _ domain.VolumeStore = (*Store)(nil)

// Store keeps geometries keyed by system and variation. Every read and write copies records.
type Store struct {
	mu        sync.RWMutex
	volumes   map[string][]domain.VolumeSpec
	materials map[string][]domain.MaterialRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		volumes:   make(map[string][]domain.VolumeSpec),
		materials: make(map[string][]domain.MaterialRecord),
	}
}

// LoadVolumes returns the volumes of a geometry.
func (s *Store) LoadVolumes(_ context.Context, system, variation string) ([]domain.VolumeSpec, error) {
	key := domain.GeometryKey(system, variation)
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.volumes[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return CloneVolumes(stored), nil
}

// SaveVolumes replaces the volumes of a geometry.
func (s *Store) SaveVolumes(_ context.Context, system, variation string, volumes []domain.VolumeSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes[domain.GeometryKey(system, variation)] = CloneVolumes(volumes)
	return nil
}

// LoadMaterials returns the materials shipped with a geometry.
func (s *Store) LoadMaterials(_ context.Context, system, variation string) ([]domain.MaterialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneMaterials(s.materials[domain.GeometryKey(system, variation)]), nil
}

// SaveMaterials replaces the materials of a geometry.
func (s *Store) SaveMaterials(_ context.Context, system, variation string, materials []domain.MaterialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[domain.GeometryKey(system, variation)] = CloneMaterials(materials)
	return nil
}

// Geometries lists the stored system/variation keys in lexical order.
func (s *Store) Geometries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.volumes))
	for key := range s.volumes {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Close implements domain.VolumeStore.
func (s *Store) Close() error { return nil }

// CloneVolumes deep-copies a volume list.
func CloneVolumes(in []domain.VolumeSpec) []domain.VolumeSpec {
	out := make([]domain.VolumeSpec, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}

// CloneMaterials deep-copies a material list.
func CloneMaterials(in []domain.MaterialRecord) []domain.MaterialRecord {
	out := make([]domain.MaterialRecord, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
