package textdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"detgeo/internal/blob"
	"detgeo/pkg/domain"
)

const (
	geometryInfix  = "__geometry_"
	materialsInfix = "__materials_"
	fileSuffix     = ".txt"
	mainVariation  = "main:"
)

var _ domain.VolumeStore = (*Store)(nil)

// Variation strips the "main:" marker of a main variation.
func Variation(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, mainVariation) {
		return strings.TrimSpace(strings.TrimPrefix(v, mainVariation))
	}
	return v
}

// GeometryFile returns the blob key of a system's geometry table.
func GeometryFile(system, variation string) string {
	return system + geometryInfix + Variation(variation) + fileSuffix
}

// MaterialsFile returns the blob key of a system's material table.
func MaterialsFile(system, variation string) string {
	return system + materialsInfix + Variation(variation) + fileSuffix
}

// Geometry names one system/variation pair found in a blob store.
type Geometry struct {
	System    string
	Variation string
}

// Store reads geometry tables from a blob store. It is read-only.
type Store struct {
	blobs blob.Store
}

// NewStore returns a store reading from blobs.
func NewStore(blobs blob.Store) *Store {
	return &Store{blobs: blobs}
}

// Blobs returns the underlying blob store.
func (s *Store) Blobs() blob.Store { return s.blobs }

// Geometries lists the geometry tables present, sorted by system then variation.
func (s *Store) Geometries(ctx context.Context) ([]Geometry, error) {
	infos, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list geometry files: %w", err)
	}
	var out []Geometry
	for _, info := range infos {
		name := strings.TrimSuffix(info.Key, fileSuffix)
		if name == info.Key {
			continue
		}
		system, variation, ok := strings.Cut(name, geometryInfix)
		if !ok || system == "" || variation == "" {
			continue
		}
		out = append(out, Geometry{System: system, Variation: variation})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].Variation < out[j].Variation
	})
	return out, nil
}

func (s *Store) LoadVolumes(ctx context.Context, system, variation string) ([]domain.VolumeSpec, error) {
	key := GeometryFile(system, variation)
	var out []domain.VolumeSpec
	err := s.read(ctx, key, func(r io.Reader) (err error) {
		out, err = ParseVolumes(r)
		return err
	})
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", domain.GeometryKey(system, Variation(variation)), domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func (s *Store) LoadMaterials(ctx context.Context, system, variation string) ([]domain.MaterialRecord, error) {
	key := MaterialsFile(system, variation)
	out := []domain.MaterialRecord{}
	err := s.read(ctx, key, func(r io.Reader) error {
		recs, err := ParseMaterials(r)
		out = append(out, recs...)
		return err
	})
	if errors.Is(err, blob.ErrNotFound) {
		return []domain.MaterialRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

// SaveVolumes is not supported; tables are produced by the detector scripts.
func (s *Store) SaveVolumes(context.Context, string, string, []domain.VolumeSpec) error {
	return fmt.Errorf("textdb: save volumes: %w", domain.ErrUnsupported)
}

// SaveMaterials is not supported.
func (s *Store) SaveMaterials(context.Context, string, string, []domain.MaterialRecord) error {
	return fmt.Errorf("textdb: save materials: %w", domain.ErrUnsupported)
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) read(ctx context.Context, key string, fn func(io.Reader) error) error {
	_, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return fn(rc)
}
