// Package textdb reads gemc-style pipe-delimited geometry and material tables.
package textdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"detgeo/internal/units"
	"detgeo/pkg/domain"
)

// Geometry row columns.
const (
	colName = iota
	colMother
	colDescription
	colPosition
	colRotation
	colColor
	colType
	colDimensions
	colMaterial
	colMagField
	colCopyNumber
	colPMany
	colExist
	colVisible
	colStyle
	colSensitivity
	colHitType
	colIdentity
	geometryColumns
)

// Material row columns. Optical property columns after the components are ignored.
const (
	matName = iota
	matDescription
	matDensity
	matComponentCount
	matComponents
	materialColumns
)

// ParseError locates a malformed row.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseVolumes reads one volume per line. Blank lines and lines starting with # are skipped.
// The identity column is optional.
func ParseVolumes(r io.Reader) ([]domain.VolumeSpec, error) {
	var out []domain.VolumeSpec
	err := eachRow(r, geometryColumns-1, func(line int, cols []string) error {
		spec, err := parseVolume(cols)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = line
				return pe
			}
			return &ParseError{Line: line, Err: err}
		}
		out = append(out, spec)
		return nil
	})
	return out, err
}

func parseVolume(cols []string) (domain.VolumeSpec, error) {
	spec := domain.VolumeSpec{
		Name:        cols[colName],
		Mother:      cols[colMother],
		Description: cols[colDescription],
		Vis:         domain.VisAttributes{Color: cols[colColor]},
		Type:        cols[colType],
		Material:    cols[colMaterial],
		MagField:    cols[colMagField],
		Sensitivity: cols[colSensitivity],
		HitType:     cols[colHitType],
	}
	if spec.Name == "" {
		return spec, &ParseError{Field: "name", Err: fmt.Errorf("empty volume name")}
	}
	spec.ImportFlags = domain.ImportFlagsFromDescription(spec.Description)

	pos, err := units.ParseList(stripSeparators(cols[colPosition]))
	if err != nil {
		return spec, &ParseError{Field: "position", Err: err}
	}
	if len(pos) != 3 {
		return spec, &ParseError{Field: "position", Err: fmt.Errorf("want 3 coordinates, got %d", len(pos))}
	}
	spec.Position = domain.Vec3(pos[0], pos[1], pos[2])

	if spec.Rotation, err = ParseRotation(cols[colRotation]); err != nil {
		return spec, &ParseError{Field: "rotation", Err: err}
	}
	if spec.Dimensions, err = units.ParseList(stripSeparators(cols[colDimensions])); err != nil {
		return spec, &ParseError{Field: "dimensions", Err: err}
	}

	if spec.CopyNumber, err = atoi(cols[colCopyNumber]); err != nil {
		return spec, &ParseError{Field: "ncopy", Err: err}
	}
	if _, err = atoi(cols[colPMany]); err != nil {
		return spec, &ParseError{Field: "pMany", Err: err}
	}
	flags := []struct {
		field string
		col   int
	}{{"exist", colExist}, {"visible", colVisible}, {"style", colStyle}}
	values := make([]int, len(flags))
	for i, f := range flags {
		if values[i], err = atoi(cols[f.col]); err != nil {
			return spec, &ParseError{Field: f.field, Err: err}
		}
	}
	spec.Active = values[0] != 0
	spec.Vis.Visible = values[1] != 0
	if values[2] != 0 {
		spec.Vis.Style = domain.StyleSolid
	}

	if len(cols) > colIdentity {
		if spec.Identity, err = ParseIdentity(cols[colIdentity]); err != nil {
			return spec, &ParseError{Field: "identifiers", Err: err}
		}
	}
	return spec, nil
}

// ParseRotation reads "a b c", rotations about X, then Y, then Z, or "ordered: zyx a b c", where
// a, b and c stay the X, Y and Z angles and the axis letters give the order they are applied in.
func ParseRotation(s string) (domain.Rotation, error) {
	fields := strings.Fields(stripSeparators(s))
	order := "xyz"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "ordered:") {
		order = strings.TrimPrefix(fields[0], "ordered:")
		fields = fields[1:]
		if order == "" && len(fields) > 0 {
			order, fields = fields[0], fields[1:]
		}
		order = strings.ToLower(order)
		if len(order) != 3 || !strings.ContainsRune(order, 'x') || !strings.ContainsRune(order, 'y') || !strings.ContainsRune(order, 'z') {
			return domain.Rotation{}, fmt.Errorf("rotation order %q is not a permutation of xyz", order)
		}
	}
	if len(fields) != 3 {
		return domain.Rotation{}, fmt.Errorf("want 3 angles, got %d", len(fields))
	}
	angles := make(map[rune]float64, 3)
	for i, axis := range "xyz" {
		v, err := units.Parse(fields[i])
		if err != nil {
			return domain.Rotation{}, err
		}
		angles[axis] = v
	}
	rot := domain.Identity()
	for _, axis := range order {
		switch axis {
		case 'x':
			rot = rot.RotateX(angles['x'])
		case 'y':
			rot = rot.RotateY(angles['y'])
		case 'z':
			rot = rot.RotateZ(angles['z'])
		}
	}
	return rot, nil
}

// ParseIdentity reads "name rule id" triples, e.g. "sector manual 2 paddle manual 7".
func ParseIdentity(s string) ([]domain.Identifier, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("identifiers come in name rule id triples, got %d fields", len(fields))
	}
	out := make([]domain.Identifier, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		id, err := atoi(fields[i+2])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Identifier{Name: fields[i], Rule: fields[i+1], ID: id})
	}
	return out, nil
}

// ParseMaterials reads material rows: name, description, density (g/cm3), component count and
// "element fraction" pairs.
func ParseMaterials(r io.Reader) ([]domain.MaterialRecord, error) {
	var out []domain.MaterialRecord
	err := eachRow(r, materialColumns, func(line int, cols []string) error {
		rec := domain.MaterialRecord{Name: cols[matName], Description: cols[matDescription]}
		density, err := units.Parse(cols[matDensity])
		if err != nil {
			return &ParseError{Line: line, Field: "density", Err: err}
		}
		rec.Density = density
		count, err := atoi(cols[matComponentCount])
		if err != nil {
			return &ParseError{Line: line, Field: "ncomponents", Err: err}
		}
		fields := strings.Fields(cols[matComponents])
		if len(fields) != 2*count {
			return &ParseError{Line: line, Field: "components",
				Err: fmt.Errorf("%d components declared, %d fields given", count, len(fields))}
		}
		for i := 0; i < len(fields); i += 2 {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return &ParseError{Line: line, Field: "components", Err: err}
			}
			rec.Components = append(rec.Components, domain.MaterialConstituent{Name: fields[i], Fraction: f})
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func eachRow(r io.Reader, minColumns int, fn func(line int, cols []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Split(text, "|")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if len(cols) < minColumns {
			return &ParseError{Line: line, Err: fmt.Errorf("want at least %d columns, got %d", minColumns, len(cols))}
		}
		if err := fn(line, cols); err != nil {
			return err
		}
	}
	return sc.Err()
}

// stripSeparators blanks the characters gemc tolerates around lists: parentheses, commas and quotes.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ',', '"':
			return ' '
		}
		return r
	}, s)
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		return int(f), nil
	}
	return n, nil
}
