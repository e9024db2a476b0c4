package textdb

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/internal/blob"
	"detgeo/pkg/domain"
)

const ftofGeometry = `# name | mother | description | pos | rot | color | type | dimensions | material | magfield | ncopy | pMany | exist | visible | style | sensitivity | hit_type | identifiers
root | root | world | 0*cm 0*cm 0*cm | 0*deg 0*deg 0*deg | ccffff | Box | 20*m 20*m 20*m | G4_AIR | no | 1 | 1 | 1 | 0 | 0 | no | no |

panel1a | root | panel 1a sector 1 | 0*cm 0*cm 700*cm | 0*deg 25*deg 0*deg | ff11aa5 | Box | 200*cm 100*cm 3*cm | G4_AIR | no | 1 | 1 | 1 | 1 | 0 | no | no |
paddle_1 | panel1a | paddle 1 | (1*cm, 2*cm, 3*cm) | ordered: zyx 0*deg 0*deg 90*deg | ff0000 | Box | 10*cm 3*cm 2.5*cm | scintillator | no | 1 | 1 | 1 | 1 | 1 | ftof | ftof | sector manual 1 paddle manual 1
magnet | root | yoke cadImported | 0*cm 0*cm 0*cm | 0*deg 0*deg 0*deg | 888888 | Box | 1*m 1*m 1*m | G4_Fe | no | 1 | 1 | 0 | 1 | 1 | no | no
`

const ftofMaterials = `scintillator | plastic paddles | 1.032 | 2 | C 0.9146 H 0.0854
mylar | wrapping | 1.4*g/cm3 | 3 | G4_H 0.04 G4_C 0.62 G4_O 0.34 | 1.0*eV 2.0*eV
`

func TestParseVolumes(t *testing.T) {
	specs, err := ParseVolumes(strings.NewReader(ftofGeometry))
	require.NoError(t, err)
	require.Len(t, specs, 4)

	root := specs[0]
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, []float64{20000, 20000, 20000}, root.Dimensions)
	assert.True(t, root.Rotation.IsIdentity())
	assert.False(t, root.Vis.Visible)

	panel := specs[1]
	assert.Equal(t, domain.Vec3(0, 0, 7000), panel.Position)
	assert.True(t, panel.Rotation.ApproxEqual(domain.RotationY(25*math.Pi/180), 1e-12))
	assert.Equal(t, domain.StyleWireframe, panel.Vis.Style)

	paddle := specs[2]
	assert.Equal(t, domain.Vec3(10, 20, 30), paddle.Position)
	assert.True(t, paddle.Rotation.ApproxEqual(domain.RotationZ(math.Pi/2), 1e-12))
	assert.Equal(t, domain.StyleSolid, paddle.Vis.Style)
	assert.True(t, paddle.Sensitive())
	assert.Equal(t, 1, paddle.CopyNumber)
	if diff := cmp.Diff([]domain.Identifier{{Name: "sector", Rule: "manual", ID: 1}, {Name: "paddle", Rule: "manual", ID: 1}}, paddle.Identity); diff != "" {
		t.Fatalf("identity mismatch (-want +got):\n%s", diff)
	}

	magnet := specs[3]
	assert.False(t, magnet.Active)
	assert.True(t, magnet.Imported())
	assert.Empty(t, magnet.Identity)
}

func TestParseRotationOrder(t *testing.T) {
	xyz, err := ParseRotation("30*deg 45*deg 60*deg")
	require.NoError(t, err)
	want := domain.Identity().RotateX(math.Pi / 6).RotateY(math.Pi / 4).RotateZ(math.Pi / 3)
	assert.True(t, xyz.ApproxEqual(want, 1e-12))

	zyx, err := ParseRotation("ordered:zyx 30*deg 45*deg 60*deg")
	require.NoError(t, err)
	want = domain.Identity().RotateZ(math.Pi / 3).RotateY(math.Pi / 4).RotateX(math.Pi / 6)
	assert.True(t, zyx.ApproxEqual(want, 1e-12))
	assert.False(t, zyx.ApproxEqual(xyz, 1e-6))

	for _, bad := range []string{"1*deg 2*deg", "ordered: xxy 1 2 3", "1*deg 2*parsec 3*deg"} {
		_, err := ParseRotation(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseVolumesReportsLine(t *testing.T) {
	bad := "root | root | w | 0 0 0 | 0 0 0 | fff | Box | 1 1 1 | G4_AIR | no | 1 | 1 | 1 | 1 | 1 | no | no\n" +
		"det | root | d | 0 0 | 0 0 0 | fff | Box | 1 1 1 | G4_AIR | no | 1 | 1 | 1 | 1 | 1 | no | no\n"
	_, err := ParseVolumes(strings.NewReader(bad))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "position", pe.Field)

	_, err = ParseVolumes(strings.NewReader("root | root | too short\n"))
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)

	_, err = ParseIdentity("sector manual")
	assert.Error(t, err)
}

func TestParseMaterials(t *testing.T) {
	recs, err := ParseMaterials(strings.NewReader(ftofMaterials))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.MaterialRecord{
		Name: "scintillator", Description: "plastic paddles", Density: 1.032,
		Components: []domain.MaterialConstituent{{Name: "C", Fraction: 0.9146}, {Name: "H", Fraction: 0.0854}},
	}, recs[0])
	assert.InDelta(t, 1.4, recs[1].Density, 1e-12)
	assert.Len(t, recs[1].Components, 3)

	_, err = ParseMaterials(strings.NewReader("bad | x | 1 | 2 | C 0.5\n"))
	assert.Error(t, err)
}

func seed(t *testing.T, files map[string]string) *Store {
	t.Helper()
	blobs := blob.NewMemory()
	for key, body := range files {
		_, err := blobs.Put(context.Background(), key, bytes.NewBufferString(body), blob.PutOptions{ContentType: "text/plain"})
		require.NoError(t, err)
	}
	return NewStore(blobs)
}

func TestStoreLoadsFromBlobs(t *testing.T) {
	ctx := context.Background()
	store := seed(t, map[string]string{
		"ftof__geometry_original.txt":  ftofGeometry,
		"ftof__materials_original.txt": ftofMaterials,
		"dc__geometry_default.txt":     ftofGeometry,
		"notes.md":                     "not a table",
	})

	specs, err := store.LoadVolumes(ctx, "ftof", "main: original")
	require.NoError(t, err)
	assert.Len(t, specs, 4)

	mats, err := store.LoadMaterials(ctx, "ftof", "original")
	require.NoError(t, err)
	assert.Len(t, mats, 2)

	mats, err = store.LoadMaterials(ctx, "dc", "default")
	require.NoError(t, err)
	assert.Empty(t, mats)

	_, err = store.LoadVolumes(ctx, "ftof", "rga")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	geos, err := store.Geometries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Geometry{{System: "dc", Variation: "default"}, {System: "ftof", Variation: "original"}}, geos)

	assert.ErrorIs(t, store.SaveVolumes(ctx, "ftof", "original", nil), domain.ErrUnsupported)
	assert.ErrorIs(t, store.SaveMaterials(ctx, "ftof", "original", nil), domain.ErrUnsupported)
	assert.NoError(t, store.Close())
}

func TestStoreWrapsParseErrors(t *testing.T) {
	store := seed(t, map[string]string{"bad__geometry_default.txt": "x | root | short\n"})
	_, err := store.LoadVolumes(context.Background(), "bad", "default")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "bad__geometry_default.txt")
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "ftof__geometry_default.txt", GeometryFile("ftof", "main:default"))
	assert.Equal(t, "ftof__materials_rga.txt", MaterialsFile("ftof", " rga "))
}
