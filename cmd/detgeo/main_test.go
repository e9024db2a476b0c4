package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"detgeo/internal/config"
	"detgeo/internal/textdb"
	"detgeo/pkg/domain"
)

const sampleGeometry = `root | root | world | 0*cm 0*cm 0*cm | 0*deg 0*deg 0*deg | ccffff | Box | 10*m 10*m 10*m | G4_AIR | no | 1 | 1 | 1 | 0 | 0 | no | no |
panel | root | ftof panel | 0*cm 0*cm 100*cm | 0*deg 0*deg 0*deg | ff11aa | Box | 50*cm 50*cm 5*cm | G4_AIR | no | 1 | 1 | 1 | 1 | 0 | no | no |
paddle | panel | ftof paddle | 10*cm 0*cm 0*cm | 0*deg 0*deg 0*deg | ff0000 | Box | 10*cm 3*cm 2*cm | scintillator | no | 1 | 1 | 1 | 1 | 1 | ftof | ftof | paddle manual 1
`

const sampleMaterials = `scintillator | plastic | 1.032*g/cm3 | 2 | G4_C 0.91 G4_H 0.09
`

type fixture struct {
	dir        string
	configPath string
}

func newFixture(t *testing.T, storage string) fixture {
	t.Helper()
	dir := t.TempDir()
	tables := filepath.Join(dir, "tables")
	require.NoError(t, os.MkdirAll(tables, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tables, textdb.GeometryFile("ftof", "default")), []byte(sampleGeometry), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tables, textdb.MaterialsFile("ftof", "default")), []byte(sampleMaterials), 0o644))

	cfg := config.DefaultConfig()
	cfg.Storage.Driver = storage
	cfg.Storage.SQLitePath = filepath.Join(dir, "geo.db")
	cfg.Blob.Driver = "fs"
	cfg.Blob.FSRoot = tables
	path := filepath.Join(dir, "detgeo.yaml")
	require.NoError(t, cfg.Save(path))
	return fixture{dir: dir, configPath: path}
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{logger: zap.NewNop()}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", f.configPath))
	err := root.Execute()
	return out.String(), err
}

func TestBuildFromTextTables(t *testing.T) {
	f := newFixture(t, "text")
	metrics := filepath.Join(f.dir, "metrics.prom")
	traces := filepath.Join(f.dir, "trace.jsonl")

	out, err := f.run(t, "build", "ftof", "default", "--metrics-file", metrics, "--trace-file", traces)
	require.NoError(t, err)
	assert.Contains(t, out, "ftof/default: 3 volumes")
	assert.Contains(t, out, "solid    built 3, skipped 0")
	assert.Contains(t, out, "physical built 3, skipped 0")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `detgeo_volumes_total{outcome="built",pass="solid"} 3`)

	raw, err := os.ReadFile(traces)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "build.solid", entry["operation"])
}

func TestBuildUsesConfiguredGeometry(t *testing.T) {
	f := newFixture(t, "text")
	cfg, err := config.Load(f.configPath)
	require.NoError(t, err)
	cfg.Geometry.System = "ftof"
	require.NoError(t, cfg.Save(f.configPath))

	out, err := f.run(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "ftof/default: 3 volumes")
}

func TestBuildWithoutSystem(t *testing.T) {
	f := newFixture(t, "text")
	_, err := f.run(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no geometry system")
}

func TestBuildMissingGeometry(t *testing.T) {
	f := newFixture(t, "text")
	_, err := f.run(t, "build", "dc", "default")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildFailsOnMissingMaterial(t *testing.T) {
	f := newFixture(t, "text")
	tables := filepath.Join(f.dir, "tables")
	require.NoError(t, os.Remove(filepath.Join(tables, textdb.MaterialsFile("ftof", "default"))))

	_, err := f.run(t, "build", "ftof", "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scintillator")

	out, err := f.run(t, "build", "ftof", "default", "--default-material", "G4_AIR")
	require.NoError(t, err)
	assert.Contains(t, out, "logical  built 3, skipped 0")
}

func TestShowDescribesVolumes(t *testing.T) {
	f := newFixture(t, "text")
	out, err := f.run(t, "show", "ftof", "default", "paddle")
	require.NoError(t, err)
	assert.Contains(t, out, "paddle")
	assert.Contains(t, out, "   Position (cm):  (10,0,0)\n")
	assert.NotContains(t, out, "Detector name:  panel")

	_, err = f.run(t, "show", "ftof", "default", "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume nothing not found")
}

func TestImportThenBuildFromSQLite(t *testing.T) {
	f := newFixture(t, "sqlite")
	out, err := f.run(t, "import", "--all")
	require.NoError(t, err)
	assert.Equal(t, "ftof/default: 3 volumes, 1 materials\n", out)

	require.NoError(t, os.RemoveAll(filepath.Join(f.dir, "tables")))
	out, err = f.run(t, "build", "ftof", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "ftof/default: 3 volumes")
}

func TestImportRejectsTextStorage(t *testing.T) {
	f := newFixture(t, "text")
	_, err := f.run(t, "import", "ftof", "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writable storage driver")
}

func TestInvalidConfig(t *testing.T) {
	f := newFixture(t, "nosuch")
	_, err := f.run(t, "build", "ftof")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = newLogger(config.LoggingConfig{Level: "warn", Format: "console"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud", Format: "json"}, false)
	assert.Error(t, err)
}

func TestMainExitsOnError(t *testing.T) {
	f := newFixture(t, "nosuch")
	var code int
	restoreExit, restoreArgs := exitFunc, os.Args
	t.Cleanup(func() { exitFunc, os.Args = restoreExit, restoreArgs })
	exitFunc = func(c int) { code = c }
	os.Args = []string{"detgeo", "build", "ftof", "--config", f.configPath}

	main()
	assert.Equal(t, 1, code)
}
