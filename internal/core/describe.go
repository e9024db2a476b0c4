package core

import (
	"fmt"
	"io"
	"strings"

	"detgeo/internal/shapes"
	"detgeo/internal/units"
	"detgeo/pkg/domain"
)

// Describe writes the resolved state of v: its configured attributes, labelled dimensions when
// the shape kind is known and, once built, volume, surface area and mass.
func Describe(w io.Writer, v *Volume) error {
	var b strings.Builder
	line := func(label, format string, args ...any) {
		fmt.Fprintf(&b, "   %s:  %s\n", label, fmt.Sprintf(format, args...))
	}

	b.WriteString("\n")
	line("Detector name", "%s  -  %s", v.Name, v.Description)
	line("Mother", "%s", v.Mother)
	line("Position (cm)", "%s", v.Position.Scale(1/units.Centimetre))
	line("Rotation", "%s", v.Rotation)
	line("Color", "%s", v.Vis.Color)
	line("Type", "%s", v.Type)
	if !strings.HasPrefix(v.Type, prefixCopy) {
		kind := v.Type
		if fields := strings.Fields(kind); len(fields) > 0 {
			kind = fields[0]
		}
		labels := shapes.DimensionLabels(kind)
		if len(labels) == len(v.Dimensions) {
			for i, l := range labels {
				line(l.Name, "%s", units.Best(v.Dimensions[i], l.Category))
			}
		} else {
			for i, d := range v.Dimensions {
				line(fmt.Sprintf("Size %d", i+1), "%g", d)
			}
		}
	}
	material := v.Material
	if v.EffectiveMaterial != "" {
		material = v.EffectiveMaterial
	}
	line("Material", "%s", material)
	line("Magnetic Field", "%s", v.MagField)
	line("Copy Number", "%d", v.CopyNumber)
	line("Activated", "%s", yesNo(v.Active))
	line("Visible", "%s", yesNo(v.Vis.Visible))
	style := "wireframe"
	if v.Vis.Style == domain.StyleSolid {
		style = "solid"
	}
	line("Style", "%s", style)
	line("Sensitivity", "%s", v.Sensitivity)
	if v.Sensitive() {
		line("hitType", "%s", v.HitType)
	}
	for _, id := range v.Identity {
		line("Identifier", "%s %s %d", id.Name, id.Rule, id.ID)
	}

	solid := v.Solid
	if solid == nil && v.Logical != nil {
		solid = v.Logical.Solid
	}
	if solid != nil {
		line("Volume", "%s", units.Best(solid.CubicVolume(), units.Volume))
		line("Surface Area", "%s", units.Best(solid.SurfaceArea(), units.Surface))
	}
	if v.Logical != nil {
		line("Mass", "%s", units.Best(v.Logical.Mass(), units.Mass))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
