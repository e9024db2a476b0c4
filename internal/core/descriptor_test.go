package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/pkg/domain"
)

func TestParseDescriptorKinds(t *testing.T) {
	cases := []struct {
		name string
		spec VolumeSpec
		want Descriptor
	}{
		{
			name: "primitive",
			spec: VolumeSpec{Name: "paddle", Type: "Box"},
			want: Descriptor{Kind: KindPrimitive, Primitive: PrimitiveDescriptor{Kind: "Box"}},
		},
		{
			name: "copy",
			spec: VolumeSpec{Name: "paddle2", Type: "CopyOfpaddle"},
			want: Descriptor{Kind: KindCopy, Copy: CopyDescriptor{Original: "paddle"}},
		},
		{
			name: "copy with space",
			spec: VolumeSpec{Name: "paddle3", Type: "CopyOf paddle"},
			want: Descriptor{Kind: KindCopy, Copy: CopyDescriptor{Original: "paddle"}},
		},
		{
			name: "replica",
			spec: VolumeSpec{Name: "strips", Type: "ReplicaOf: strip"},
			want: Descriptor{Kind: KindReplica, Replica: ReplicaDescriptor{Template: "strip"}},
		},
		{
			name: "imported wins over type",
			spec: VolumeSpec{Name: "cad", Type: "Operation: A + B", ImportFlags: domain.ImportCAD},
			want: Descriptor{Kind: KindImported},
		},
		{
			name: "replica marker anywhere wins over copy",
			spec: VolumeSpec{Name: "odd", Type: "CopyOf ReplicaOf x"},
			want: Descriptor{Kind: KindReplica, Replica: ReplicaDescriptor{Template: "licaOf x"}},
		},
		{
			name: "copy prefix must be at position 0",
			spec: VolumeSpec{Name: "odd", Type: " CopyOf x"},
			want: Descriptor{Kind: KindPrimitive, Primitive: PrimitiveDescriptor{Kind: "CopyOf"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDescriptor(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDescriptorOperations(t *testing.T) {
	cases := []struct {
		typ    string
		op     BooleanOp
		first  string
		second string
		mode   CombinationMode
	}{
		{"Operation: A + B", OpUnion, "A", "B", 0},
		{"Operation: A - B", OpSubtraction, "A", "B", 0},
		{"Operation: A * B", OpIntersection, "A", "B", 0},
		{"Operation:~ A + B", OpUnion, "A", "B", TranslationFirst},
		{"Operation:@ A - B", OpSubtraction, "A", "B", Absolute},
		{"Operation:~@ A * B", OpIntersection, "A", "B", TranslationFirst | Absolute},
		{"Operation: A - B + C", OpSubtraction, "A", "B + C", 0},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			spec := VolumeSpec{Name: "result", Type: tc.typ}
			got, err := ParseDescriptor(spec)
			require.NoError(t, err)
			require.Equal(t, KindOperation, got.Kind)
			assert.Equal(t, tc.op, got.Operation.Op)
			assert.Equal(t, tc.first, got.Operation.First)
			assert.Equal(t, tc.second, got.Operation.Second)
			assert.Equal(t, tc.mode, got.Operation.Mode)
			assert.Equal(t, tc.typ, spec.Type, "type string is not modified")
		})
	}
}

func TestParseDescriptorMalformedOperation(t *testing.T) {
	_, err := ParseDescriptor(VolumeSpec{Name: "bad", Type: "Operation: A B"})
	var malformed domain.ErrMalformedOperation
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "bad", malformed.Volume)
	assert.True(t, errors.Is(err, domain.ErrFatal))
}

func TestParseDescriptorLeadingOperatorLeavesEmptyOperand(t *testing.T) {
	d, err := ParseDescriptor(VolumeSpec{Name: "r", Type: "Operation:+ A + B"})
	require.NoError(t, err)
	assert.Equal(t, "", d.Operation.First)
	assert.Equal(t, "A + B", d.Operation.Second)
}

func TestParseDescriptorCapsOperandText(t *testing.T) {
	long := strings.Repeat("a", 300)
	d, err := ParseDescriptor(VolumeSpec{Name: "c", Type: "CopyOf" + long})
	require.NoError(t, err)
	assert.Len(t, d.Copy.Original, maxOperandText)

	_, err = ParseDescriptor(VolumeSpec{Name: "o", Type: "Operation:" + long + "+b"})
	assert.Error(t, err, "operator beyond the operand window is not seen")
}

func TestDescriptorKindString(t *testing.T) {
	assert.Equal(t, "operation", KindOperation.String())
	assert.Equal(t, "unknown", DescriptorKind(42).String())
}
