package core

import (
	"strings"

	"detgeo/pkg/domain"
)

// Type descriptor prefixes. The operand text after a prefix is read from a fixed offset equal to
// the prefix length and is capped at maxOperandText bytes.
const (
	prefixCopy      = "CopyOf"
	prefixOperation = "Operation:"
	prefixReplica   = "ReplicaOf:"
	markerReplica   = "ReplicaOf"

	maxOperandText = 190

	modifierTranslationFirst = '~'
	modifierAbsolute         = '@'
)

// DescriptorKind tags the variant held by a Descriptor.
type DescriptorKind int

const (
	KindPrimitive DescriptorKind = iota
	KindImported
	KindReplica
	KindCopy
	KindOperation
)

func (k DescriptorKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindImported:
		return "imported"
	case KindReplica:
		return "replica"
	case KindCopy:
		return "copy"
	case KindOperation:
		return "operation"
	default:
		return "unknown"
	}
}

// PrimitiveDescriptor names a shape kind built by the shape factory.
type PrimitiveDescriptor struct {
	Kind string
}

// CopyDescriptor aliases the logical volume of Original.
type CopyDescriptor struct {
	Original string
}

// ReplicaDescriptor replicates the logical volume of Template.
type ReplicaDescriptor struct {
	Template string
}

// OperationDescriptor combines First (base) and Second (tool).
type OperationDescriptor struct {
	Op     BooleanOp
	First  string
	Second string
	Mode   CombinationMode
	// Text is the operand text the operator was searched in, after modifier stripping.
	Text string
}

// Descriptor is the parsed form of a volume's type string. Exactly one of the variant fields
// matching Kind is set.
type Descriptor struct {
	Kind      DescriptorKind
	Primitive PrimitiveDescriptor
	Copy      CopyDescriptor
	Replica   ReplicaDescriptor
	Operation OperationDescriptor
}

// ParseDescriptor classifies a volume by its import flags and type string. Priority is import
// flags, then ReplicaOf anywhere, then CopyOf and Operation: at position 0, then primitive.
// The Type field of the VolumeSpec is never modified.
func ParseDescriptor(spec VolumeSpec) (Descriptor, error) {
	typ := spec.Type
	switch {
	case spec.Imported():
		return Descriptor{Kind: KindImported}, nil
	case strings.Contains(typ, markerReplica):
		return Descriptor{Kind: KindReplica, Replica: ReplicaDescriptor{
			Template: strings.TrimSpace(operandText(typ, len(prefixReplica))),
		}}, nil
	case strings.HasPrefix(typ, prefixCopy):
		return Descriptor{Kind: KindCopy, Copy: CopyDescriptor{
			Original: strings.TrimSpace(operandText(typ, len(prefixCopy))),
		}}, nil
	case strings.HasPrefix(typ, prefixOperation):
		op, err := parseOperation(spec.Name, typ)
		if err != nil {
			return Descriptor{}, err
		}
		return Descriptor{Kind: KindOperation, Operation: op}, nil
	default:
		kind := typ
		if fields := strings.Fields(typ); len(fields) > 0 {
			kind = fields[0]
		}
		return Descriptor{Kind: KindPrimitive, Primitive: PrimitiveDescriptor{Kind: kind}}, nil
	}
}

func parseOperation(volume, typ string) (OperationDescriptor, error) {
	var mode CombinationMode
	stripped := []byte(typ)
	if i := strings.IndexByte(typ, modifierTranslationFirst); i >= 0 {
		mode |= TranslationFirst
		stripped[i] = ' '
	}
	if i := strings.IndexByte(typ, modifierAbsolute); i >= 0 {
		mode |= Absolute
		stripped[i] = ' '
	}
	text := operandText(string(stripped), len(prefixOperation))

	at := strings.IndexAny(text, "+-*")
	if at < 0 {
		return OperationDescriptor{}, domain.ErrMalformedOperation{Volume: volume, Token: text}
	}
	var op BooleanOp
	switch text[at] {
	case '+':
		op = OpUnion
	case '-':
		op = OpSubtraction
	default:
		op = OpIntersection
	}
	return OperationDescriptor{
		Op:     op,
		First:  strings.TrimSpace(text[:at]),
		Second: strings.TrimSpace(text[at+1:]),
		Mode:   mode,
		Text:   text,
	}, nil
}

// operandText returns at most maxOperandText bytes of s starting at offset.
func operandText(s string, offset int) string {
	if offset >= len(s) {
		return ""
	}
	s = s[offset:]
	if len(s) > maxOperandText {
		s = s[:maxOperandText]
	}
	return s
}
