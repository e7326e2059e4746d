// Package codec turns loaded bytes into typed cache values.
package codec

import (
	"fmt"

	protov1 "github.com/golang/protobuf/proto"
	"google.golang.org/protobuf/proto"
)

type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(b []byte) (V, error)
}

var (
	_ Codec[[]byte]        = Bytes{}
	_ Codec[proto.Message] = Proto[proto.Message]{}
)

// Bytes copies data through unchanged.
type Bytes struct{}

func (Bytes) Marshal(v []byte) ([]byte, error) {
	return clone(v), nil
}

func (Bytes) Unmarshal(b []byte) ([]byte, error) {
	return clone(b), nil
}

// Proto encodes protobuf messages in wire format.
type Proto[M proto.Message] struct {
	New func() M
}

func NewProto[M proto.Message](newMessage func() M) Proto[M] {
	return Proto[M]{New: newMessage}
}

func (p Proto[M]) Marshal(m M) ([]byte, error) {
	b, err := proto.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %T: %w", m, err)
	}
	return b, nil
}

func (p Proto[M]) Unmarshal(b []byte) (M, error) {
	m := p.New()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero M
		return zero, fmt.Errorf("codec: unmarshal %T: %w", m, err)
	}
	return m, nil
}

// LegacyProto is Proto for messages generated against the APIv1
// github.com/golang/protobuf runtime.
type LegacyProto[M protov1.Message] struct {
	New func() M
}

func NewLegacyProto[M protov1.Message](newMessage func() M) LegacyProto[M] {
	return LegacyProto[M]{New: newMessage}
}

func (p LegacyProto[M]) Marshal(m M) ([]byte, error) {
	b, err := protov1.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %T: %w", m, err)
	}
	return b, nil
}

func (p LegacyProto[M]) Unmarshal(b []byte) (M, error) {
	m := p.New()
	if err := protov1.Unmarshal(b, m); err != nil {
		var zero M
		return zero, fmt.Errorf("codec: unmarshal %T: %w", m, err)
	}
	return m, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
