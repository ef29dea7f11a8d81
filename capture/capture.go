// SPDX-License-Identifier: GPL-2.0-or-later

// Package capture dumps the batches of one frame in protobuf wire format
// and reads them back.
package capture

import (
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"sectorgl/batch"
)

type Kind int32

const (
	Normal Kind = iota
	Alpha
	Flood
	Sky
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Alpha:
		return "alpha"
	case Flood:
		return "flood"
	case Sky:
		return "sky"
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

const (
	// VertexStride is the number of floats of a batch.Vertex.
	VertexStride = 8
	// SkyVertexStride is the number of floats of a batch.SkyVertex.
	SkyVertexStride = 4
)

type Batch struct {
	Kind    Kind
	Texture int
	Name    string
	Stride  int
	Data    []float32
}

// Vertices returns the number of vertices in the batch.
func (b *Batch) Vertices() int {
	if b.Stride == 0 {
		return 0
	}
	return len(b.Data) / b.Stride
}

type Frame struct {
	Level   uuid.UUID
	Tick    int
	Batches []Batch
}

// Vertices returns the number of vertices of one kind.
func (f *Frame) Vertices(k Kind) int {
	n := 0
	for i := range f.Batches {
		if f.Batches[i].Kind == k {
			n += f.Batches[i].Vertices()
		}
	}
	return n
}

// FromSet copies the batches of a pass. names may be nil.
func FromSet(level uuid.UUID, tick int, set *batch.Set, names func(handle int) string) *Frame {
	f := &Frame{Level: level, Tick: tick}
	name := func(h int) string {
		if names == nil {
			return ""
		}
		return names(h)
	}
	walls := func(k Kind, m *batch.Manager[batch.Vertex]) {
		for _, d := range m.Used() {
			b := Batch{Kind: k, Texture: d.Texture, Name: name(d.Texture), Stride: VertexStride}
			b.Data = make([]float32, 0, len(d.Vertices)*VertexStride)
			for _, v := range d.Vertices {
				b.Data = append(b.Data, v.X, v.Y, v.Z, v.PrevZ, v.U, v.V, v.LightLevel, v.Alpha)
			}
			f.Batches = append(f.Batches, b)
		}
	}
	walls(Normal, set.Normal)
	walls(Alpha, set.Alpha)
	walls(Flood, set.Flood)
	for _, d := range set.Sky.Used() {
		b := Batch{Kind: Sky, Texture: d.Texture, Name: name(d.Texture), Stride: SkyVertexStride}
		b.Data = make([]float32, 0, len(d.Vertices)*SkyVertexStride)
		for _, v := range d.Vertices {
			b.Data = append(b.Data, v.X, v.Y, v.Z, v.PrevZ)
		}
		f.Batches = append(f.Batches, b)
	}
	return f
}

const (
	batchKind    protowire.Number = 1
	batchTexture protowire.Number = 2
	batchName    protowire.Number = 3
	batchStride  protowire.Number = 4
	batchData    protowire.Number = 5

	frameLevel   protowire.Number = 1
	frameTick    protowire.Number = 2
	frameBatches protowire.Number = 3
)

func appendBatch(b []byte, bt *Batch) []byte {
	if bt.Kind != Normal {
		b = protowire.AppendTag(b, batchKind, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(bt.Kind))
	}
	b = protowire.AppendTag(b, batchTexture, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(bt.Texture)))
	if bt.Name != "" {
		b = protowire.AppendTag(b, batchName, protowire.BytesType)
		b = protowire.AppendString(b, bt.Name)
	}
	b = protowire.AppendTag(b, batchStride, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(bt.Stride))
	if len(bt.Data) > 0 {
		b = protowire.AppendTag(b, batchData, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(len(bt.Data)*4))
		for _, v := range bt.Data {
			b = protowire.AppendFixed32(b, math.Float32bits(v))
		}
	}
	return b
}

// Marshal encodes the frame.
func (f *Frame) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, frameLevel, protowire.BytesType)
	b = protowire.AppendBytes(b, f.Level[:])
	b = protowire.AppendTag(b, frameTick, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(f.Tick)))
	var buf []byte
	for i := range f.Batches {
		buf = appendBatch(buf[:0], &f.Batches[i])
		b = protowire.AppendTag(b, frameBatches, protowire.BytesType)
		b = protowire.AppendBytes(b, buf)
	}
	return b
}

func consumeBatch(b []byte) (Batch, error) {
	var bt Batch
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return bt, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == batchKind && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			bt.Kind = Kind(v)
			b = b[n:]
		case num == batchTexture && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			bt.Texture = int(int64(v))
			b = b[n:]
		case num == batchName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			bt.Name = v
			b = b[n:]
		case num == batchStride && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			bt.Stride = int(v)
			b = b[n:]
		case num == batchData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			if len(v)%4 != 0 {
				return bt, errors.Errorf("packed floats of %d bytes", len(v))
			}
			for len(v) > 0 {
				f, m := protowire.ConsumeFixed32(v)
				if m < 0 {
					return bt, protowire.ParseError(m)
				}
				bt.Data = append(bt.Data, math.Float32frombits(f))
				v = v[m:]
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return bt, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return bt, nil
}

// Unmarshal decodes a frame. Unknown fields are skipped.
func Unmarshal(b []byte) (*Frame, error) {
	f := &Frame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "frame tag")
		}
		b = b[n:]
		switch {
		case num == frameLevel && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "frame level")
			}
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, errors.Wrap(err, "frame level")
			}
			f.Level = id
			b = b[n:]
		case num == frameTick && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "frame tick")
			}
			f.Tick = int(int64(v))
			b = b[n:]
		case num == frameBatches && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "frame batch")
			}
			bt, err := consumeBatch(v)
			if err != nil {
				return nil, errors.Wrapf(err, "batch %d", len(f.Batches))
			}
			f.Batches = append(f.Batches, bt)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "unknown field")
			}
			b = b[n:]
		}
	}
	return f, nil
}

func Write(w io.Writer, f *Frame) error {
	if _, err := w.Write(f.Marshal()); err != nil {
		return errors.Wrap(err, "writing capture")
	}
	return nil
}

func Read(r io.Reader) (*Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading capture")
	}
	return Unmarshal(b)
}
