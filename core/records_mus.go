package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the records the storage layer persists.
// Timestamps travel as unix microseconds.
var (
	IDMUS              = idMUS{}
	EmbeddingRecordMUS = embeddingRecordMUS{}

	vectorMUS = ord.NewSliceSer[float32](varint.Float32)
)

var (
	_ mus.Serializer[ID]              = IDMUS
	_ mus.Serializer[EmbeddingRecord] = EmbeddingRecordMUS
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(r EmbeddingRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.VerseID, bs)
	n += ord.String.Marshal(r.Model, bs[n:])
	n += vectorMUS.Marshal(r.Vector, bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (r EmbeddingRecord, n int, err error) {
	var n1 int
	r.VerseID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s embeddingRecordMUS) Size(r EmbeddingRecord) (size int) {
	size = IDMUS.Size(r.VerseID)
	size += ord.String.Size(r.Model)
	size += vectorMUS.Size(r.Vector)
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	return
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
