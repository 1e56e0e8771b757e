// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// FileRecordMUS serializes FileRecord values in MUS format.
// Field order is part of the on-disk format; append new fields at the end.
var FileRecordMUS mus.Serializer[FileRecord] = fileRecordMUS{}

type fileRecordMUS struct{}

func (s fileRecordMUS) Marshal(v FileRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += varint.Uint64.Marshal(uint64(v.ContentID), bs[n:])
	n += ord.String.Marshal(v.Output, bs[n:])
	n += varint.PositiveInt.Marshal(v.Pairs, bs[n:])
	n += varint.PositiveInt.Marshal(v.Related, bs[n:])
	n += varint.PositiveInt.Marshal(v.Unrelated, bs[n:])
	n += varint.PositiveInt.Marshal(v.Dropped, bs[n:])
	n += varint.PositiveInt.Marshal(v.Duplicates, bs[n:])
	n += varint.Int64.Marshal(microsFromTime(v.CompletedAt), bs[n:])
	return
}

func (s fileRecordMUS) Unmarshal(bs []byte) (v FileRecord, n int, err error) {
	var n1 int
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var id uint64
	id, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentID = ID(id)
	v.Output, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for _, dst := range []*int{&v.Pairs, &v.Related, &v.Unrelated, &v.Dropped, &v.Duplicates} {
		*dst, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CompletedAt = timeFromMicros(micros)
	return
}

func (s fileRecordMUS) Size(v FileRecord) (size int) {
	size = ord.String.Size(v.Source)
	size += varint.Uint64.Size(uint64(v.ContentID))
	size += ord.String.Size(v.Output)
	size += varint.PositiveInt.Size(v.Pairs)
	size += varint.PositiveInt.Size(v.Related)
	size += varint.PositiveInt.Size(v.Unrelated)
	size += varint.PositiveInt.Size(v.Dropped)
	size += varint.PositiveInt.Size(v.Duplicates)
	size += varint.Int64.Size(microsFromTime(v.CompletedAt))
	return
}

func (s fileRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for range 5 {
		n1, err = varint.PositiveInt.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// Unix micro timestamps; the zero time is stored as 0.
func microsFromTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func timeFromMicros(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
