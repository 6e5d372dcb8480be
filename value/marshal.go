package value

import (
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// MarshalJSON implements json.Marshaler, encoding v deterministically with object-member
// insertion order preserved and no silent int/float widening.
func (v Value) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(&v)
}

// valueEncoder implements jsoniter.ValEncoder for Value so that encoding a Value nested inside
// another structure (e.g. a response envelope) also honors key order and number precision,
// without going through the slower reflection-based path for every field.
type valueEncoder struct{}

func (valueEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

func (valueEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := (*Value)(ptr)
	switch v.kind {
	case KindNull:
		stream.WriteNil()
	case KindBoolean:
		stream.WriteBool(v.b)
	case KindNumber:
		if v.num.isFloat {
			stream.WriteFloat64(v.num.f)
		} else {
			stream.WriteInt64(v.num.i)
		}
	case KindString:
		stream.WriteString(v.str)
	case KindEnum:
		stream.WriteString(v.name.String())
	case KindList:
		stream.WriteArrayStart()
		for i, elem := range v.list {
			if i > 0 {
				stream.WriteMore()
			}
			elemEncoder.Encode(unsafe.Pointer(&elem), stream)
		}
		stream.WriteArrayEnd()
	case KindObject:
		objectEncoder.Encode(unsafe.Pointer(v.obj), stream)
	}
}

var elemEncoder = valueEncoder{}
var objectEncoder = objectValEncoder{}

type objectValEncoder struct{}

func (objectValEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return (*Object)(ptr) == nil || len((*Object)(ptr).keys) == 0
}

func (objectValEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	o := (*Object)(ptr)
	stream.WriteObjectStart()
	if o != nil {
		for i, key := range o.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(key.String())
			val := o.values[key.String()]
			elemEncoder.Encode(unsafe.Pointer(&val), stream)
		}
	}
	stream.WriteObjectEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("value.Value", valueEncoder{})
	jsoniter.RegisterTypeEncoder("value.Object", objectValEncoder{})
}
