package executor

import (
	jsoniter "github.com/json-iterator/go"
)

// wireError is the JSON shape of one GraphQL response error, per
// https://spec.graphql.org/June2018/#sec-Errors.
type wireError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// MarshalJSON renders r as {"data": ..., "errors": [...]}, omitting "errors" entirely when r has
// none, matching the reference implementation's ExecutionResult encoding.
func (r *Response) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)

	stream.WriteObjectStart()

	stream.WriteObjectField("data")
	if r.Data.IsNull() {
		stream.WriteNil()
	} else {
		data, err := r.Data.MarshalJSON()
		if err != nil {
			return nil, err
		}
		stream.Write(data)
	}

	if len(r.Errors) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("errors")
		stream.WriteArrayStart()
		for i, e := range r.Errors {
			if i > 0 {
				stream.WriteMore()
			}
			we := wireError{Message: e.Error()}
			for _, p := range e.Path {
				we.Path = append(we.Path, p)
			}
			b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(we)
			if err != nil {
				return nil, err
			}
			stream.Write(b)
		}
		stream.WriteArrayEnd()
	}

	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	buf := make([]byte, len(stream.Buffer()))
	copy(buf, stream.Buffer())
	return buf, nil
}
