package modelkeep

import "encoding/json"

// Codec translates model state to and from checkpoint payload bytes.
type Codec[S any] interface {
	// Encode serializes state for storage.
	Encode(state S) ([]byte, error)

	// Decode reconstructs state from a stored payload.
	Decode(data []byte) (S, error)
}

// JSONCodec encodes model state as JSON.
// The zero value is ready to use.
type JSONCodec[S any] struct{}

// Encode implements Codec.
func (JSONCodec[S]) Encode(state S) ([]byte, error) {
	return json.Marshal(state)
}

// Decode implements Codec.
func (JSONCodec[S]) Decode(data []byte) (S, error) {
	var state S
	if err := json.Unmarshal(data, &state); err != nil {
		return state, err
	}
	return state, nil
}

// RawCodec passes payload bytes through untouched. It suits tools that
// manage checkpoint entries without interpreting the model format.
type RawCodec struct{}

// Encode implements Codec.
func (RawCodec) Encode(state []byte) ([]byte, error) {
	return state, nil
}

// Decode implements Codec.
func (RawCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}
