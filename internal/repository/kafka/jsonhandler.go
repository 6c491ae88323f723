package kafka

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONHandler decodes each message value into a fresh T before handing it
// to handle. Undecodable messages fail the handler (and stay uncommitted).
func JSONHandler[T any](handle func(ctx context.Context, key []byte, msg *T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		msg := new(T)
		if err := json.Unmarshal(value, msg); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		return handle(ctx, key, msg)
	}
}
