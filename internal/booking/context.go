package booking

import "context"

type contextKey string

const checkoutKey contextKey = "checkoutIdempotencyKey"

// NewContextWithCheckoutKey marks a checkout attempt so that a repeated submit
// with the same key returns the first result instead of paying twice.
func NewContextWithCheckoutKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, checkoutKey, key)
}

func CheckoutKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(checkoutKey).(string)
	if !ok || key == "" {
		return "", false
	}

	return key, true
}
