package redisx

import "time"

const (
	// Cached order status: order_status:{order_id} -> {"status":"...","payment_status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Idempotency for cart conversion: idem:cart:convert:{cart_id} -> order_id
	KeyIdemCartConvert = "idem:cart:convert:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
