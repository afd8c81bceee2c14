package redisx

import "time"

const (
	// Session-scoped cart lines: cart:{session_id} -> JSON array of CartLine
	KeyCart = "cart:%s"

	// Session-scoped shipping snapshot: shipping:{session_id} -> JSON Address
	KeyShipping = "shipping:%s"

	// Published catalog cache (revoked already filtered out)
	KeyPublishedCatalog = "published:catalog"
)

var (
	// TTLSession bounds the browsing session; cart and shipping expire
	// together so checkout never sees one half of a stale session.
	TTLSession = 24 * time.Hour

	TTLCatalog = 5 * time.Minute
)
