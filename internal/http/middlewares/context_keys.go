package middlewares

// gin context keys; request_id is also read by the handlers' error envelope.
const (
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
	CtxRequestID = "request_id"
)
