package errcode

// Codes carried in the "code" field of error responses.
const (
	Unauthorized = "unauthorized"
	Forbidden    = "forbidden"
	NotFound     = "not_found"
	Invalid      = "invalid"
	Conflict     = "conflict"
	TooMany      = "too_many_requests"
	Internal     = "internal"
	Unavailable  = "unavailable"
)
