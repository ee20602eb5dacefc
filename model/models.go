package model

//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names

import (
	"time"
)

// ResponseType represents the type of the response ENUM(
// RECORD // the domain exists, the signed record was returned
// NSEC // the domain does not exist, the signed covering range was returned
// INVALID // the request or the client identifier was rejected
// BLOCKED // the client is throttled for suspicious activity
// )
type ResponseType int

// Request represents one request line of a client session. The session logger travels in the
// request context, see log.FromCtx.
type Request struct {
	ClientID  string
	Domain    string
	RequestTS time.Time
}

// Response represents the line written back to the client
type Response struct {
	Line   string
	Reason string
	RType  ResponseType
}
