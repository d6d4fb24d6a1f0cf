package pingpong

// Response is the result of sending a request.
type Response string

const Pong Response = "Pong"

// Request is anything that produces a Response when sent.
type Request interface {
	Send() Response
}

// PingRequest always answers Pong.
type PingRequest struct{}

func (PingRequest) Send() Response {
	return Pong
}

// Send dispatches request through its own Send.
func Send(request Request) Response {
	return request.Send()
}
