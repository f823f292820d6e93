package room

// Response is a message pushed to a connected client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// PayloadIn is a message received from a connected client
type PayloadIn struct {
	Context string `json:"context"`
	Action  string `json:"action"`
	Amount  int    `json:"amount"`
}

// OK returns a response acknowledging the client's message
func OK(ctx string) *Response {
	return &Response{
		Key:     "ok",
		Context: ctx,
	}
}

// NewErrorResponse returns an error response for the client's message
func NewErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}
