package serverutils

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{Success: true, Message: message, Data: data}
}

type ErrorBody struct {
	Kind   string            `json:"kind"`
	Stage  string            `json:"stage,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}
