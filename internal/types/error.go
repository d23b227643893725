package types

type ErrorResponse struct {
	Error *CError `json:"error"`
}

type CError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func NewParamsError() ErrorResponse {
	return ErrorResponse{
		Error: &CError{
			Message: "params error",
			Type:    "invalid_request_error",
			Code:    "invalid_parameter",
		},
	}
}
