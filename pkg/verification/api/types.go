package api

// VerifyCodeRequest is the body for the authenticated verify endpoints.
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// LanguageVerifyRequest carries the code plus the language to switch to.
type LanguageVerifyRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// StateResponse reports the flow position for a purpose.
type StateResponse struct {
	Purpose string `json:"purpose"`
	State   string `json:"state"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
