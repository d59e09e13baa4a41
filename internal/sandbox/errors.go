package sandbox

import "errors"

// Sentinel errors for the submission pipeline. Use errors.Is to check.
var (
	ErrMissingCodeBlock    = errors.New("invalid completion: missing code block")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrGatewayTimeout      = errors.New("API request error: gateway timeout (504)")
	ErrTransport           = errors.New("API request error")
	ErrStatus              = errors.New("API request error: unexpected status")
	ErrDecode              = errors.New("API response JSON decode error")
	ErrResponseTooLarge    = errors.New("API response too large")
)

// failurePrefix marks errors that originate from the remote call.
const failurePrefix = "API Call Failed: "
