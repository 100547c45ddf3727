package api

import "github.com/netguru/ts-dns/internal/dnsprovider"

const (
	MediaTypeJSON        = "application/json"
	contentTypeHeader    = "Content-Type"
	contentTypePlaintext = "text/plain; charset=utf-8"
	varyHeader           = "Vary"
	logFieldError        = "err"
)

type Message struct {
	Message string `json:"message"`
}

// syncResponse is the body returned by POST /sync
type syncResponse struct {
	Results []dnsprovider.Result `json:"results"`
	Error   string               `json:"error,omitempty"`
}
