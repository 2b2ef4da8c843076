package chi

import "github.com/kailas-cloud/netusage/internal/domain/channel"

// Transport-level error codes (distinct from channel failure codes).
const (
	errCodeBadRequest       = "bad_request"
	errCodeUnauthorized     = "unauthorized"
	errCodeChannelNotFound  = "channel_not_found"
	errCodeNotFound         = "not_found"
	errCodeMethodNotAllowed = "method_not_allowed"
	errCodeInternal         = "internal_error"
)

type callRequest struct {
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Envelope renders a channel response for the wire. Success always carries
// "result", even when it is null or false.
func Envelope(resp channel.Response) map[string]any {
	switch resp.Kind() {
	case channel.KindSuccess:
		return map[string]any{"status": string(channel.KindSuccess), "result": resp.Result()}
	case channel.KindError:
		return map[string]any{
			"status":  string(channel.KindError),
			"code":    resp.Code(),
			"message": resp.Message(),
		}
	default:
		return map[string]any{"status": string(channel.KindNotImplemented)}
	}
}
