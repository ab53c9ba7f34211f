package speechcortex

import "fmt"

// CloseCode is a WebSocket close status code as defined in RFC 6455,
// plus the application-specific codes used by the SpeechCortex service.
type CloseCode int

const (
	// Standard close codes (RFC 6455 section 7.4.1).
	CloseNormalClosure       CloseCode = 1000
	CloseGoingAway           CloseCode = 1001
	CloseProtocolError       CloseCode = 1002
	CloseUnsupportedData     CloseCode = 1003
	CloseReserved            CloseCode = 1004
	CloseNoStatusReceived    CloseCode = 1005
	CloseAbnormalClosure     CloseCode = 1006
	CloseInvalidFramePayload CloseCode = 1007
	ClosePolicyViolation     CloseCode = 1008
	CloseMessageTooBig       CloseCode = 1009
	CloseMissingExtension    CloseCode = 1010
	CloseInternalError       CloseCode = 1011
	CloseServiceRestart      CloseCode = 1012
	CloseTryAgainLater       CloseCode = 1013
	CloseBadGateway          CloseCode = 1014
	CloseTLSHandshake        CloseCode = 1015

	// Application-specific codes (4000-4999).
	CloseUnauthorized       CloseCode = 4001
	CloseForbidden          CloseCode = 4003
	CloseNotFound           CloseCode = 4004
	CloseBadRequest         CloseCode = 4008
	CloseRateLimited        CloseCode = 4029
	CloseInternalAppError   CloseCode = 4500
	CloseServiceUnavailable CloseCode = 4503
)

var closeCodeDescriptions = map[CloseCode]string{
	CloseNormalClosure:       "Normal closure",
	CloseGoingAway:           "Going away",
	CloseProtocolError:       "Protocol error",
	CloseUnsupportedData:     "Unsupported data",
	CloseReserved:            "Reserved",
	CloseNoStatusReceived:    "No status received",
	CloseAbnormalClosure:     "Abnormal closure",
	CloseInvalidFramePayload: "Invalid frame payload data",
	ClosePolicyViolation:     "Policy violation",
	CloseMessageTooBig:       "Message too big",
	CloseMissingExtension:    "Missing extension",
	CloseInternalError:       "Internal error",
	CloseServiceRestart:      "Service restart",
	CloseTryAgainLater:       "Try again later",
	CloseBadGateway:          "Bad gateway",
	CloseTLSHandshake:        "TLS handshake failure",
	CloseUnauthorized:        "Unauthorized - Authentication failed",
	CloseForbidden:           "Forbidden - Not authorized",
	CloseNotFound:            "Not found - Resource does not exist",
	CloseBadRequest:          "Bad request - Invalid parameters",
	CloseRateLimited:         "Rate limited - Too many requests",
	CloseInternalAppError:    "Internal application error",
	CloseServiceUnavailable:  "Service unavailable",
}

// Description returns the human-readable description for the code.
func (c CloseCode) Description() string {
	if desc, ok := closeCodeDescriptions[c]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown status code: %d", int(c))
}

// IsClientError returns true for client-class codes (4000-4999).
func (c CloseCode) IsClientError() bool {
	return c >= 4000 && c < 5000
}

// IsServerError returns true for server-class codes (1011-1015 and 4500+).
func (c CloseCode) IsServerError() bool {
	switch c {
	case CloseInternalError, CloseServiceRestart, CloseTryAgainLater, CloseBadGateway, CloseTLSHandshake:
		return true
	}
	return c >= 4500
}

// IsNormalClosure returns true only for code 1000.
func (c CloseCode) IsNormalClosure() bool {
	return c == CloseNormalClosure
}

// String returns the code with its description.
func (c CloseCode) String() string {
	return fmt.Sprintf("%d (%s)", int(c), c.Description())
}
