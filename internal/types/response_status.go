package types

import "strconv"

const (
	ResponseStatusTrying  ResponseStatus = 100
	ResponseStatusRinging ResponseStatus = 180
	ResponseStatusOK      ResponseStatus = 200

	ResponseStatusBadRequest                  ResponseStatus = 400
	ResponseStatusUnauthorized                ResponseStatus = 401
	ResponseStatusForbidden                   ResponseStatus = 403
	ResponseStatusNotFound                    ResponseStatus = 404
	ResponseStatusMethodNotAllowed            ResponseStatus = 405
	ResponseStatusProxyAuthenticationRequired ResponseStatus = 407
	ResponseStatusRequestTimeout              ResponseStatus = 408
	ResponseStatusTemporarilyUnavailable      ResponseStatus = 480
	ResponseStatusCallTransactionDoesNotExist ResponseStatus = 481
	ResponseStatusLoopDetected                ResponseStatus = 482
	ResponseStatusTooManyHops                 ResponseStatus = 483
	ResponseStatusBusyHere                    ResponseStatus = 486
	ResponseStatusRequestTerminated           ResponseStatus = 487

	ResponseStatusServerInternalError ResponseStatus = 500
	ResponseStatusNotImplemented      ResponseStatus = 501
	ResponseStatusServiceUnavailable  ResponseStatus = 503
	ResponseStatusServerTimeout       ResponseStatus = 504

	ResponseStatusBusyEverywhere ResponseStatus = 600
	ResponseStatusDecline        ResponseStatus = 603
)

var respReasons = map[ResponseStatus]ResponseReason{
	ResponseStatusTrying:                      "Trying",
	ResponseStatusRinging:                     "Ringing",
	ResponseStatusOK:                          "OK",
	ResponseStatusBadRequest:                  "Bad Request",
	ResponseStatusUnauthorized:                "Unauthorized",
	ResponseStatusForbidden:                   "Forbidden",
	ResponseStatusNotFound:                    "Not Found",
	ResponseStatusMethodNotAllowed:            "Method Not Allowed",
	ResponseStatusProxyAuthenticationRequired: "Proxy Authentication Required",
	ResponseStatusRequestTimeout:              "Request Timeout",
	ResponseStatusTemporarilyUnavailable:      "Temporarily Unavailable",
	ResponseStatusCallTransactionDoesNotExist: "Call/Transaction Does Not Exist",
	ResponseStatusLoopDetected:                "Loop Detected",
	ResponseStatusTooManyHops:                 "Too Many Hops",
	ResponseStatusBusyHere:                    "Busy Here",
	ResponseStatusRequestTerminated:           "Request Terminated",
	ResponseStatusServerInternalError:         "Server Internal Error",
	ResponseStatusNotImplemented:              "Not Implemented",
	ResponseStatusServiceUnavailable:          "Service Unavailable",
	ResponseStatusServerTimeout:               "Server Time-out",
	ResponseStatusBusyEverywhere:              "Busy Everywhere",
	ResponseStatusDecline:                     "Decline",
}

// ResponseStatus is a SIP response status code.
type ResponseStatus uint16

// Reason returns the default reason phrase of the status.
func (s ResponseStatus) Reason() ResponseReason {
	if r, ok := respReasons[s]; ok {
		return r
	}
	return "Unknown Status"
}

func (s ResponseStatus) IsProvisional() bool { return s >= 100 && s < 200 }

func (s ResponseStatus) IsFinal() bool { return s >= 200 && s < 700 }

func (s ResponseStatus) String() string { return strconv.Itoa(int(s)) }

// ResponseReason is a SIP response reason phrase.
type ResponseReason string
