package sip

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/types"
	"github.com/sipio/sipproxy/internal/util"
)

// Request represents a SIP request message.
type Request struct {
	Method  RequestMethod
	URI     URI
	Proto   ProtoInfo
	Headers Headers
	Body    []byte
}

// Render returns the request start line and headers.
// Headers are rendered in alphabet order of their names.
func (req *Request) Render(opts *RenderOptions) string {
	if req == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, util.UCase(req.Method), " ")
	if req.URI != nil {
		sb.WriteString(req.URI.Render(opts))
	}
	fmt.Fprint(sb, " ", req.Proto, "\r\n")
	for _, n := range req.Headers.Names() {
		for _, h := range req.Headers[n] {
			sb.WriteString(h.Render(opts))
			sb.WriteString("\r\n")
		}
	}
	sb.WriteString("\r\n")
	sb.Write(req.Body)
	return sb.String()
}

// String returns the string representation of the request.
func (req *Request) String() string {
	if req == nil {
		return "<nil>"
	}
	return req.Render(nil)
}

// LogValue implements [slog.LogValuer] for structured logging.
func (req *Request) LogValue() slog.Value {
	if req == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs, slog.String("method", string(req.Method)))
	if req.URI != nil {
		attrs = append(attrs, slog.String("uri", req.URI.String()))
	}
	if hop, ok := req.Headers.FirstVia(); ok {
		attrs = append(attrs, slog.String("Via", hop.String()))
	}
	if from, ok := req.Headers.From(); ok {
		attrs = append(attrs, slog.String("From", from.String()))
	}
	if to, ok := req.Headers.To(); ok {
		attrs = append(attrs, slog.String("To", to.String()))
	}
	if callID, ok := req.Headers.CallID(); ok {
		attrs = append(attrs, slog.String("Call-ID", string(callID)))
	}
	if cseq, ok := req.Headers.CSeq(); ok {
		attrs = append(attrs, slog.String("CSeq", cseq.String()))
	}

	return slog.GroupValue(attrs...)
}

// Clone returns a deep copy of the request.
func (req *Request) Clone() *Request {
	if req == nil {
		return nil
	}

	req2 := *req
	req2.URI = types.Clone[URI](req.URI)
	req2.Headers = req.Headers.Clone()
	req2.Body = slices.Clone(req.Body)
	return &req2
}

// Equal returns whether the request is equal to another value.
func (req *Request) Equal(val any) bool {
	var other *Request
	switch v := val.(type) {
	case Request:
		other = &v
	case *Request:
		other = v
	default:
		return false
	}

	if req == other {
		return true
	} else if req == nil || other == nil {
		return false
	}

	return req.Method.Equal(other.Method) &&
		req.Proto.Equal(other.Proto) &&
		types.IsEqual(req.URI, other.URI) &&
		req.Headers.Equal(other.Headers) &&
		slices.Equal(req.Body, other.Body)
}

// IsValid returns whether the request is valid.
func (req *Request) IsValid() bool {
	return req.Validate() == nil
}

var reqMandatoryHdrs = []HeaderName{"Via", "From", "To", "Call-ID", "CSeq"}

// Validate checks the request start line and the presence of mandatory headers.
func (req *Request) Validate() error {
	if req == nil {
		return errtrace.Wrap(NewInvalidArgumentError("invalid request"))
	}
	if !req.Method.IsValid() {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidMessage, errorutil.Errorf("invalid method %q", req.Method)))
	}
	if !types.IsValid(req.URI) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidMessage, errorutil.Errorf("invalid request URI %v", req.URI)))
	}
	var miss []HeaderName
	for _, n := range reqMandatoryHdrs {
		if !req.Headers.Has(n) {
			miss = append(miss, n)
		}
	}
	if len(miss) > 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidMessage, errorutil.NewWrapperError(errMissHdrs, "%v", miss)))
	}
	return nil
}

// ResponseOptions contains optional response parts.
type ResponseOptions struct {
	Reason   ResponseReason
	Headers  Headers
	Body     []byte
	LocalTag string
}

func (o *ResponseOptions) reason() ResponseReason {
	if o == nil {
		return ""
	}
	return o.Reason
}

func (o *ResponseOptions) headers() Headers {
	if o == nil {
		return nil
	}
	return o.Headers
}

func (o *ResponseOptions) body() []byte {
	if o == nil {
		return nil
	}
	return o.Body
}

func (o *ResponseOptions) locTag() string {
	if o == nil {
		return ""
	}
	return o.LocalTag
}

var (
	reqCopyHdrsMap = map[HeaderName]bool{
		"Via":       true,
		"From":      true,
		"To":        true,
		"Call-ID":   true,
		"CSeq":      true,
		"Timestamp": true,
	}
	reqCopyHdrsSlice = slices.Sorted(maps.Keys(reqCopyHdrsMap))
)

// NewResponse builds a response to the request following RFC 3261 Section 8.2.6.
// Responses to ACK are not allowed.
func (req *Request) NewResponse(sts ResponseStatus, opts *ResponseOptions) (*Response, error) {
	if req == nil {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid request"))
	}
	if req.Method.Equal(RequestMethodAck) {
		return nil, errtrace.Wrap(NewInvalidArgumentError(ErrMethodNotAllowed))
	}

	reason := opts.reason()
	if reason == "" {
		reason = sts.Reason()
	}
	res := &Response{
		Status:  sts,
		Reason:  reason,
		Proto:   req.Proto,
		Headers: make(Headers, 6).CopyFrom(req.Headers, reqCopyHdrsSlice[0], reqCopyHdrsSlice[1:]...),
		Body:    opts.body(),
	}

	// local tag for all responses except Trying
	if to, ok := res.Headers.To(); sts != ResponseStatusTrying && ok && to != nil {
		locTag := opts.locTag()
		if locTag == "" {
			locTag = GenerateTag()
		}

		if to.Params == nil || !to.Params.Has("tag") {
			if to.Params == nil {
				to.Params = make(header.Values)
			}
			to.Params.Set("tag", locTag)
		}
	}

	// append additional headers
	for n, hs := range opts.headers() {
		if reqCopyHdrsMap[n] {
			continue
		}
		for _, h := range hs {
			res.Headers.Append(h)
		}
	}

	return res, nil
}
