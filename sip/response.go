package sip

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/sipio/sipproxy/internal/util"
)

// Response represents a SIP response message.
type Response struct {
	Status  ResponseStatus
	Reason  ResponseReason
	Proto   ProtoInfo
	Headers Headers
	Body    []byte
}

// Render returns the response status line and headers.
func (res *Response) Render(opts *RenderOptions) string {
	if res == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, res.Proto, " ", res.Status, " ", res.Reason, "\r\n")
	for _, n := range res.Headers.Names() {
		for _, h := range res.Headers[n] {
			sb.WriteString(h.Render(opts))
			sb.WriteString("\r\n")
		}
	}
	sb.WriteString("\r\n")
	sb.Write(res.Body)
	return sb.String()
}

// String returns the string representation of the response.
func (res *Response) String() string {
	if res == nil {
		return "<nil>"
	}
	return res.Render(nil)
}

// LogValue implements [slog.LogValuer] for structured logging.
func (res *Response) LogValue() slog.Value {
	if res == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 4)
	attrs = append(attrs, slog.Int("status", int(res.Status)), slog.String("reason", string(res.Reason)))
	if callID, ok := res.Headers.CallID(); ok {
		attrs = append(attrs, slog.String("Call-ID", string(callID)))
	}
	if cseq, ok := res.Headers.CSeq(); ok {
		attrs = append(attrs, slog.String("CSeq", cseq.String()))
	}
	return slog.GroupValue(attrs...)
}

// Clone returns a deep copy of the response.
func (res *Response) Clone() *Response {
	if res == nil {
		return nil
	}

	res2 := *res
	res2.Headers = res.Headers.Clone()
	res2.Body = slices.Clone(res.Body)
	return &res2
}

// IsValid returns whether the response has a final or provisional status.
func (res *Response) IsValid() bool {
	return res != nil && (res.Status.IsProvisional() || res.Status.IsFinal())
}
