package header

import "github.com/sipio/sipproxy/internal/util"

// CallID represents the Call-ID header field.
type CallID string

// CanonicName returns the canonical name of the header.
func (CallID) CanonicName() Name { return "Call-ID" }

// Render returns the string representation of the header.
func (hdr CallID) Render(_ *RenderOptions) string { return renderHdr(hdr) }

// RenderValue returns the header value without the name prefix.
func (hdr CallID) RenderValue() string { return string(hdr) }

// String returns the string representation of the header value.
func (hdr CallID) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr CallID) Clone() Header { return hdr }

// Equal compares this header with another for equality.
func (hdr CallID) Equal(val any) bool {
	switch v := val.(type) {
	case CallID:
		return hdr == v
	case *CallID:
		return v != nil && hdr == *v
	default:
		return false
	}
}

// IsValid checks whether the header is valid.
func (hdr CallID) IsValid() bool { return util.TrimSP(hdr) != "" }
