package header

import "github.com/sipio/sipproxy/internal/util"

// Any represents a header the proxy does not interpret.
// The value is carried as-is.
type Any struct {
	Name  Name
	Value string
}

// CanonicName returns the canonical name of the header.
func (hdr *Any) CanonicName() Name {
	if hdr == nil {
		return ""
	}
	return CanonicName(hdr.Name)
}

// Render returns the string representation of the header.
func (hdr *Any) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr *Any) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return hdr.Value
}

// String returns the string representation of the header value.
func (hdr *Any) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr *Any) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
// Names are compared in canonical form, values as-is.
func (hdr *Any) Equal(val any) bool {
	var other *Any
	switch v := val.(type) {
	case Any:
		other = &v
	case *Any:
		other = v
	default:
		return false
	}
	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.Name.Equal(other.Name) && hdr.Value == other.Value
}

// IsValid checks whether the header is valid.
func (hdr *Any) IsValid() bool { return hdr != nil && util.TrimSP(hdr.Name) != "" }
