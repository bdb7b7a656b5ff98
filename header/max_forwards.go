package header

import "strconv"

// MaxForwards represents the Max-Forwards header field.
type MaxForwards uint

// CanonicName returns the canonical name of the header.
func (MaxForwards) CanonicName() Name { return "Max-Forwards" }

// Render returns the string representation of the header.
func (hdr MaxForwards) Render(_ *RenderOptions) string { return renderHdr(hdr) }

// RenderValue returns the header value without the name prefix.
func (hdr MaxForwards) RenderValue() string { return strconv.FormatUint(uint64(hdr), 10) }

// String returns the string representation of the header value.
func (hdr MaxForwards) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr MaxForwards) Clone() Header { return hdr }

// Equal compares this header with another for equality.
func (hdr MaxForwards) Equal(val any) bool {
	switch v := val.(type) {
	case MaxForwards:
		return hdr == v
	case *MaxForwards:
		return v != nil && hdr == *v
	default:
		return false
	}
}

// IsValid checks whether the header is valid.
func (MaxForwards) IsValid() bool { return true }
