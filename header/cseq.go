package header

import (
	"strconv"

	"github.com/sipio/sipproxy/internal/util"
)

// CSeq represents the CSeq header field.
type CSeq struct {
	SeqNum uint
	Method RequestMethod
}

// CanonicName returns the canonical name of the header.
func (*CSeq) CanonicName() Name { return "CSeq" }

// Render returns the string representation of the header.
func (hdr *CSeq) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr *CSeq) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return strconv.FormatUint(uint64(hdr.SeqNum), 10) + " " + string(util.UCase(hdr.Method))
}

// String returns the string representation of the header value.
func (hdr *CSeq) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr *CSeq) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *CSeq) Equal(val any) bool {
	var other *CSeq
	switch v := val.(type) {
	case CSeq:
		other = &v
	case *CSeq:
		other = v
	default:
		return false
	}
	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.SeqNum == other.SeqNum && hdr.Method.Equal(other.Method)
}

// IsValid checks whether the header is valid.
func (hdr *CSeq) IsValid() bool { return hdr != nil && hdr.Method.IsValid() }
