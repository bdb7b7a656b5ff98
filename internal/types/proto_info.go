package types

type ProtoInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ProtoSIP20 is the protocol of all messages handled by the proxy.
var ProtoSIP20 = ProtoInfo{Name: "SIP", Version: "2.0"}

func (p ProtoInfo) String() string { return p.Name + "/" + p.Version }

func (p ProtoInfo) IsZero() bool { return p.Name == "" && p.Version == "" }

func (p ProtoInfo) Equal(val any) bool {
	var other ProtoInfo
	switch v := val.(type) {
	case ProtoInfo:
		other = v
	case *ProtoInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p == other
}
