// Package uri provides the SIP-related URI types handled by the proxy: [SIP] for
// sip/sips URIs (RFC 3261) and [Tel] for telephone numbers (RFC 3966).
//
// URIs are plain values built by the transport layer's parser or by the proxy
// itself; the package renders, clones and compares them. Both types implement
// the [URI] interface.
//
//	u := &uri.SIP{User: "alice", Addr: uri.HostPort("example.com", 5060)}
//	u.Params = uri.Values{}.Set("transport", "tcp")
//	fmt.Println(u) // sip:alice@example.com:5060;transport=tcp
package uri
