package reporting

// ErrorType describes the outcome of the request a NEL report is
// about.  The constants below are the predefined NEL types;
// OtherErrorType covers anything else.
//
// See https://w3c.github.io/network-error-logging/#predefined-network-error-types
type ErrorType string

const (
	// The request did not result in a network error.
	ErrorOK ErrorType = "ok"

	ErrorDNSUnreachable     ErrorType = "dns.unreachable"
	ErrorDNSNameNotResolved ErrorType = "dns.name_not_resolved"
	ErrorDNSFailed          ErrorType = "dns.failed"

	ErrorTCPTimedOut           ErrorType = "tcp.timed_out"
	ErrorTCPClosed             ErrorType = "tcp.closed"
	ErrorTCPReset              ErrorType = "tcp.reset"
	ErrorTCPRefused            ErrorType = "tcp.refused"
	ErrorTCPAborted            ErrorType = "tcp.aborted"
	ErrorTCPAddressInvalid     ErrorType = "tcp.address_invalid"
	ErrorTCPAddressUnreachable ErrorType = "tcp.address_unreachable"
	ErrorTCPFailed             ErrorType = "tcp.failed"

	ErrorTLSVersionOrCipherMismatch     ErrorType = "tls.version_or_cipher_mismatch"
	ErrorTLSBadClientAuthCert           ErrorType = "tls.bad_client_auth_cert"
	ErrorTLSCertNameInvalid             ErrorType = "tls.cert.name_invalid"
	ErrorTLSCertDateInvalid             ErrorType = "tls.cert.date_invalid"
	ErrorTLSCertAuthorityInvalid        ErrorType = "tls.cert.authority_invalid"
	ErrorTLSCertInvalid                 ErrorType = "tls.cert.invalid"
	ErrorTLSCertRevoked                 ErrorType = "tls.cert.revoked"
	ErrorTLSCertPinnedKeyNotInCertChain ErrorType = "tls.cert.pinned_key_not_in_cert_chain"
	ErrorTLSProtocolError               ErrorType = "tls.protocol.error"
	ErrorTLSFailed                      ErrorType = "tls.failed"

	ErrorHTTPProtocolError        ErrorType = "http.protocol.error"
	ErrorHTTPResponseInvalid      ErrorType = "http.response.invalid"
	ErrorHTTPResponseRedirectLoop ErrorType = "http.response.redirect_loop"
	ErrorHTTPFailed               ErrorType = "http.failed"

	// The user aborted the fetch before it completed.
	ErrorAbandoned ErrorType = "abandoned"
	ErrorUnknown   ErrorType = "unknown"
)

// OtherErrorType returns an ErrorType for a code that isn't one of the
// predefined types.
func OtherErrorType(code string) ErrorType {
	return ErrorType(code)
}

func (t ErrorType) String() string {
	return string(t)
}
