package uri

import "strings"

// Standard error URIs.
const (
	NotAuthorized              = "wamp.error.not_authorized"
	ProcedureAlreadyExists     = "wamp.error.procedure_already_exists"
	NoSuchRealm                = "wamp.error.no_such_realm"
	ProtocolViolation          = "wamp.error.protocol_violation"
	NoSuchSubscription         = "wamp.error.no_such_subscription"
	NoSuchRegistration         = "wamp.error.no_such_registration"
	InvalidURI                 = "wamp.error.invalid_uri"
	NoSuchProcedure            = "wamp.error.no_such_procedure"
	InvalidArgument            = "wamp.error.invalid_argument"
	Canceled                   = "wamp.error.canceled"
	PayloadSizeExceeded        = "wamp.error.payload_size_exceeded"
	FeatureNotSupported        = "wamp.error.feature_not_supported"
	Timeout                    = "wamp.error.timeout"
	Unavailable                = "wamp.error.unavailable"
	NoAvailableCallee          = "wamp.error.no_available_callee"
	DiscloseMeNotAllowed       = "wamp.error.disclose_me.not_allowed"
	OptionDisallowedDiscloseMe = "wamp.error.option_disallowed.disclose_me"
	NoMatchingAuthMethod       = "wamp.error.no_matching_auth_method"
	NoSuchRole                 = "wamp.error.no_such_role"
	NoSuchPrincipal            = "wamp.error.no_such_principal"
	AuthenticationDenied       = "wamp.error.authentication_denied"
	AuthenticationFailed       = "wamp.error.authentication_failed"
	AuthenticationRequired     = "wamp.error.authentication_required"
	AuthorizationDenied        = "wamp.error.authorization_denied"
	AuthorizationFailed        = "wamp.error.authorization_failed"
	AuthorizationRequired      = "wamp.error.authorization_required"
	NetworkFailure             = "wamp.error.network_failure"
	OptionNotAllowed           = "wamp.error.option_not_allowed"
)

// Close reasons carried by Goodbye and Abort.
const (
	SystemShutdown = "wamp.close.system_shutdown"
	CloseRealm     = "wamp.close.close_realm"
	GoodbyeAndOut  = "wamp.close.goodbye_and_out"
	Killed         = "wamp.close.killed"
)

var errorURIs = []string{
	NotAuthorized, ProcedureAlreadyExists, NoSuchRealm, ProtocolViolation,
	NoSuchSubscription, NoSuchRegistration, InvalidURI, NoSuchProcedure,
	InvalidArgument, Canceled, PayloadSizeExceeded, FeatureNotSupported,
	Timeout, Unavailable, NoAvailableCallee, DiscloseMeNotAllowed,
	OptionDisallowedDiscloseMe, NoMatchingAuthMethod, NoSuchRole,
	NoSuchPrincipal, AuthenticationDenied, AuthenticationFailed,
	AuthenticationRequired, AuthorizationDenied, AuthorizationFailed,
	AuthorizationRequired, NetworkFailure, OptionNotAllowed,
}

var closeURIs = []string{SystemShutdown, CloseRealm, GoodbyeAndOut, Killed}

// ErrorURIs returns the standard error URIs.
func ErrorURIs() []string { return append([]string(nil), errorURIs...) }

// CloseURIs returns the standard close reasons.
func CloseURIs() []string { return append([]string(nil), closeURIs...) }

// IsStandard reports whether u is one of the wamp.error or wamp.close URIs
// above.
func IsStandard(u string) bool {
	if !strings.HasPrefix(u, "wamp.") {
		return false
	}
	for _, s := range errorURIs {
		if s == u {
			return true
		}
	}
	for _, s := range closeURIs {
		if s == u {
			return true
		}
	}
	return false
}
