package mapper

import (
	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

// Bruno auth modes.
const (
	AuthModeNone    = "none"
	AuthModeInherit = "inherit"
	AuthModeOAuth2  = "oauth2"
	AuthModeBearer  = "bearer"
	AuthModeAPIKey  = "apikey"
	AuthModeBasic   = "basic"
	AuthModeDigest  = "digest"
	AuthModeAWS     = "aws"
)

const authParamString = "string"

// AuthScheme is one of OAuth2Auth, BearerAuth, APIKeyAuth, BasicAuth,
// DigestAuth, AWSAuth or OpaqueAuth.
type AuthScheme interface {
	authMode() string
}

// OAuth2Auth holds Bruno OAuth 2.0 settings.
type OAuth2Auth struct {
	GrantType            domain.Value `json:"grantType"`
	CallbackURL          domain.Value `json:"callbackUrl"`
	AuthorizationURL     domain.Value `json:"authorizationUrl"`
	AccessTokenURL       domain.Value `json:"accessTokenUrl"`
	RefreshTokenURL      domain.Value `json:"refreshTokenUrl"`
	ClientID             domain.Value `json:"clientId"`
	ClientSecret         domain.Value `json:"clientSecret"`
	Scope                domain.Value `json:"scope"`
	State                domain.Value `json:"state"`
	CredentialsPlacement domain.Value `json:"credentialsPlacement"`
	CredentialsID        domain.Value `json:"credentialsId"`
	TokenHeaderPrefix    domain.Value `json:"tokenHeaderPrefix"`
	TokenQueryKey        domain.Value `json:"tokenQueryKey"`
	Username             domain.Value `json:"username"`
	Password             domain.Value `json:"password"`
	Audience             domain.Value `json:"audience"`
	Resource             domain.Value `json:"resource"`
	CodeChallengeMethod  domain.Value `json:"codeChallengeMethod"`
	PKCE                 domain.Value `json:"pkce"`
	AddTokenTo           domain.Value `json:"addTokenTo"`
}

// BearerAuth holds a bearer token.
type BearerAuth struct {
	Token domain.Value `json:"token"`
}

// APIKeyAuth holds an API key and where to put it.
type APIKeyAuth struct {
	Key       domain.Value `json:"key"`
	Value     domain.Value `json:"value"`
	Placement domain.Value `json:"placement"`
}

// BasicAuth holds basic credentials.
type BasicAuth struct {
	Username domain.Value `json:"username"`
	Password domain.Value `json:"password"`
}

// DigestAuth holds digest credentials and challenge parameters.
type DigestAuth struct {
	Username  domain.Value `json:"username"`
	Password  domain.Value `json:"password"`
	Realm     domain.Value `json:"realm"`
	Nonce     domain.Value `json:"nonce"`
	Algorithm domain.Value `json:"algorithm"`
	QOP       domain.Value `json:"qop"`
	NC        domain.Value `json:"nc"`
	CNonce    domain.Value `json:"cnonce"`
	Opaque    domain.Value `json:"opaque"`
}

// AWSAuth holds AWS Signature v4 settings.
type AWSAuth struct {
	AccessKey    domain.Value `json:"accessKey"`
	SecretKey    domain.Value `json:"secretKey"`
	Region       domain.Value `json:"region"`
	Service      domain.Value `json:"service"`
	SessionToken domain.Value `json:"sessionToken"`
}

// OpaqueAuth is a mode this package does not know. Raw is the sibling field
// named after the mode, if it was set.
type OpaqueAuth struct {
	Mode string
	Raw  domain.Value
}

func (OAuth2Auth) authMode() string   { return AuthModeOAuth2 }
func (BearerAuth) authMode() string   { return AuthModeBearer }
func (APIKeyAuth) authMode() string   { return AuthModeAPIKey }
func (BasicAuth) authMode() string    { return AuthModeBasic }
func (DigestAuth) authMode() string   { return AuthModeDigest }
func (AWSAuth) authMode() string      { return AuthModeAWS }
func (a OpaqueAuth) authMode() string { return a.Mode }

// ShouldIncludeAuth reports whether auth carries a mode worth mapping.
// Missing, none and inherit auth all fall back to the parent's auth.
func ShouldIncludeAuth(auth *domain.BrunoAuth) bool {
	return auth != nil &&
		auth.Mode != "" &&
		auth.Mode != AuthModeNone &&
		auth.Mode != AuthModeInherit
}

// KnownAuthMode reports whether mode has a dedicated mapping.
func KnownAuthMode(mode string) bool {
	switch mode {
	case AuthModeNone, AuthModeInherit, AuthModeOAuth2, AuthModeBearer,
		AuthModeAPIKey, AuthModeBasic, AuthModeDigest, AuthModeAWS:
		return true
	default:
		return false
	}
}

// ParseAuth turns a mode-keyed Bruno auth object into an AuthScheme.
// It returns false when ShouldIncludeAuth does.
func ParseAuth(auth *domain.BrunoAuth) (AuthScheme, bool) {
	if !ShouldIncludeAuth(auth) {
		return nil, false
	}

	switch auth.Mode {
	case AuthModeOAuth2:
		var s OAuth2Auth
		auth.Section(AuthModeOAuth2, &s)
		return s, true
	case AuthModeBearer:
		var s BearerAuth
		auth.Section(AuthModeBearer, &s)
		return s, true
	case AuthModeAPIKey:
		var s APIKeyAuth
		auth.Section(AuthModeAPIKey, &s)
		return s, true
	case AuthModeBasic:
		var s BasicAuth
		auth.Section(AuthModeBasic, &s)
		return s, true
	case AuthModeDigest:
		var s DigestAuth
		auth.Section(AuthModeDigest, &s)
		return s, true
	case AuthModeAWS:
		var s AWSAuth
		auth.Section(AuthModeAWS, &s)
		return s, true
	default:
		return OpaqueAuth{Mode: auth.Mode, Raw: auth.Raw(auth.Mode)}, true
	}
}

// MapAuth converts a scheme into its Postman auth block.
func MapAuth(scheme AuthScheme) *domain.PostmanAuth {
	switch s := scheme.(type) {
	case OAuth2Auth:
		return &domain.PostmanAuth{Type: domain.AuthTypeOAuth2, Params: mapOAuth2(s)}
	case BearerAuth:
		return &domain.PostmanAuth{
			Type: domain.AuthTypeBearer,
			Params: []domain.PostmanAuthParam{
				stringParam("token", s.Token.Or("")),
			},
		}
	case APIKeyAuth:
		return &domain.PostmanAuth{
			Type: domain.AuthTypeAPIKey,
			Params: []domain.PostmanAuthParam{
				stringParam("key", s.Key.Or("")),
				stringParam("value", s.Value.Or("")),
				stringParam("in", s.Placement.Or("header")),
			},
		}
	case BasicAuth:
		return &domain.PostmanAuth{
			Type: domain.AuthTypeBasic,
			Params: []domain.PostmanAuthParam{
				stringParam("username", s.Username.Or("")),
				stringParam("password", s.Password.Or("")),
			},
		}
	case DigestAuth:
		return &domain.PostmanAuth{
			Type: domain.AuthTypeDigest,
			Params: []domain.PostmanAuthParam{
				stringParam("username", s.Username.Or("")),
				stringParam("password", s.Password.Or("")),
				stringParam("realm", s.Realm.Or("")),
				stringParam("nonce", s.Nonce.Or("")),
				stringParam("algorithm", s.Algorithm.Or("MD5")),
				stringParam("qop", s.QOP.Or("")),
				stringParam("nc", s.NC.Or("")),
				stringParam("cnonce", s.CNonce.Or("")),
				stringParam("opaque", s.Opaque.Or("")),
			},
		}
	case AWSAuth:
		return &domain.PostmanAuth{
			Type: domain.AuthTypeAWSV4,
			Params: []domain.PostmanAuthParam{
				stringParam("accessKey", s.AccessKey.Or("")),
				stringParam("secretKey", s.SecretKey.Or("")),
				stringParam("region", s.Region.Or("")),
				stringParam("service", s.Service.Or("")),
				stringParam("sessionToken", s.SessionToken.Or("")),
			},
		}
	case OpaqueAuth:
		auth := &domain.PostmanAuth{Type: s.Mode}
		if s.Raw.Truthy() {
			auth.Raw = []byte(s.Raw)
		}

		return auth
	default:
		return &domain.PostmanAuth{Type: domain.AuthTypeNoAuth}
	}
}

// oauth2Field is one row of the Bruno -> Postman OAuth 2.0 field table.
// Rows with a fallback are always emitted; the others only when defined.
type oauth2Field struct {
	key      string
	value    domain.Value
	fallback string
}

func mapOAuth2(s OAuth2Auth) []domain.PostmanAuthParam {
	fields := []oauth2Field{
		{key: "grant_type", value: s.GrantType, fallback: "authorization_code"},
		{key: "callback_url", value: s.CallbackURL},
		{key: "auth_url", value: s.AuthorizationURL},
		{key: "access_token_url", value: s.AccessTokenURL},
		{key: "refresh_token_url", value: s.RefreshTokenURL},
		{key: "client_id", value: s.ClientID},
		{key: "client_secret", value: s.ClientSecret},
		{key: "scope", value: s.Scope},
		{key: "state", value: s.State},
		{key: "client_authentication", value: s.CredentialsPlacement, fallback: "header"},
		{key: "token_name", value: s.CredentialsID, fallback: "token"},
		{key: "header_prefix", value: s.TokenHeaderPrefix, fallback: "Bearer"},
		{key: "query_key", value: s.TokenQueryKey},
		{key: "username", value: s.Username},
		{key: "password", value: s.Password},
		{key: "audience", value: s.Audience},
		{key: "resource", value: s.Resource},
		{key: "code_challenge_method", value: s.CodeChallengeMethod},
	}

	params := make([]domain.PostmanAuthParam, 0, len(fields)+2)

	for _, f := range fields {
		switch {
		case f.fallback != "":
			params = append(params, stringParam(f.key, f.value.Or(f.fallback)))
		case f.value.Defined():
			params = append(params, stringParam(f.key, f.value.String()))
		}
	}

	if s.PKCE.Defined() {
		params = append(params, domain.PostmanAuthParam{Key: "use_pkce", Value: s.PKCE.String(), Type: "boolean"})
	}

	if s.AddTokenTo.Truthy() {
		params = append(params, stringParam("add_token_to", s.AddTokenTo.String()))
	}

	return params
}

func stringParam(key, value string) domain.PostmanAuthParam {
	return domain.PostmanAuthParam{Key: key, Value: value, Type: authParamString}
}
