package client

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Configuration keys accepted by ConfigFromMap.
const (
	KeyClientID     = "clientId"
	KeyClientSecret = "clientSecret"
	KeyRegion       = "region"
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeySandbox      = "sandbox"
)

// optionalKeys may be absent or nil.
var optionalKeys = map[string]bool{
	KeyAccessToken:  true,
	KeyRefreshToken: true,
}

// KnownKeys returns the accepted configuration keys in validation order.
func KnownKeys() []string {
	return []string{KeyClientID, KeyClientSecret, KeyRegion, KeyAccessToken, KeyRefreshToken, KeySandbox}
}

var (
	clientIDPattern     = regexp.MustCompile(`(?i)^amzn1\.application-oa2-client\.[a-z0-9]{32}$`)
	clientSecretPattern = regexp.MustCompile(`(?i)^[a-z0-9]{64}$`)
	accessTokenPattern  = regexp.MustCompile(`^Atza(\||%7C|%7c).*$`)
	refreshTokenPattern = regexp.MustCompile(`^Atzr(\||%7C|%7c).*$`)
)

// Config holds the credentials and deployment selection for a Client.
type Config struct {
	ClientID     string `mapstructure:"clientId" json:"clientId" validate:"required,clientid"`
	ClientSecret string `mapstructure:"clientSecret" json:"clientSecret" validate:"required,clientsecret"`
	Region       string `mapstructure:"region" json:"region" validate:"required"`
	AccessToken  string `mapstructure:"accessToken" json:"accessToken,omitempty" validate:"omitempty,accesstoken"`
	RefreshToken string `mapstructure:"refreshToken" json:"refreshToken,omitempty" validate:"omitempty,refreshtoken"`
	Sandbox      bool   `mapstructure:"sandbox" json:"sandbox"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	mustRegister(v, "clientid", patternValidator(clientIDPattern))
	mustRegister(v, "clientsecret", patternValidator(clientSecretPattern))
	mustRegister(v, "accesstoken", patternValidator(accessTokenPattern))
	mustRegister(v, "refreshtoken", patternValidator(refreshTokenPattern))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validator: %v", tag, err))
	}
}

func patternValidator(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ConfigFromMap builds a Config from a loosely typed key/value form. Every key is
// checked before any value is decoded, so a failure never yields a partial Config.
// An absent sandbox key defaults to false.
func ConfigFromMap(m map[string]any) (*Config, error) {
	if m == nil {
		return nil, &ConfigError{Message: "null config"}
	}

	known := make(map[string]bool, len(KnownKeys()))
	for _, k := range KnownKeys() {
		known[k] = true
	}
	for key := range m {
		if !known[key] {
			return nil, &ConfigError{Field: key, Message: fmt.Sprintf("unknown parameter `%s`", key)}
		}
	}

	var cfg Config
	for _, key := range KnownKeys() {
		value, ok := m[key]
		if !ok {
			continue
		}
		if value == nil {
			if optionalKeys[key] {
				continue
			}
			return nil, missingParameter(key)
		}
		if err := mapstructure.Decode(map[string]any{key: value}, &cfg); err != nil {
			return nil, invalidParameter(key)
		}
	}
	return &cfg, nil
}

// Validate checks presence and format of every field. Region membership is
// checked later by ResolveEndpoint.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Message: "null config"}
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Message: err.Error()}
	}

	// Errors come back in struct field order; report the first.
	fe := verrs[0]
	if fe.Tag() == "required" {
		return missingParameter(fe.Field())
	}
	return invalidParameter(fe.Field())
}

// Masked returns a copy suitable for logging, with secrets and tokens shortened.
func (c *Config) Masked() Config {
	m := *c
	m.ClientSecret = mask(m.ClientSecret)
	m.AccessToken = mask(m.AccessToken)
	m.RefreshToken = mask(m.RefreshToken)
	return m
}

func missingParameter(key string) error {
	return &ConfigError{Field: key, Message: fmt.Sprintf("missing required parameter `%s`", key)}
}

func invalidParameter(key string) error {
	return &ConfigError{Field: key, Message: fmt.Sprintf("invalid parameter value for `%s`", key)}
}

// mask shows the first 4 characters followed by "****".
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
