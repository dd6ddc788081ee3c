package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"

	"winsbygroup.com/logitrack/internal/registration"
)

// Scope grants read/write access to spreadsheets only.
const Scope = "https://www.googleapis.com/auth/spreadsheets"

// ErrNoCredentials is wrapped in a CredentialError when neither source exists.
var ErrNoCredentials = errors.New("no se encontraron credenciales de Google")

// CredentialSource lists where service-account credentials are looked up,
// in priority order: the environment variable first, then the file.
type CredentialSource struct {
	EnvVar string
	File   string
}

// LoadCredentials reads the service-account key from the first available
// source. A set environment variable wins even when its content is invalid.
func LoadCredentials(src CredentialSource, scope string) (*jwt.Config, error) {
	if src.EnvVar != "" {
		if blob, ok := os.LookupEnv(src.EnvVar); ok {
			cfg, err := google.JWTConfigFromJSON([]byte(blob), scope)
			if err != nil {
				return nil, &registration.CredentialError{Err: fmt.Errorf("parse %s: %w", src.EnvVar, err)}
			}
			return cfg, nil
		}
	}

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		switch {
		case err == nil:
			cfg, err := google.JWTConfigFromJSON(data, scope)
			if err != nil {
				return nil, &registration.CredentialError{Err: fmt.Errorf("parse %s: %w", src.File, err)}
			}
			return cfg, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, &registration.CredentialError{Err: fmt.Errorf("read %s: %w", src.File, err)}
		}
	}

	return nil, &registration.CredentialError{Err: ErrNoCredentials}
}

// Authenticate returns a client option carrying a token source for the
// loaded service account.
func Authenticate(ctx context.Context, src CredentialSource, scope string) (option.ClientOption, error) {
	cfg, err := LoadCredentials(src, scope)
	if err != nil {
		return nil, err
	}
	return option.WithTokenSource(cfg.TokenSource(ctx)), nil
}
