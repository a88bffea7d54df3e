// Package credential exchanges a GitHub App private key, held in a secret store,
// for a short-lived installation access token.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// SecretSource fetches a secret string by name.
type SecretSource interface {
	Secret(ctx context.Context, name string) (string, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client we call.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerSource reads secrets from AWS Secrets Manager.
type SecretsManagerSource struct {
	Client SecretsManagerAPI
}

func (s *SecretsManagerSource) Secret(ctx context.Context, name string) (string, error) {
	out, err := s.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.SecretString), nil
}

// GitHub accepts app JWTs valid for at most ten minutes; iat is backdated to
// absorb clock drift.
const (
	jwtLifetime  = 9 * time.Minute
	jwtClockSkew = 60 * time.Second
)

// Resolver produces installation tokens for one organisation.
type Resolver struct {
	secrets SecretSource
	apps    *github.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewResolver creates a Resolver that talks to api.github.com.
func NewResolver(secrets SecretSource, logger *slog.Logger) *Resolver {
	return &Resolver{
		secrets: secrets,
		apps:    github.NewClient(nil),
		logger:  logger,
		now:     time.Now,
	}
}

// Token fetches the App private key named secretName, signs an App JWT with
// clientID as issuer and exchanges it for an installation token scoped to org.
// The token is only held in memory.
func (r *Resolver) Token(ctx context.Context, org, clientID, secretName string) (string, error) {
	pem, err := r.secrets.Secret(ctx, secretName)
	if err != nil {
		return "", &domain.AuthenticationError{Step: "fetch secret", Err: fmt.Errorf("failed to read secret %s: %w", secretName, err)}
	}
	if pem == "" {
		return "", &domain.AuthenticationError{
			Step: "fetch secret",
			Err:  fmt.Errorf("secret %s not found in AWS Secret Manager. Please check your environment variables", secretName),
		}
	}
	r.logger.Debug("Private key retrieved from secret store", "secret", secretName)

	appJWT, err := r.signAppJWT(clientID, []byte(pem))
	if err != nil {
		return "", &domain.AuthenticationError{Step: "sign app jwt", Err: err}
	}

	apps := r.apps.WithAuthToken(appJWT)
	installation, _, err := apps.Apps.FindOrganizationInstallation(ctx, org)
	if err != nil {
		return "", &domain.AuthenticationError{Step: "find installation", Err: fmt.Errorf("failed to find app installation for %s: %w", org, err)}
	}

	token, _, err := apps.Apps.CreateInstallationToken(ctx, installation.GetID(), nil)
	if err != nil {
		return "", &domain.AuthenticationError{Step: "create installation token", Err: err}
	}
	if token.GetToken() == "" {
		return "", &domain.AuthenticationError{Step: "create installation token", Err: errors.New("GitHub returned an empty installation token")}
	}
	r.logger.Info("Installation access token retrieved", "org", org, "installation_id", installation.GetID(), "expires_at", token.GetExpiresAt().Time)
	return token.GetToken(), nil
}

func (r *Resolver) signAppJWT(clientID string, pem []byte) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return "", fmt.Errorf("secret is not a valid RSA private key: %w", err)
	}
	now := r.now()
	claims := jwt.RegisteredClaims{
		Issuer:    clientID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtClockSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
