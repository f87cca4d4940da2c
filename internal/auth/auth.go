// Package auth finds Google Cloud credentials for the BigQuery backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"cloud.google.com/go/bigquery"
	"golang.org/x/oauth2/google"
)

// ErrGcloudNotFound is returned when a login is needed but the gcloud CLI
// is not installed.
var ErrGcloudNotFound = errors.New("gcloud CLI not found")

// ErrNoCredentials is returned when no credentials could be found or created.
var ErrNoCredentials = errors.New("no Google Cloud credentials")

// Runner starts an external command. It is swapped in tests.
type Runner func(ctx context.Context, name string, args ...string) error

// Authenticator checks for and acquires Application Default Credentials.
type Authenticator struct {
	find     func(ctx context.Context, scopes ...string) (*google.Credentials, error)
	lookPath func(file string) (string, error)
	run      Runner
}

// New returns an Authenticator backed by the environment and gcloud.
func New() *Authenticator {
	return &Authenticator{
		find:     google.FindDefaultCredentials,
		lookPath: exec.LookPath,
		run:      runInteractive,
	}
}

// HasCredentials reports whether Application Default Credentials with the
// BigQuery scope are available.
func (a *Authenticator) HasCredentials(ctx context.Context) bool {
	creds, err := a.find(ctx, bigquery.Scope)
	return err == nil && creds != nil
}

// EnsureLogin runs the gcloud application-default login flow when no
// credentials are found.
func (a *Authenticator) EnsureLogin(ctx context.Context) error {
	if a.HasCredentials(ctx) {
		return nil
	}

	gcloud, err := a.lookPath("gcloud")
	if err != nil {
		return fmt.Errorf("%w: install the Google Cloud SDK or set GOOGLE_APPLICATION_CREDENTIALS", ErrGcloudNotFound)
	}
	if err := a.run(ctx, gcloud, "auth", "application-default", "login"); err != nil {
		return fmt.Errorf("%w: gcloud login: %w", ErrNoCredentials, err)
	}
	if !a.HasCredentials(ctx) {
		return fmt.Errorf("%w: still missing after gcloud login", ErrNoCredentials)
	}
	return nil
}

func runInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
