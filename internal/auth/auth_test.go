package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2/google"
)

func fakeAuthenticator(haveCreds bool, gcloud bool, loginGrants bool) (*Authenticator, *int) {
	runs := 0
	a := &Authenticator{
		find: func(ctx context.Context, scopes ...string) (*google.Credentials, error) {
			if haveCreds {
				return &google.Credentials{ProjectID: "test"}, nil
			}
			return nil, errors.New("could not find default credentials")
		},
		lookPath: func(file string) (string, error) {
			if gcloud {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("executable file not found")
		},
	}
	a.run = func(ctx context.Context, name string, args ...string) error {
		runs++
		if loginGrants {
			haveCreds = true
		}
		return nil
	}
	return a, &runs
}

func TestEnsureLogin(t *testing.T) {
	tests := []struct {
		name     string
		creds    bool
		gcloud   bool
		grants   bool
		wantErr  error
		wantRuns int
	}{
		{"already logged in", true, true, false, nil, 0},
		{"login succeeds", false, true, true, nil, 1},
		{"login leaves no credentials", false, true, false, ErrNoCredentials, 1},
		{"no gcloud", false, false, false, ErrGcloudNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, runs := fakeAuthenticator(tt.creds, tt.gcloud, tt.grants)
			err := a.EnsureLogin(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("EnsureLogin() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("EnsureLogin() error = %v, want %v", err, tt.wantErr)
			}
			if *runs != tt.wantRuns {
				t.Errorf("gcloud ran %d times, want %d", *runs, tt.wantRuns)
			}
		})
	}
}
