package gcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// InstalledAppAuth runs the one-time consent flow for installed-app
// credentials and stores the resulting token for NewClientFromCredentialsFile.
type InstalledAppAuth struct {
	cfg *oauth2.Config
}

// NewInstalledAppAuth parses installed-app credentials JSON.
func NewInstalledAppAuth(credentialsJSON []byte) (*InstalledAppAuth, error) {
	cfg, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("not an installed-app credentials file: %w", err)
	}
	return &InstalledAppAuth{cfg: cfg}, nil
}

// AuthCodeURL is the consent page the user opens in a browser.
func (a *InstalledAppAuth) AuthCodeURL(state string) string {
	return a.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for a token and writes it to tokenPath.
func (a *InstalledAppAuth) Exchange(ctx context.Context, code, tokenPath string) error {
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	return SaveToken(tokenPath, tok)
}

// SaveToken writes tok as JSON, readable only by the owner.
func SaveToken(tokenPath string, tok *oauth2.Token) error {
	f, err := os.OpenFile(tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", tokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write %s: %w", tokenPath, err)
	}
	return nil
}
