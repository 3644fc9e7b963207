package submissions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab the submission form writes to.
const DefaultSheetName = "Tabellenblatt1"

// GoogleConfig locates the submission spreadsheet and the service account
// allowed to edit it. A readable CredentialsFile wins over the email/key
// pair.
type GoogleConfig struct {
	SpreadsheetID       string
	SheetName           string
	CredentialsFile     string
	ServiceAccountEmail string
	PrivateKey          string
}

// GoogleStore keeps submissions in a Google Sheets tab.
type GoogleStore struct {
	svc   *sheets.Service
	id    string
	sheet string
}

// NewGoogleStore authenticates with the configured service account.
func NewGoogleStore(ctx context.Context, cfg GoogleConfig) (*GoogleStore, error) {
	opt, err := credentialsOption(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewGoogleStoreWithOptions(ctx, cfg.SpreadsheetID, cfg.SheetName, opt)
}

// NewGoogleStoreWithOptions builds a store from explicit client options.
func NewGoogleStoreWithOptions(ctx context.Context, spreadsheetID, sheetName string, opts ...option.ClientOption) (*GoogleStore, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is empty")
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &GoogleStore{svc: svc, id: spreadsheetID, sheet: sheetName}, nil
}

func credentialsOption(ctx context.Context, cfg GoogleConfig) (option.ClientOption, error) {
	if cfg.CredentialsFile != "" {
		if b, err := os.ReadFile(cfg.CredentialsFile); err == nil {
			creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", cfg.CredentialsFile, err)
			}
			return option.WithCredentials(creds), nil
		}
	}

	if cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" {
		return nil, ErrNoCredentials
	}
	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return option.WithHTTPClient(conf.Client(ctx)), nil
}

func (s *GoogleStore) Rows(ctx context.Context) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.id, s.sheet+"!A:M").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.sheet, err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	rows := make([]Row, 0, len(resp.Values)-1)
	for _, vals := range resp.Values[1:] {
		rows = append(rows, FromValues(vals))
	}
	return rows, nil
}

// UpdateStatus writes column M of data row n. The header occupies sheet row
// 1, so data row n lives on sheet row n+1.
func (s *GoogleStore) UpdateStatus(ctx context.Context, n int, status string) error {
	if n < 1 {
		return ErrRowOutOfRange
	}
	rng := fmt.Sprintf("%s!M%d", s.sheet, n+1)
	body := &sheets.ValueRange{Values: [][]any{{status}}}
	if _, err := s.svc.Spreadsheets.Values.Update(s.id, rng, body).ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (s *GoogleStore) Append(ctx context.Context, row Row) error {
	body := &sheets.ValueRange{Values: [][]any{row.Values()}}
	if _, err := s.svc.Spreadsheets.Values.Append(s.id, s.sheet+"!A:M", body).ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("append to %s: %w", s.sheet, err)
	}
	return nil
}
