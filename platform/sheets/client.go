// Package sheets provides a thin Google Sheets client for reading worksheet
// records and appending rows.
// This is part of the platform layer and contains no business logic.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"kasir_backend/platform/config"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// ErrSpreadsheetNotFound is returned when no spreadsheet matches the configured name.
var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

// Client reads and appends worksheet values of a single spreadsheet.
type Client struct {
	values *gsheets.SpreadsheetsValuesService
	files  *drive.FilesService

	name string

	mu            sync.Mutex
	spreadsheetID string
}

// New creates a client authenticated with the configured service account.
// When an endpoint override is set the client talks to it unauthenticated,
// which is how tests and local emulators are wired.
func New(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{
		values:        sheetsSvc.Spreadsheets.Values,
		files:         driveSvc.Files,
		name:          cfg.GetSpreadsheetName(),
		spreadsheetID: cfg.GetSpreadsheetID(),
	}, nil
}

func clientOptions(ctx context.Context, cfg config.SheetsConfig) ([]option.ClientOption, error) {
	if endpoint := cfg.GetSheetsEndpoint(); endpoint != "" {
		return []option.ClientOption{option.WithEndpoint(endpoint), option.WithoutAuthentication()}, nil
	}

	jwtCfg, err := google.JWTConfigFromJSON(cfg.GetGoogleCredentialsJSON(),
		gsheets.SpreadsheetsScope,
		drive.DriveMetadataReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(jwtCfg.TokenSource(ctx))}, nil
}

// SpreadsheetID returns the configured spreadsheet ID, resolving it by name
// through Drive on first use.
func (c *Client) SpreadsheetID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.spreadsheetID != "" {
		return c.spreadsheetID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(c.name), spreadsheetMimeType)
	list, err := c.files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", c.name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, c.name)
	}

	c.spreadsheetID = list.Files[0].Id
	return c.spreadsheetID, nil
}

// ReadTable returns every populated row of worksheet. The first row is the header.
// Cells come back unformatted, so numeric cells decode as float64.
func (c *Client) ReadTable(ctx context.Context, worksheet string) (Table, error) {
	id, err := c.SpreadsheetID(ctx)
	if err != nil {
		return Table{}, err
	}

	resp, err := c.values.Get(id, quoteSheet(worksheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return Table{}, fmt.Errorf("read worksheet %q: %w", worksheet, err)
	}

	return newTable(resp.Values), nil
}

// AppendRows appends rows below the last populated row of worksheet in a single
// API call. Values are interpreted as if typed by a user.
func (c *Client) AppendRows(ctx context.Context, worksheet string, rows [][]interface{}) error {
	id, err := c.SpreadsheetID(ctx)
	if err != nil {
		return err
	}

	_, err = c.values.Append(id, quoteSheet(worksheet)+"!A1", &gsheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         rows,
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to worksheet %q: %w", worksheet, err)
	}
	return nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, "'", `\'`)
}
