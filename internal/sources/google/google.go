// Package google reads expenditure rows from a Google Sheets spreadsheet.
// The first row of each range is the header; its cells become row keys.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/sources"
)

var (
	_ sources.RowSource = (*Client)(nil)
	_ sources.Pinger    = (*Client)(nil)
)

type Config struct {
	SpreadsheetID    string
	ExpenditureRange string // e.g. "expenditures!A:Z"
	ExpenseRange     string
	CredentialsJSON  string
	CredentialsFile  string
}

type Client struct {
	svc    *gsheet.Service
	cfg    Config
	logger *log.Logger
}

// New authenticates with a service account and returns a row source.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.ExpenditureRange == "" {
		return nil, errors.New("missing expenditure range")
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger = logger.WithComponent(log.ComponentSources)
	logger.InfoContext(ctx, "Google Sheets row source ready", "spreadsheet_id", cfg.SpreadsheetID)
	return &Client{svc: svc, cfg: cfg, logger: logger}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (c *Client) ExpenditureRows(ctx context.Context) ([]core.Row, error) {
	return c.readRange(ctx, c.cfg.ExpenditureRange)
}

// ExpenseRows returns no rows when no expense range is configured.
func (c *Client) ExpenseRows(ctx context.Context) ([]core.Row, error) {
	if c.cfg.ExpenseRange == "" {
		return nil, nil
	}
	return c.readRange(ctx, c.cfg.ExpenseRange)
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return core.Unavailable("ping spreadsheet", err)
	}
	return nil
}

func (c *Client) readRange(ctx context.Context, rng string) ([]core.Row, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, core.Unavailable(fmt.Sprintf("read range %s", rng), err)
	}

	rows := rowsFromValues(resp.Values)
	c.logger.DebugContext(ctx, "Sheet range read", "range", rng, log.FieldRowCount, len(rows))
	return rows, nil
}
