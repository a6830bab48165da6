// Package sheets stores the ledger in a Google Sheets tab, one row per record
// below a fixed header row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// Header is written as the first row of the tab.
var Header = []string{"ID", "Date", "Description", "Amount", "Category", "Currency", "Original Amount"}

// Options configures a Client.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// Client implements storage.Store on top of the Sheets values API.
//
// A sheet has nowhere to keep the id counter, so loaded ledgers derive the
// next id from the highest stored one.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ storage.Store = (*Client)(nil)

// New creates a Sheets client authenticated with service account credentials.
// Inline JSON takes precedence over the credentials file.
func New(ctx context.Context, opts Options, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, opts.SpreadsheetID, opts.SheetName, logger), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Expenses"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

// Load implements storage.Store. A missing tab yields an empty ledger.
func (c *Client) Load(ctx context.Context) (*core.Ledger, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if isMissingSheet(err) {
		c.logger.DebugContext(ctx, "Sheet does not exist, starting empty", "sheet", c.sheetName)
		return core.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	l, err := parseRows(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	c.logger.DebugContext(ctx, "Ledger loaded from sheet", log.FieldCount, l.Len())
	return l, nil
}

// Save implements storage.Store by clearing the tab and writing every row
// back, creating the tab first when it does not exist.
func (c *Client) Save(ctx context.Context, l *core.Ledger) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if isMissingSheet(err) {
		err = c.addSheet(ctx)
	}
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	target := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: ledgerRows(l)}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	c.logger.DebugContext(ctx, "Ledger saved to sheet", log.FieldCount, l.Len())
	return nil
}

func (c *Client) addSheet(ctx context.Context) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: c.sheetName}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", c.sheetName, err)
	}
	c.logger.InfoContext(ctx, "Created sheet", "sheet", c.sheetName)
	return nil
}

// isMissingSheet reports whether err is the API's answer to a range that
// names a tab the spreadsheet does not have.
func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}

// parseRows converts a values matrix into a ledger. The header row and fully
// blank rows are skipped.
func parseRows(values [][]interface{}) (*core.Ledger, error) {
	l := core.NewLedger()
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(safeGet(row, 0)), Header[0]) {
			continue
		}
		e, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		l.Append(e)
	}
	return l.Normalize(), nil
}

func parseRow(row []string) (core.Expense, error) {
	var (
		e   core.Expense
		err error
	)
	if e.ID, err = strconv.ParseInt(strings.TrimSpace(safeGet(row, 0)), 10, 64); err != nil {
		return e, fmt.Errorf("invalid id %q", safeGet(row, 0))
	}
	if e.Date, err = core.ParseStoredDate(safeGet(row, 1)); err != nil {
		return e, err
	}
	e.Description = safeGet(row, 2)
	if e.Amount, err = parseCell(safeGet(row, 3)); err != nil {
		return e, fmt.Errorf("amount: %w", err)
	}
	e.Category = safeGet(row, 4)
	e.Currency = safeGet(row, 5)
	if e.OriginalAmount, err = parseCell(safeGet(row, 6)); err != nil {
		return e, fmt.Errorf("original amount: %w", err)
	}
	return e, nil
}

func parseCell(s string) (core.Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return core.Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, s)
	}
	return core.NewMoney(d), nil
}

// ledgerRows renders l as the header row followed by one row per record.
func ledgerRows(l *core.Ledger) [][]interface{} {
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows := [][]interface{}{header}
	if l == nil {
		return rows
	}
	for _, e := range l.Expenses {
		rows = append(rows, []interface{}{
			e.ID, e.Date.String(), e.Description, e.Amount.String(),
			e.Category, e.Currency, e.OriginalAmount.String(),
		})
	}
	return rows
}

// toStrings keeps cell text as stored; id, date and number cells are trimmed
// where they are parsed.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
