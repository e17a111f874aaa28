package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// TokenProvider supplies bearer tokens for spreadsheet calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ValueRange pairs an A1 range with the cell values to write there.
type ValueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Client is a thin HTTP client over the spreadsheet values API. Rows are
// ordered lists of formatted cell text; absent trailing cells are absent, not
// null-padded.
type Client struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	spreadsheetID string
	tokens        TokenProvider
	httpClient    *http.Client
}

// NewClient builds a spreadsheet client for one spreadsheet.
func NewClient(spreadsheetID string, tokens TokenProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL:       defaultBaseURL,
		spreadsheetID: spreadsheetID,
		tokens:        tokens,
		httpClient:    httpClient,
	}
}

// Values reads all populated rows of the given A1 range.
func (c *Client) Values(ctx context.Context, rangeSpec string) ([][]string, error) {
	var payload struct {
		Values [][]interface{} `json:"values"`
	}
	path := fmt.Sprintf("/values/%s", url.PathEscape(rangeSpec))
	if err := c.call(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	rows := make([][]string, len(payload.Values))
	for i, raw := range payload.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellText(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// UpdateRange overwrites exactly the given A1 range with the provided rows.
func (c *Client) UpdateRange(ctx context.Context, rangeSpec string, values [][]string) error {
	body := map[string]interface{}{"values": values}
	path := fmt.Sprintf("/values/%s?valueInputOption=USER_ENTERED", url.PathEscape(rangeSpec))
	return c.call(ctx, http.MethodPut, path, body, nil)
}

// Append writes rows immediately after the current last populated row of the
// sheet, as a single exact-range update.
func (c *Client) Append(ctx context.Context, sheetName string, values [][]string) error {
	if len(values) == 0 {
		return nil
	}

	lastRow, err := c.LastRow(ctx, sheetName)
	if err != nil {
		return err
	}
	startRow := lastRow + 1
	endRow := startRow + len(values) - 1
	endCol := columnLetter(len(values[0]))

	rangeSpec := fmt.Sprintf("'%s'!A%d:%s%d", sheetName, startRow, endCol, endRow)
	return c.UpdateRange(ctx, rangeSpec, values)
}

// BatchUpdate applies every value range in one API call.
func (c *Client) BatchUpdate(ctx context.Context, updates []ValueRange) error {
	if len(updates) == 0 {
		return nil
	}
	body := map[string]interface{}{
		"valueInputOption": "USER_ENTERED",
		"data":             updates,
	}
	return c.call(ctx, http.MethodPost, "/values:batchUpdate", body, nil)
}

// Clear blanks the cells of the given A1 range without removing the row.
func (c *Client) Clear(ctx context.Context, rangeSpec string) error {
	path := fmt.Sprintf("/values/%s:clear", url.PathEscape(rangeSpec))
	return c.call(ctx, http.MethodPost, path, map[string]interface{}{}, nil)
}

// LastRow returns the 1-based index of the last populated row of the sheet.
func (c *Client) LastRow(ctx context.Context, sheetName string) (int, error) {
	rows, err := c.Values(ctx, fmt.Sprintf("%s!A:A", sheetName))
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SheetID resolves a sheet title to its numeric identifier.
func (c *Client) SheetID(ctx context.Context, sheetName string) (int64, error) {
	var payload struct {
		Sheets []struct {
			Properties struct {
				SheetID int64  `json:"sheetId"`
				Title   string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.call(ctx, http.MethodGet, "", nil, &payload); err != nil {
		return 0, err
	}
	for _, sheet := range payload.Sheets {
		if sheet.Properties.Title == sheetName {
			return sheet.Properties.SheetID, nil
		}
	}
	return 0, fmt.Errorf("sheets: sheet %q not found", sheetName)
}

// DeleteRows removes whole rows by 1-based row number in a single structural
// batch call. Rows are deleted bottom-up so earlier deletions do not shift
// the positions of later ones.
func (c *Client) DeleteRows(ctx context.Context, sheetName string, rowNumbers []int) error {
	if len(rowNumbers) == 0 {
		return nil
	}

	sheetID, err := c.SheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	sorted := append([]int(nil), rowNumbers...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	requests := make([]map[string]interface{}, 0, len(sorted))
	for _, rowNumber := range sorted {
		requests = append(requests, map[string]interface{}{
			"deleteDimension": map[string]interface{}{
				"range": map[string]interface{}{
					"sheetId":    sheetID,
					"dimension":  "ROWS",
					"startIndex": rowNumber - 1,
					"endIndex":   rowNumber,
				},
			},
		})
	}

	body := map[string]interface{}{"requests": requests}
	return c.call(ctx, http.MethodPost, ":batchUpdate", body, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sheets: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := fmt.Sprintf("%s/%s%s", c.BaseURL, c.spreadsheetID, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sheets: %s %s returned %d: %s", method, path, resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sheets: decode response: %w", err)
	}
	return nil
}

// cellText renders an API cell value as text. The values API reports
// formatted values, but numeric cells may still decode as float64.
func cellText(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// columnLetter maps a 1-based column count to its A1 letter (A..Z only; the
// dispute sheet has 15 columns).
func columnLetter(n int) string {
	if n < 1 || n > 26 {
		n = 26
	}
	return string(rune('A' + n - 1))
}
