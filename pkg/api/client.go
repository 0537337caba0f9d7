package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// API CLIENT
//
// Talks to the Django backend of the print shop. All mutating requests carry
// the CSRF token both as the X-CSRFToken header and the csrfmiddlewaretoken
// form field. Requests are never retried; a failure is surfaced to the caller
// and retrying is always a new user action.

type Client struct {
	baseURL       string
	csrfToken     string
	sessionCookie string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewClient(baseURL, csrfToken, sessionCookie string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		csrfToken:     csrfToken,
		sessionCookie: sessionCookie,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e envelope) status() (bool, string) {
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	return e.Success, msg
}

type responder interface {
	status() (bool, string)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-CSRFToken", c.csrfToken)

	cookie := "csrftoken=" + c.csrfToken
	if c.sessionCookie != "" {
		cookie += "; sessionid=" + c.sessionCookie
	}
	req.Header.Set("Cookie", cookie)
}

func (c *Client) do(req *http.Request, out responder) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if ok, msg := out.status(); !ok {
		return &ServerError{Message: msg}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out responder) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out responder) error {
	form.Set("csrfmiddlewaretoken", c.csrfToken)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out responder) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// UpdateClientField persists a single client field and returns the canonical
// client record echoed by the server.
func (c *Client) UpdateClientField(ctx context.Context, clientID int64, field, value string) (*ClientRecord, error) {
	form := url.Values{}
	form.Set("field_name", field)
	form.Set("new_value", value)

	var resp struct {
		envelope
		Client *ClientRecord `json:"client"`
	}
	path := fmt.Sprintf("/baza_klientov/api/update_client/%d/", clientID)
	if err := c.postForm(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	if resp.Client == nil {
		return nil, fmt.Errorf("missing client in response")
	}
	return resp.Client, nil
}

// UpdateContactField persists a single contact field and returns the canonical
// contact echoed by the server.
func (c *Client) UpdateContactField(ctx context.Context, contactID int64, field, value string) (*Contact, error) {
	form := url.Values{}
	form.Set("field_name", field)
	form.Set("new_value", value)

	var resp struct {
		envelope
		Contact *Contact `json:"contact"`
	}
	path := fmt.Sprintf("/baza_klientov/api/update_contact/%d/", contactID)
	if err := c.postForm(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	if resp.Contact == nil {
		return nil, fmt.Errorf("missing contact in response")
	}
	return resp.Contact, nil
}

func (c *Client) DeleteClient(ctx context.Context, clientID int64) (string, error) {
	var resp envelope
	path := fmt.Sprintf("/baza_klientov/delete_client/%d/", clientID)
	if err := c.postForm(ctx, path, url.Values{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) DeleteContact(ctx context.Context, contactID int64) (string, error) {
	var resp envelope
	path := fmt.Sprintf("/baza_klientov/delete_contact/%d/", contactID)
	if err := c.postForm(ctx, path, url.Values{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RecalculateComponents asks the server to recompute component prices for a
// new circulation. Returns the number of updated components and the server
// message.
func (c *Client) RecalculateComponents(ctx context.Context, proschetID int64, circulation int) (int, string, error) {
	form := url.Values{}
	form.Set("circulation", strconv.Itoa(circulation))

	var resp struct {
		envelope
		UpdatedCount int `json:"updated_count"`
	}
	path := fmt.Sprintf("/calculator/recalculate-components/%d/", proschetID)
	if err := c.postForm(ctx, path, form, &resp); err != nil {
		return 0, "", err
	}
	return resp.UpdatedCount, resp.Message, nil
}

// GetProschetPriceData loads the print components and additional works that
// make up a proschet's price.
func (c *Client) GetProschetPriceData(ctx context.Context, proschetID int64) ([]PrintComponent, []AdditionalWork, error) {
	var resp struct {
		envelope
		PrintComponents []PrintComponent `json:"print_components"`
		AdditionalWorks []AdditionalWork `json:"additional_works"`
	}
	path := fmt.Sprintf("/calculator/get-proschet-price-data/%d/", proschetID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, nil, err
	}
	return resp.PrintComponents, resp.AdditionalWorks, nil
}

func (c *Client) GetSheetCalc(ctx context.Context, componentID int64) (*SheetCalcParams, error) {
	var resp struct {
		envelope
		Data *SheetCalcParams `json:"data"`
	}
	path := fmt.Sprintf("/vichisliniya_listov/get-data/%d/", componentID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("missing sheet-calc data in response")
	}
	return resp.Data, nil
}

func (c *Client) SaveSheetCalc(ctx context.Context, componentID int64, params SheetCalcParams) (*SheetCalcParams, error) {
	body := struct {
		PrintComponentID int64 `json:"print_component_id"`
		SheetCalcParams
	}{PrintComponentID: componentID, SheetCalcParams: params}

	var resp struct {
		envelope
		Data *SheetCalcParams `json:"data"`
	}
	if err := c.postJSON(ctx, "/vichisliniya_listov/save-data/", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		// Some deployments echo nothing; keep the submitted values then.
		return &params, nil
	}
	return resp.Data, nil
}

// CalculateSheetCount asks the server to compute the sheet count for a
// component and circulation. The response echoes the formula it applied.
func (c *Client) CalculateSheetCount(ctx context.Context, componentID int64, circulation int) (*SheetCountResult, error) {
	var resp struct {
		envelope
		SheetCountResult
	}
	path := fmt.Sprintf("/vichisliniya_listov/calculate/%d/%d/", componentID, circulation)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp.SheetCountResult, nil
}

func (c *Client) UpdatePrintPriceEntry(ctx context.Context, entryID int64, field, value string) (*PrintPriceEntry, error) {
	form := url.Values{}
	form.Set("field_name", field)
	form.Set("new_value", value)

	var resp struct {
		envelope
		Entry *PrintPriceEntry `json:"price"`
	}
	path := fmt.Sprintf("/print_price/api/update/%d/", entryID)
	if err := c.postForm(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	if resp.Entry == nil {
		return nil, fmt.Errorf("missing price entry in response")
	}
	return resp.Entry, nil
}

func (c *Client) UpdateInterpolationMethod(ctx context.Context, printerID int64, method string) error {
	form := url.Values{}
	form.Set("interpolation_method", method)

	var resp envelope
	path := fmt.Sprintf("/print_price/api/update_interpolation_method/%d/", printerID)
	return c.postForm(ctx, path, form, &resp)
}

func (c *Client) CalculateArbitraryPrice(ctx context.Context, printerID int64, copies int) (*ArbitraryPriceResult, error) {
	form := url.Values{}
	form.Set("arbitrary_copies", strconv.Itoa(copies))

	var resp struct {
		envelope
		ArbitraryPriceResult
	}
	path := fmt.Sprintf("/print_price/api/calculate_arbitrary_price/%d/", printerID)
	if err := c.postForm(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	return &resp.ArbitraryPriceResult, nil
}
