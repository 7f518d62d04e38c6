package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkout-service/apperr"
)

const (
	defaultLookupBaseURL = "https://lookups.twilio.com/v1"
	defaultVerifyBaseURL = "https://verify.twilio.com/v2"
)

// Verification statuses reported by the verification platform.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
)

// VerifyClient is everything the checkout flow needs from the phone
// verification platform.
type VerifyClient interface {
	// LookupPhoneNumber validates a phone number and returns it in E.164 form.
	LookupPhoneNumber(ctx context.Context, phone string) (string, error)
	// StartVerification sends a one-time code over SMS and returns the
	// verification status ("pending" on success).
	StartVerification(ctx context.Context, phone string) (string, error)
	// CheckVerification submits a code and returns the resulting status.
	CheckVerification(ctx context.Context, phone, code string) (string, error)
}

type TwilioVerifyClient struct {
	accountSID    string
	authToken     string
	verifyService string
	lookupBaseURL string
	verifyBaseURL string
	httpClient    *http.Client
}

func NewTwilioVerifyClient(accountSID, authToken, verifyService string) *TwilioVerifyClient {
	return &TwilioVerifyClient{
		accountSID:    accountSID,
		authToken:     authToken,
		verifyService: verifyService,
		lookupBaseURL: defaultLookupBaseURL,
		verifyBaseURL: defaultVerifyBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TwilioVerifyClient) LookupPhoneNumber(ctx context.Context, phone string) (string, error) {
	apiURL := fmt.Sprintf("%s/PhoneNumbers/%s", t.lookupBaseURL, url.PathEscape(phone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", apperr.New(apperr.KindUpstream, "Phone lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", apperr.New(apperr.KindInvalidInput, "Invalid phone number", twilioError(resp))
	}
	if resp.StatusCode >= 300 {
		return "", apperr.New(apperr.KindUpstream, "Phone lookup failed", twilioError(resp))
	}

	var body struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.New(apperr.KindUpstream, "Phone lookup failed", err)
	}
	return body.PhoneNumber, nil
}

func (t *TwilioVerifyClient) StartVerification(ctx context.Context, phone string) (string, error) {
	apiURL := fmt.Sprintf("%s/Services/%s/Verifications", t.verifyBaseURL, t.verifyService)

	formData := url.Values{}
	formData.Set("To", phone)
	formData.Set("Channel", "sms")

	return t.postVerification(ctx, apiURL, formData, "Failed to send verification code")
}

func (t *TwilioVerifyClient) CheckVerification(ctx context.Context, phone, code string) (string, error) {
	apiURL := fmt.Sprintf("%s/Services/%s/VerificationChecks", t.verifyBaseURL, t.verifyService)

	formData := url.Values{}
	formData.Set("To", phone)
	formData.Set("Code", code)

	return t.postVerification(ctx, apiURL, formData, "Failed to check verification code")
}

func (t *TwilioVerifyClient) postVerification(ctx context.Context, apiURL string, formData url.Values, failMsg string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", apperr.New(apperr.KindUpstream, failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", apperr.New(apperr.KindUpstream, failMsg, twilioError(resp))
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.New(apperr.KindUpstream, failMsg, err)
	}
	return body.Status, nil
}

// twilioError turns a non-2xx Twilio response into an error carrying the
// platform's message when one is present.
func twilioError(resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &body); err == nil && body.Message != "" {
		return fmt.Errorf("twilio error %s (code %d): %s", resp.Status, body.Code, body.Message)
	}
	return fmt.Errorf("twilio error %s: %s", resp.Status, string(respBody))
}
