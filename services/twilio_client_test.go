package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *TwilioVerifyClient {
	c := NewTwilioVerifyClient("AC_test", "token_test", "VA_test")
	c.lookupBaseURL = srv.URL
	c.verifyBaseURL = srv.URL
	return c
}

func TestLookupPhoneNumber(t *testing.T) {
	t.Run("Success - returns normalized number", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/PhoneNumbers/+15551234567", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "AC_test", user)
			assert.Equal(t, "token_test", pass)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"phone_number": "+15551234567", "country_code": "US"}`))
		}))
		defer srv.Close()

		number, err := newTestClient(srv).LookupPhoneNumber(context.Background(), "+15551234567")
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", number)
	})

	t.Run("Failure - unknown number maps to invalid input", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code": 20404, "message": "The requested resource was not found"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv).LookupPhoneNumber(context.Background(), "garbage")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		assert.Equal(t, "Invalid phone number", apperr.Message(err))
	})

	t.Run("Failure - platform error maps to upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code": 20500, "message": "Internal server error"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv).LookupPhoneNumber(context.Background(), "+15551234567")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	})
}

func TestStartVerification(t *testing.T) {
	t.Run("Success - sends sms channel and returns pending", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/Services/VA_test/Verifications", r.URL.Path)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "+15551234567", r.PostForm.Get("To"))
			assert.Equal(t, "sms", r.PostForm.Get("Channel"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "pending"}`))
		}))
		defer srv.Close()

		status, err := newTestClient(srv).StartVerification(context.Background(), "+15551234567")
		require.NoError(t, err)
		assert.Equal(t, VerificationPending, status)
	})

	t.Run("Failure - platform rejection is upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code": 60203, "message": "Max send attempts reached"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv).StartVerification(context.Background(), "+15551234567")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
		assert.Equal(t, "Failed to send verification code", apperr.Message(err))
	})
}

func TestCheckVerification(t *testing.T) {
	t.Run("Success - approved code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Services/VA_test/VerificationChecks", r.URL.Path)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "+15551234567", r.PostForm.Get("To"))
			assert.Equal(t, "000000", r.PostForm.Get("Code"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "approved"}`))
		}))
		defer srv.Close()

		status, err := newTestClient(srv).CheckVerification(context.Background(), "+15551234567", "000000")
		require.NoError(t, err)
		assert.Equal(t, VerificationApproved, status)
	})

	t.Run("Success - wrong code reports pending, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "pending"}`))
		}))
		defer srv.Close()

		status, err := newTestClient(srv).CheckVerification(context.Background(), "+15551234567", "999999")
		require.NoError(t, err)
		assert.Equal(t, VerificationPending, status)
	})
}
