package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "bookbuy@admin.com"})
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := m.Send(context.Background(), "Activation Token", "u@x.com", "your token: abc")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"u@x.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Activation Token\r\n")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\nyour token: abc"))
}

func TestSMTPMailer_WrapsError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), "s", "u@x.com", "b")
	assert.ErrorContains(t, err, "failed to send email")
}

func TestAPIMailer_PostsJSON(t *testing.T) {
	var got apiMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewAPIMailer(srv.URL, "key-123", "bookbuy@admin.com")
	err := m.Send(context.Background(), "Hello", "u@x.com", "body")
	require.NoError(t, err)

	assert.Equal(t, []string{"u@x.com"}, got.To)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "bookbuy@admin.com", got.From)
}

func TestAPIMailer_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad sender", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewAPIMailer(srv.URL, "k", "f@x.com").Send(context.Background(), "s", "u@x.com", "b")
	assert.ErrorContains(t, err, "status 422")
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string) error {
	return errors.New("smtp down")
}

func TestMailDispatcher_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewMailDispatcher(failingMailer{}, zap.New(core))

	d.SendAsync("s", "u@x.com", "b")
	d.Wait()

	entries := logs.FilterMessage("Error sending email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}
