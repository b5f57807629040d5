package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	query url.Values
	msg   message
}

// webhookStub records incoming robot calls and answers with the given
// errcode.
func webhookStub(t *testing.T, errcode int, captured *[]capturedRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		*captured = append(*captured, capturedRequest{query: r.URL.Query(), msg: msg})

		fmt.Fprintf(w, `{"errcode":%d,"errmsg":"stub"}`, errcode)
	}))
}

func newTestNotifier(webhookURL, secret string) *DingTalk {
	nop := zerolog.Nop()

	d := NewDingTalk(webhookURL, secret, 5*time.Second, &nop)
	d.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	return d
}

func TestSendMarkdownSignsRequest(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 0, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "s3cret")

	require.NoError(t, d.SendMarkdown(context.Background(), "title", "**text**"))

	require.Len(t, captured, 1)

	timestamp := d.now().UnixMilli()
	assert.Equal(t, fmt.Sprintf("%d", timestamp), captured[0].query.Get("timestamp"))

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte(fmt.Sprintf("%d\ns3cret", timestamp)))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), captured[0].query.Get("sign"))

	assert.Equal(t, "markdown", captured[0].msg.MsgType)
	assert.Equal(t, "title", captured[0].msg.Markdown.Title)
	assert.Equal(t, "**text**", captured[0].msg.Markdown.Text)
}

func TestSendMarkdownWithoutSecret(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 0, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	require.NoError(t, d.SendMarkdown(context.Background(), "title", "text"))

	require.Len(t, captured, 1)
	assert.Empty(t, captured[0].query.Get("sign"))
	assert.Empty(t, captured[0].query.Get("timestamp"))
}

func TestSendMarkdownDisabled(t *testing.T) {
	d := newTestNotifier("", "secret")

	assert.False(t, d.Enabled())
	assert.NoError(t, d.SendMarkdown(context.Background(), "title", "text"))
}

func TestPostRejectsAPIError(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 310000, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	err := d.post(context.Background(), []byte(`{"msgtype":"markdown","markdown":{}}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "310000")
}

func TestPostRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	err := d.post(context.Background(), []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCollectSummaryQuietWhenAllSucceed(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 0, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	require.NoError(t, d.CollectSummary(context.Background(), "2026-08-31", 9, 9, nil))
	assert.Empty(t, captured)
}

func TestCollectSummaryReportsFailures(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 0, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	require.NoError(t, d.CollectSummary(context.Background(), "2026-08-31", 7, 9, []string{"douban", "v2ex"}))

	require.Len(t, captured, 1)
	text := captured[0].msg.Markdown.Text
	assert.Contains(t, text, "7/9")
	assert.Contains(t, text, "douban")
	assert.Contains(t, text, "v2ex")
	assert.Contains(t, captured[0].msg.Markdown.Title, "2026-08-31")
}

func TestAnalysisError(t *testing.T) {
	var captured []capturedRequest

	server := webhookStub(t, 0, &captured)
	defer server.Close()

	d := newTestNotifier(server.URL+"?access_token=token", "")

	require.NoError(t, d.AnalysisError(context.Background(), "2026-08-31", errors.New("boom")))

	require.Len(t, captured, 1)
	assert.Contains(t, captured[0].msg.Markdown.Text, "2026-08-31")
	assert.Contains(t, captured[0].msg.Markdown.Text, "boom")
}
