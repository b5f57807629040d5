// Package notify sends operational alerts through a DingTalk group
// robot webhook.
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/hotboard-io/hotboard/internal/observability"
)

// DingTalk posts signed markdown messages to a robot webhook. A zero
// webhook URL disables the notifier; every send becomes a no-op.
type DingTalk struct {
	webhookURL string
	secret     string
	client     *http.Client
	logger     *zerolog.Logger
	now        func() time.Time
}

// NewDingTalk builds a notifier. secret may be empty when the robot is
// configured without signature verification.
func NewDingTalk(webhookURL, secret string, timeout time.Duration, logger *zerolog.Logger) *DingTalk {
	return &DingTalk{
		webhookURL: webhookURL,
		secret:     secret,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Enabled reports whether a webhook is configured.
func (d *DingTalk) Enabled() bool {
	return d.webhookURL != ""
}

type message struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"markdown"`
}

type apiResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// sign computes the robot signature over "<timestamp>\n<secret>" with
// HMAC-SHA256, base64 then url-encoded.
func (d *DingTalk) sign(timestamp int64) string {
	if d.secret == "" {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write([]byte(fmt.Sprintf("%d\n%s", timestamp, d.secret)))

	return url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// SendMarkdown posts one markdown message, retrying transient failures
// with exponential backoff.
func (d *DingTalk) SendMarkdown(ctx context.Context, title, text string) error {
	if !d.Enabled() {
		d.logger.Debug().Msg("notifier disabled, dropping message")

		return nil
	}

	var msg message
	msg.MsgType = "markdown"
	msg.Markdown.Title = title
	msg.Markdown.Text = text

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(d.post(ctx, body))
	})
	if err != nil {
		observability.NotificationsSent.WithLabelValues("error").Inc()

		return fmt.Errorf("send notification: %w", err)
	}

	observability.NotificationsSent.WithLabelValues("ok").Inc()

	return nil
}

func (d *DingTalk) post(ctx context.Context, body []byte) error {
	target := d.webhookURL

	timestamp := d.now().UnixMilli()
	if sig := d.sign(timestamp); sig != "" {
		target += fmt.Sprintf("&timestamp=%d&sign=%s", timestamp, sig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode webhook response: %w", err)
	}

	if result.ErrCode != 0 {
		return fmt.Errorf("webhook error %d: %s", result.ErrCode, result.ErrMsg)
	}

	return nil
}

// CollectSummary alerts when some platforms failed during a collection
// run. All-success runs stay quiet.
func (d *DingTalk) CollectSummary(ctx context.Context, date string, succeeded, total int, failed []string) error {
	if succeeded == total {
		return nil
	}

	title := fmt.Sprintf("采集执行摘要 - %s", date)

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "**成功**: %d/%d\n\n", succeeded, total)
	fmt.Fprintf(&b, "**失败**: %d\n\n", total-succeeded)

	if len(failed) > 0 {
		b.WriteString("**失败的平台**:\n")

		for _, name := range failed {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return d.SendMarkdown(ctx, title, b.String())
}

// AnalysisError alerts when a scheduled analysis run fails.
func (d *DingTalk) AnalysisError(ctx context.Context, date string, cause error) error {
	title := "数据分析异常通知"
	text := fmt.Sprintf("## %s\n\n**日期**: %s\n\n**错误信息**:\n```\n%v\n```", title, date, cause)

	return d.SendMarkdown(ctx, title, text)
}
