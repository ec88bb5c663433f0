package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("Hotel <front@hotel.test>", Mail{
		To:      "guest@example.com",
		Subject: "Booking\r\nBcc: evil@example.com",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}))

	assert.Contains(t, msg, "From: Hotel <front@hotel.test>\r\n")
	assert.Contains(t, msg, "To: guest@example.com\r\n")
	// header injection is flattened onto the subject line
	assert.Contains(t, msg, "Subject: Booking  Bcc: evil@example.com\r\n")
	assert.Contains(t, msg, `boundary="----=_HOTEL_EMAIL_BOUNDARY"`)
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n\r\nplain body")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n\r\n<p>html body</p>")
	assert.True(t, strings.HasSuffix(msg, "------=_HOTEL_EMAIL_BOUNDARY--\r\n"))
}

func TestBuildMessage_TextOnly(t *testing.T) {
	msg := string(BuildMessage("Hotel <front@hotel.test>", Mail{To: "a@b.c", Subject: "s", Text: "t"}))

	assert.NotContains(t, msg, "text/html")
}

func TestSendMail_NotConfigured(t *testing.T) {
	err := SendMail(SMTPConfig{Host: "smtp.example.com"}, Mail{To: "a@b.c"})

	assert.ErrorIs(t, err, ErrMailNotConfigured)
}

func TestSendMail_EmptyRecipient(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "u", Password: "p"}

	err := SendMail(cfg, Mail{To: " "})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMailNotConfigured)
}

func TestHTMLEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; &quot;Jerry&quot; &#39;s&lt;/b&gt;", HTMLEscape(`<b>Tom & "Jerry" 's</b>`))
}
