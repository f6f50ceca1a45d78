package mailer

import (
	"fmt"
	"strings"
	"time"
)

// VerificationLink builds the email verification URL for the given plaintext
// token.
func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(baseURL, "/"), token)
}

// ResetLink builds the password reset URL for the given plaintext token.
func ResetLink(baseURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(baseURL, "/"), token)
}

// NewVerificationMessage builds the email sent after signup (and on resend)
// asking the user to confirm their address.
func NewVerificationMessage(to, name, baseURL, token string, ttl time.Duration) Message {
	link := VerificationLink(baseURL, token)

	html := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Welcome to the building regulations assistant. Please confirm your email
address by following the link below:</p>
<p><a href="%s">%s</a></p>
<p>The link expires in %s. If you did not create this account, you can ignore
this email.</p>
</body></html>`, name, link, link, formatTTL(ttl))

	return Message{
		To:      to,
		Subject: "Confirm your email address",
		HTML:    html,
	}
}

// NewPasswordResetMessage builds the email sent in response to a
// forgot-password request.
func NewPasswordResetMessage(to, name, baseURL, token string, ttl time.Duration) Message {
	link := ResetLink(baseURL, token)

	html := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset the password for your account. Follow the
link below to choose a new password:</p>
<p><a href="%s">%s</a></p>
<p>The link expires in %s. If you did not request a password reset, no action
is needed and your password has not changed.</p>
</body></html>`, name, link, link, formatTTL(ttl))

	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML:    html,
	}
}

// formatTTL renders a token lifetime in whole hours or minutes for the email
// body.
func formatTTL(ttl time.Duration) string {
	if ttl >= time.Hour {
		hours := int(ttl.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}

	minutes := int(ttl.Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
