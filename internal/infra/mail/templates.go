package mail

import (
	"fmt"
	stdhtml "html"
	"strings"
)

func VerificationMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Verify your account",
		Text: fmt.Sprintf("Welcome to the academy!\n\nVerify your email address by visiting:\n%s\n\nThis link expires in 24 hours.\n", link),
		HTML: fmt.Sprintf(`<p>Welcome to the academy!</p><p><a href="%s">Verify your email address</a></p><p>This link expires in 24 hours.</p>`, link),
	}
}

func PasswordResetMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text: fmt.Sprintf("We received a request to reset your password. Visit:\n%s\n\nThis link expires in 30 minutes. If you did not ask for it, ignore this email.\n", link),
		HTML: fmt.Sprintf(`<p>We received a request to reset your password.</p><p><a href="%s">Reset password</a></p><p>This link expires in 30 minutes.</p>`, link),
	}
}

// CommissionPaidMessage tells a referrer a commission was paid out.
func CommissionPaidMessage(to string, amountCents int64, currency, notes string) Message {
	amount := FormatAmount(amountCents, currency)
	text := fmt.Sprintf("Good news! A referral commission of %s has been paid to you.\n", amount)
	html := fmt.Sprintf(`<p>Good news! A referral commission of <strong>%s</strong> has been paid to you.</p>`, amount)
	if notes != "" {
		text += "\nNote from the team: " + notes + "\n"
		html += "<p>Note from the team: " + stdhtml.EscapeString(notes) + "</p>"
	}
	return Message{To: to, Subject: "Your referral commission was paid", Text: text, HTML: html}
}

// FormatAmount renders cents as "12.34 USD".
func FormatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	if currency == "" {
		currency = "usd"
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, strings.ToUpper(currency))
}
