package mailer

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/dathuynh/watch-store-api/internal/models"
)

// Mailer sends transactional mail. Tests substitute a fake.
type Mailer interface {
	SendOtp(to, code, otpType string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendOtp(to, code, otpType string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", otpSubject(otpType))
	msg.SetBody("text/html", otpBody(code, otpType))
	return m.dialer.DialAndSend(msg)
}

func otpSubject(otpType string) string {
	if otpType == models.OtpTypeForgotPassword {
		return "Reset Your Password - OTP Code"
	}
	return "Verify Your Email - OTP Code"
}

func otpBody(code, otpType string) string {
	title := "Email Verification"
	message := "Welcome! Please verify your email with the OTP below:"
	if otpType == models.OtpTypeForgotPassword {
		title = "Reset Password"
		message = "You requested to reset your password. Use the OTP below:"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #4F46E5; color: white; padding: 30px; text-align: center;">
      <h1>%s</h1>
    </div>
    <div style="background: #f9fafb; padding: 30px;">
      <p>Hello,</p>
      <p>%s</p>
      <div style="background: white; border: 2px dashed #4F46E5; padding: 20px; text-align: center;">
        <p style="margin: 0; color: #666;">Your OTP Code:</p>
        <div style="font-size: 36px; font-weight: bold; color: #4F46E5; letter-spacing: 8px;">%s</div>
        <p style="margin-top: 10px; color: #666; font-size: 14px;">Valid for 5 minutes</p>
      </div>
      <p><strong>Important:</strong> Do not share this code with anyone.</p>
      <p>If you didn't request this, please ignore this email.</p>
    </div>
    <div style="text-align: center; color: #666; font-size: 12px;">
      <p>&copy; %d Watch Store. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`, title, message, code, time.Now().Year())
}
