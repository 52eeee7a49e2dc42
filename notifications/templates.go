package notifications

import (
	"bytes"
	"html/template"
)

const ResetPasswordSubject = "Password recovery"

var resetPasswordTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #f4f4f7; color: #51545E; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .content { background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1); overflow: hidden; }
    .header { background-color: #2563EB; padding: 30px; text-align: center; }
    .header h1 { color: #ffffff; margin: 0; font-size: 24px; }
    .body { padding: 30px; line-height: 1.6; }
    .button-container { text-align: center; margin: 30px 0; }
    .button { background-color: #2563EB; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block; }
    .footer { text-align: center; padding: 20px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="container">
    <div class="content">
      <div class="header"><h1>Account recovery</h1></div>
      <div class="body">
        <p>Hi <strong>{{.Name}}</strong>,</p>
        <p>We received a request to reset your password. Use the button below to choose a new one.</p>
        <div class="button-container">
          <a href="{{.ResetURL}}" class="button">Reset password</a>
        </div>
        <p>This link expires in {{.ExpiresInMinutes}} minutes. If you did not ask for it, you can ignore this email.</p>
        <p>If the button does not work, copy this link into your browser:<br><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
      </div>
    </div>
    <div class="footer">This is an automated message, please do not reply.</div>
  </div>
</body>
</html>`))

// ResetPasswordData feeds the password reset template.
type ResetPasswordData struct {
	Name             string
	ResetURL         string
	ExpiresInMinutes int
}

func RenderResetPassword(data ResetPasswordData) (string, error) {
	var buf bytes.Buffer
	if err := resetPasswordTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
