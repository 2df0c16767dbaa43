package mail

import (
	"fmt"
	"strings"
	"text/template"
)

// OTPData feeds the one-time-password mail templates.
type OTPData struct {
	AppName string
	OTP     string
	Link    string
}

var otpTemplates = map[string]*template.Template{
	"otp": template.Must(template.New("otp").Parse(
		"Your {{.AppName}} one-time password is: {{.OTP}}\n\nConfirm your address: {{.Link}}\n")),
	"otp-short": template.Must(template.New("otp-short").Parse(
		"{{.AppName}} code is: {{.OTP}}\n{{.Link}}\n")),
}

// RenderOTP renders the named OTP mail body. Unknown names fall back to
// the default template.
func RenderOTP(name string, data OTPData) (string, error) {
	tmpl, ok := otpTemplates[name]
	if !ok {
		tmpl = otpTemplates["otp"]
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render otp mail %q: %w", name, err)
	}
	return b.String(), nil
}
