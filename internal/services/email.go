package services

import (
	"fmt"
	"log"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// EmailService sends transactional mail through Sendgrid. When no API key
// is configured it logs and drops messages instead of failing requests.
type EmailService struct {
	key        string
	from       *sgmail.Email
	appBaseURL string
}

func NewEmailService(apiKey, fromAddr, appBaseURL string) *EmailService {
	return &EmailService{
		key:        apiKey,
		from:       sgmail.NewEmail("Planivo", fromAddr),
		appBaseURL: appBaseURL,
	}
}

// SendInvitation mails a newly created user their temporary password.
func (svc *EmailService) SendInvitation(toEmail, firstName, tempPassword string) {
	if svc.key == "" {
		log.Printf("INFO No SENDGRID_API_KEY configured, skipping invitation to %s", toEmail)
		return
	}

	subject := "[Planivo] Your account is ready"
	text := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you.\n\nSign in at %s/login with this temporary password:\n\n%s\n\nPlease change it after your first login.\n",
		firstName, svc.appBaseURL, tempPassword,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>An account has been created for you.</p><p>Sign in at <a href=%q>%s/login</a> with this temporary password:</p><pre>%s</pre><p>Please change it after your first login.</p>",
		firstName, svc.appBaseURL+"/login", svc.appBaseURL, tempPassword,
	)

	go svc.send(toEmail, subject, text, html)
}

func (svc *EmailService) send(toEmail, subject, text, html string) {
	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", toEmail))
	m.AddPersonalizations(p)

	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)

	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Printf("ERROR sending email to %s: %v", toEmail, err)
	} else if res.StatusCode >= http.StatusBadRequest {
		log.Printf("ERROR sending email to %s - status: %d - body: %s", toEmail, res.StatusCode, res.Body)
	}
}
