package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

type Sender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSender(host, port, username, password, from string) *Sender {
	return &Sender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1>Welcome to Pactchat!</h1>
        <p>Hi {{.Username}},</p>
        <p>Your account is ready. Before you can exchange messages, remember to:</p>
        <ol>
            <li>Set your encryption secret — it protects every message you send and receive.</li>
            <li>Send a connection request to someone and wait for them to accept.</li>
        </ol>
        <p>Messages are stored encrypted; without your secret they cannot be read, not even by us.</p>
        <p style="font-size: 0.8em; color: #777;">If you didn't create this account, you can ignore this email.</p>
    </div>
</body>
</html>
`

// SendWelcome mails a post-registration note. With no SMTP host configured
// it logs the message to stdout instead, which keeps development and tests
// free of mail infrastructure.
func (s *Sender) SendWelcome(to, username string) error {
	t, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Username": username}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	headers := make(map[string]string)
	headers["From"] = s.From
	headers["To"] = to
	headers["Subject"] = "Welcome to Pactchat"
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"UTF-8\""

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body.String()

	if s.Host == "" {
		fmt.Println("==================================================")
		fmt.Printf("MOCK EMAIL TO: %s\n", to)
		fmt.Printf("SUBJECT: %s\n", headers["Subject"])
		fmt.Println(body.String())
		fmt.Println("==================================================")
		return nil
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(message))
}
