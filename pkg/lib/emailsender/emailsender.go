package emailsender

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/gomail.v2"

	"redunap/config"
)

type EmailSender struct {
	SmtpServer *gomail.Dialer
	fromEmail  string
}

func New(cfg config.SMTPConfig) (*EmailSender, error) {
	// Пароль приложения для cfg.Username берём из окружения.
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, os.Getenv("SMTP_PASSWORD"))

	conn, err := d.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server %s:%d for user %s: %w", cfg.Host, cfg.Port, cfg.Username, err)
	}
	defer conn.Close()

	return &EmailSender{SmtpServer: d, fromEmail: cfg.Username}, nil
}

// SendWelcomeEmail отправляет приветственное письмо после регистрации.
// Отправка best-effort: неудача логируется вызывающим кодом и не откатывает регистрацию.
func (e *EmailSender) SendWelcomeEmail(recipientEmail string, username string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.fromEmail)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", "¡Bienvenido a RED UNAP!")

	body := `<!DOCTYPE html>
    <html lang="es">
    <head>
        <meta charset="UTF-8">
        <meta name="viewport" content="width=device-width, initial-scale=1.0">
        <title>Bienvenido - RED UNAP</title>
        <style>
            body {
                font-family: "Montserrat", sans-serif;
                background-color: #f4f4f4;
                margin: 0;
                padding: 20px;
                color: #333;
            }
            .container {
                max-width: 600px;
                margin: auto;
                background: white;
                padding: 20px;
                border-radius: 8px;
                box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            }
            h1 {
                color: #2c3e50;
                font-weight: 700;
                font-size: 28px;
                text-align: center;
            }
            p {
                font-size: 16px;
                line-height: 1.6;
                color: #333;
            }
            .footer {
                font-size: 12px;
                color: #777;
                text-align: center;
                margin-top: 30px;
                padding-top: 15px;
                border-top: 1px solid #eee;
            }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>¡Bienvenido a RED UNAP!</h1>
            <p>Hola ` + username + `,</p>
            <p>Gracias por registrarte en la comunidad de noticias de la universidad.
            Mantente al día con las últimas historias y no olvides configurar tus
            notificaciones de WhatsApp desde tu perfil para no perderte nada.</p>
            <p>Si no creaste esta cuenta, puedes ignorar este correo.</p>
        </div>
        <div class="footer">
            <p>© ` + fmt.Sprint(time.Now().Year()) + ` RED UNAP.</p>
        </div>
    </body>
    </html>`
	m.SetBody("text/html", body)

	if err := e.SmtpServer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", recipientEmail, err)
	}
	return nil
}
