package services

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"core/models"

	"github.com/go-mail/mail/v2"
)

// Types d'événements notifiés aux duellistes.
const (
	NotifInvitationRecue    = "invitation-received"
	NotifInvitationAcceptee = "invitation-accepted"
	NotifScoreSoumis        = "score-submitted"
	NotifDuelTermine        = "duel-finished"
)

// NotificationService envoie une notification best-effort à un dueliste.
// Les appelants loggent et avalent toute erreur : une notification perdue
// ne doit jamais faire échouer une transition de duel.
type NotificationService interface {
	Notify(destinataire *models.Dueliste, kind string, sujet string, message string) error
}

// LogNotificationService implémentation qui log les notifications (pour développement)
type LogNotificationService struct{}

func NewLogNotificationService() *LogNotificationService {
	return &LogNotificationService{}
}

func (s *LogNotificationService) Notify(destinataire *models.Dueliste, kind string, sujet string, message string) error {
	log.Printf("=== NOTIFICATION [%s] ===", kind)
	log.Printf("To: %s (dueliste %d)", destinataire.Nom, destinataire.ID)
	log.Printf("Subject: %s", sujet)
	log.Printf("Body: %s", message)
	log.Printf("=========================")
	return nil
}

// EmailNotificationService envoie les notifications par email via SMTP.
// Les duellistes sans adresse email sont simplement loggés.
type EmailNotificationService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailNotificationService() (*EmailNotificationService, error) {
	mailDSN := os.Getenv("MAIL_DSN")
	if mailDSN == "" {
		return nil, fmt.Errorf("MAIL_DSN environment variable is required")
	}

	u, err := url.Parse(mailDSN)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_DSN format: %v", err)
	}

	port := 25 // Port par défaut
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port in MAIL_DSN: %v", err)
		}
	}

	username := ""
	password := ""
	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	from := "noreply@example.com"
	if envSender := os.Getenv("MAILER_ENVELOPE_SENDER"); envSender != "" {
		from = envSender
	} else if username != "" {
		from = username
	}

	return &EmailNotificationService{
		host:     u.Hostname(),
		port:     port,
		username: username,
		password: password,
		from:     from,
	}, nil
}

func (s *EmailNotificationService) Notify(destinataire *models.Dueliste, kind string, sujet string, message string) error {
	if destinataire.Email == nil || *destinataire.Email == "" {
		log.Printf("Notification [%s] for dueliste %d skipped: no email address", kind, destinataire.ID)
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", *destinataire.Email)
	m.SetHeader("Subject", sujet)
	m.SetBody("text/plain", fmt.Sprintf("Bonjour %s,\n\n%s\n\nCordialement,\nL'équipe Duel", destinataire.Nom, message))

	d := mail.NewDialer(s.host, s.port, s.username, s.password)

	// Pour les serveurs locaux comme Mailpit, désactiver TLS
	if s.host == "localhost" || s.host == "127.0.0.1" {
		d.TLSConfig = nil
	}

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Error sending notification email: %v", err)
		return err
	}

	log.Printf("Notification [%s] sent to %s via SMTP (%s:%d)", kind, *destinataire.Email, s.host, s.port)
	return nil
}

// NewNotificationService crée le service de notification approprié selon
// la configuration : SMTP si MAIL_DSN est défini, sinon log.
func NewNotificationService() NotificationService {
	if emailService, err := NewEmailNotificationService(); err == nil {
		return emailService
	}

	log.Println("MAIL_DSN not configured, using log notification service")
	return NewLogNotificationService()
}
