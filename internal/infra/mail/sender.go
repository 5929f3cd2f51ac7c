package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "hello@annaraight.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) send(to, subject, templateFile string, data any) error {
	tmplPath := filepath.Join("templates", templateFile)
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func (s *EmailSender) SendVideoReminder(to, firstName, videoURL string) error {
	return s.send(to,
		fmt.Sprintf("%s, your video is waiting for you", firstName),
		"video_reminder.html",
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

func (s *EmailSender) SendCheckingIn(to, firstName, videoURL string) error {
	return s.send(to,
		fmt.Sprintf("Just checking in, %s", firstName),
		"checking_in.html",
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

func (s *EmailSender) SendDirectOffer(to, firstName, videoURL string) error {
	return s.send(to,
		fmt.Sprintf("%s, let's talk about your next step", firstName),
		"direct_offer.html",
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

func (s *EmailSender) SendFinalReminder(to, firstName, videoURL string) error {
	return s.send(to,
		fmt.Sprintf("Last call, %s", firstName),
		"final_reminder.html",
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

// Os três testimonials compartilham o mesmo template; muda o número.
func (s *EmailSender) SendTestimonial(to, firstName, videoURL string, number int) error {
	return s.send(to,
		fmt.Sprintf("What others like you achieved, %s (story %d)", firstName, number),
		fmt.Sprintf("testimonial_%d.html", number),
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

func (s *EmailSender) SendContent1(to, firstName, videoURL string) error {
	return s.send(to,
		fmt.Sprintf("Something useful for you, %s", firstName),
		"content_1.html",
		ReminderEmailData{FirstName: firstName, VideoURL: videoURL})
}

// SendAppointmentReminder recebe o horário da call (RFC3339) no lugar da URL.
func (s *EmailSender) SendAppointmentReminder(to, firstName, appointmentAt string) error {
	return s.send(to,
		fmt.Sprintf("%s, your call starts in one hour", firstName),
		"appointment_reminder.html",
		AppointmentEmailData{FirstName: firstName, AppointmentAt: appointmentAt})
}
