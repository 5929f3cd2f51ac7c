package mail

type ReminderEmailData struct {
	FirstName string
	VideoURL  string
}

type AppointmentEmailData struct {
	FirstName     string
	AppointmentAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
