package mail

import (
	"github.com/annaraight/funnel-core/internal/entity"
	"github.com/annaraight/funnel-core/internal/usecase"
)

// Capabilities monta a tabela stepType -> função de envio que o scheduler
// consome. O scheduler só enxerga (ok, detalhe); o SMTP fica todo aqui.
func Capabilities(s *EmailSender) usecase.CapabilityTable {
	wrap := func(fn func(to, firstName, videoURL string) error) usecase.SendFunc {
		return func(recipient string, p entity.Payload) (bool, string) {
			if err := fn(recipient, p.FirstName, p.VideoURL); err != nil {
				return false, err.Error()
			}
			return true, ""
		}
	}

	return usecase.CapabilityTable{
		entity.TypeVideoReminder: wrap(s.SendVideoReminder),
		entity.TypeCheckingIn:    wrap(s.SendCheckingIn),
		entity.TypeDirectOffer:   wrap(s.SendDirectOffer),
		entity.TypeFinalReminder: wrap(s.SendFinalReminder),
		entity.TypeTestimonial1: wrap(func(to, firstName, videoURL string) error {
			return s.SendTestimonial(to, firstName, videoURL, 1)
		}),
		entity.TypeTestimonial2: wrap(func(to, firstName, videoURL string) error {
			return s.SendTestimonial(to, firstName, videoURL, 2)
		}),
		entity.TypeTestimonial3: wrap(func(to, firstName, videoURL string) error {
			return s.SendTestimonial(to, firstName, videoURL, 3)
		}),
		entity.TypeContent1: wrap(s.SendContent1),
		entity.TypeAppointmentReminder: wrap(func(to, firstName, apptAt string) error {
			return s.SendAppointmentReminder(to, firstName, apptAt)
		}),
	}
}
