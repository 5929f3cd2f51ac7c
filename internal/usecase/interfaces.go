package usecase

import (
	"github.com/annaraight/funnel-core/internal/entity"
)

// SendFunc é a capability de envio injetada por tipo de passo. O scheduler
// não sabe nada de conteúdo nem de transporte: recebe ok/detalhe e pronto.
type SendFunc func(recipient string, payload entity.Payload) (ok bool, errorDetail string)

// CapabilityTable mapeia cada passo para quem sabe enviá-lo.
type CapabilityTable map[entity.ReminderType]SendFunc
