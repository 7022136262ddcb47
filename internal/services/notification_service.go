package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/pkg/events"
	"fletes/pkg/logger"
	"fletes/pkg/push"
	"fletes/pkg/sms"
)

type destinatario int

const (
	paraCliente destinatario = iota
	paraMotorista
)

// aviso is one message sent for an event.
type aviso struct {
	para   destinatario
	sms    bool
	titulo string
	cuerpo func(e events.Event) string
}

var avisos = map[string][]aviso{
	events.CotizacionEnviada: {
		{para: paraCliente, sms: true, titulo: "Nueva cotización", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("Su cotización %s por %s está disponible. Válida hasta %s.", e.Reference, e.Data["total"], e.Data["fechaVencimiento"])
		}},
	},
	events.CotizacionAceptada: {
		{para: paraCliente, titulo: "Cotización aceptada", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("Recibimos la aceptación de la cotización %s. Le avisaremos cuando el viaje esté programado.", e.Reference)
		}},
	},
	events.ViajeAsignado: {
		{para: paraMotorista, sms: true, titulo: "Viaje asignado", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("Viaje %s: %s a %s, salida %s.", e.Reference, e.Data["origen"], e.Data["destino"], e.Data["fechaSalida"])
		}},
		{para: paraCliente, titulo: "Viaje programado", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("Su viaje %s sale el %s.", e.Reference, e.Data["fechaSalida"])
		}},
	},
	events.ViajeIniciado: {
		{para: paraCliente, sms: true, titulo: "Viaje en curso", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("Su carga del viaje %s va en camino a %s.", e.Reference, e.Data["destino"])
		}},
	},
	events.ViajeCompletado: {
		{para: paraCliente, sms: true, titulo: "Viaje completado", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("El viaje %s llegó a destino.", e.Reference)
		}},
	},
	events.ViajeCancelado: {
		{para: paraMotorista, sms: true, titulo: "Viaje cancelado", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("El viaje %s fue cancelado. %s", e.Reference, e.Data["motivo"])
		}},
		{para: paraCliente, titulo: "Viaje cancelado", cuerpo: func(e events.Event) string {
			return fmt.Sprintf("El viaje %s fue cancelado.", e.Reference)
		}},
	},
}

type contacto struct {
	telefono string
	token    string
	platform string
}

// NotificationService turns domain events into push and SMS messages.
type NotificationService interface {
	Handle(ctx context.Context, event events.Event) error
}

type notificationService struct {
	clienteRepo   interfaces.ClienteRepository
	motoristaRepo interfaces.MotoristaRepository
	push          *push.Router
	sms           sms.SMSProvider
	phonePrefix   string
	logger        *logger.Logger
}

func NewNotificationService(
	clienteRepo interfaces.ClienteRepository,
	motoristaRepo interfaces.MotoristaRepository,
	pushRouter *push.Router,
	smsProvider sms.SMSProvider,
	phonePrefix string,
	logger *logger.Logger,
) NotificationService {
	if smsProvider == nil {
		smsProvider = sms.Disabled{}
	}
	if pushRouter == nil {
		pushRouter = &push.Router{}
	}
	return &notificationService{
		clienteRepo:   clienteRepo,
		motoristaRepo: motoristaRepo,
		push:          pushRouter,
		sms:           smsProvider,
		phonePrefix:   phonePrefix,
		logger:        logger.WithField("component", "notifier"),
	}
}

// Handle delivers every message for the event. It fails only when nothing
// could be delivered, so a redelivery does not duplicate sent messages.
func (s *notificationService) Handle(ctx context.Context, event events.Event) error {
	lista, ok := avisos[event.Type]
	if !ok {
		return nil
	}
	log := s.logger.WithFields(map[string]interface{}{"event_id": event.ID, "event_type": event.Type})

	var errs []error
	delivered := 0
	for _, a := range lista {
		c, err := s.contacto(ctx, a.para, event)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				log.Warn("Recipient not found")
			} else {
				errs = append(errs, err)
			}
			continue
		}

		cuerpo := a.cuerpo(event)
		if c.token != "" && s.push.Enabled() {
			_, err := s.push.Send(ctx, c.platform, &push.NotificationRequest{
				Token:       c.token,
				Title:       a.titulo,
				Body:        cuerpo,
				Data:        map[string]string{"type": event.Type, "id": event.EntityID},
				Priority:    "high",
				CollapseKey: event.EntityID,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("push: %w", err))
			} else {
				delivered++
			}
		}
		if a.sms && c.telefono != "" && s.sms.Name() != "none" {
			if err := s.sendSMS(ctx, c.telefono, cuerpo); err != nil {
				errs = append(errs, fmt.Errorf("sms: %w", err))
			} else {
				delivered++
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	if delivered == 0 {
		return err
	}
	log.WithError(err).Warn("Some notifications failed")
	return nil
}

func (s *notificationService) sendSMS(ctx context.Context, telefono, mensaje string) error {
	to, err := sms.NormalizePhone(telefono, s.phonePrefix)
	if err != nil {
		return err
	}
	_, err = s.sms.SendSMS(ctx, &sms.SMSRequest{To: to, Message: mensaje, Type: "transactional"})
	return err
}

func (s *notificationService) contacto(ctx context.Context, para destinatario, event events.Event) (*contacto, error) {
	switch para {
	case paraCliente:
		id, err := primitive.ObjectIDFromHex(event.ClientID)
		if err != nil {
			return nil, utils.NotFound("Cliente")
		}
		c, err := s.clienteRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &contacto{telefono: c.Telefono, token: c.DeviceToken, platform: string(c.DevicePlatform)}, nil
	default:
		id, err := primitive.ObjectIDFromHex(event.ConductorID)
		if err != nil {
			return nil, utils.NotFound("Motorista")
		}
		m, err := s.motoristaRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &contacto{telefono: m.Telefono, token: m.DeviceToken, platform: string(m.DevicePlatform)}, nil
	}
}
