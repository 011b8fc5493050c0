package validator

import (
	"errors"

	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	fieldName           = "nome"
	fieldValue          = "valor"
	fieldItems          = "orderItems"
	fieldStatus         = "status"
	fieldDeliveryPerson = "entregador"
	fieldStreet         = "rua"
	fieldNumber         = "numero"
	fieldComplement     = "complemento"
	fieldPostalCode     = "cep"
	fieldCity           = "cidade"
	fieldState          = "estado"
	fieldPhone          = "tel"
	fieldPaymentMethod  = "metodo_pag"
	fieldInstructions   = "instrucoes"
	fieldCancelReason   = "motivo_cancelamento"
)

// schema accumulates field failures instead of stopping at the first one.
type schema struct {
	errs error
}

func (s *schema) fail(field, message string) {
	s.errs = appendFieldError(s.errs, field, message)
}

func (s *schema) required(field string, value *string, rule Rule) string {
	if value == nil {
		s.fail(field, msgRequired)
		return ""
	}

	normalized, err := rule.Apply(*value)
	if err != nil {
		s.fail(field, err.Error())
		return ""
	}

	return normalized
}

func (s *schema) optional(field string, value *string, rule Rule) *string {
	if value == nil {
		return nil
	}

	normalized, err := rule.Apply(*value)
	if err != nil {
		s.fail(field, err.Error())
		return nil
	}

	return &normalized
}

func (s *schema) value(payload *model.OrderPayload, required bool) *decimal.Decimal {
	if payload.Value == nil {
		if required {
			s.fail(fieldValue, "order value is required")
		}
		return nil
	}

	value, err := ValidateValue(*payload.Value)
	if err != nil {
		s.fail(fieldValue, err.Error())
		return nil
	}

	return &value
}

func (s *schema) items(payload *model.OrderPayload, required bool) []entity.OrderItem {
	if payload.Items == nil {
		if required {
			s.fail(fieldItems, msgRequired)
		}
		return nil
	}

	items, err := ValidateItems(fieldItems, *payload.Items)
	if err != nil {
		s.errs = multierr.Append(s.errs, err)
		return nil
	}

	return items
}

func (s *schema) status(value *string) *entity.OrderStatus {
	if value == nil {
		return nil
	}

	status, err := ValidateStatus(*value)
	if err != nil {
		s.fail(fieldStatus, err.Error())
		return nil
	}

	return &status
}

// ValidateCreate checks a create order payload. Street, city and state are not
// part of it, they are resolved from the postal code afterwards.
func ValidateCreate(payload model.OrderPayload) (entity.Order, error) {
	s := &schema{}

	order := entity.Order{
		Name:           s.required(fieldName, payload.Name, OrderNameRule),
		Items:          s.items(&payload, true),
		DeliveryPerson: s.required(fieldDeliveryPerson, payload.DeliveryPerson, DeliveryPersonRule),
		Address: entity.Address{
			Number:     s.required(fieldNumber, payload.Number, StreetNumberRule),
			Complement: s.required(fieldComplement, payload.Complement, ComplementRule),
			PostalCode: s.required(fieldPostalCode, payload.PostalCode, PostalCodeRule),
		},
		Phone:         s.required(fieldPhone, payload.Phone, PhoneRule),
		PaymentMethod: s.required(fieldPaymentMethod, payload.PaymentMethod, PaymentMethodRule),
		Instructions:  s.required(fieldInstructions, payload.Instructions, InstructionsRule),
	}

	if value := s.value(&payload, true); value != nil {
		order.Value = *value
	}
	if status := s.status(payload.Status); status != nil {
		order.Status = *status
	}

	if s.errs != nil {
		return entity.Order{}, newValidationError(s.errs)
	}

	return order, nil
}

// ValidateUpdate checks a partial update. Any present field must satisfy the
// same rule as on creation.
func ValidateUpdate(payload model.OrderPayload) (entity.OrderPatch, error) {
	s := &schema{}

	patch := entity.OrderPatch{
		Name:           s.optional(fieldName, payload.Name, OrderNameRule),
		Value:          s.value(&payload, false),
		Items:          s.items(&payload, false),
		Status:         s.status(payload.Status),
		DeliveryPerson: s.optional(fieldDeliveryPerson, payload.DeliveryPerson, DeliveryPersonRule),
		Street:         s.optional(fieldStreet, payload.Street, StreetRule),
		Number:         s.optional(fieldNumber, payload.Number, StreetNumberRule),
		Complement:     s.optional(fieldComplement, payload.Complement, ComplementRule),
		PostalCode:     s.optional(fieldPostalCode, payload.PostalCode, PostalCodeRule),
		City:           s.optional(fieldCity, payload.City, CityRule),
		State:          s.optional(fieldState, payload.State, StateRule),
		Phone:          s.optional(fieldPhone, payload.Phone, PhoneRule),
		PaymentMethod:  s.optional(fieldPaymentMethod, payload.PaymentMethod, PaymentMethodRule),
		Instructions:   s.optional(fieldInstructions, payload.Instructions, InstructionsRule),
		CancelReason:   s.optional(fieldCancelReason, payload.CancelReason, CancelReasonRule),
	}

	if s.errs != nil {
		return entity.OrderPatch{}, newValidationError(s.errs)
	}

	if patch.Empty() {
		return entity.OrderPatch{}, newValidationError(errors.New("at least one field must be provided"))
	}

	return patch, nil
}

func ValidateStatusChange(request model.StatusUpdateRequest) (entity.StatusChange, error) {
	s := &schema{}

	var change entity.StatusChange
	if request.Status == nil {
		s.fail(fieldStatus, msgRequired)
	} else if status := s.status(request.Status); status != nil {
		change.Status = *status
	}

	if reason := s.optional(fieldCancelReason, request.CancelReason, CancelReasonRule); reason != nil {
		if change.Status != entity.StatusCancelled && len(change.Status) != 0 {
			s.fail(fieldCancelReason, "is only accepted when cancelling an order")
		} else {
			change.CancelReason = *reason
		}
	}

	if s.errs != nil {
		return entity.StatusChange{}, newValidationError(s.errs)
	}

	return change, nil
}

func appendFieldError(errs error, field, message string) error {
	return multierr.Append(errs, fieldError(field, message))
}
