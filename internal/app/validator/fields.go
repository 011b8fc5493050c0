package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidSyntax    = "invalid syntax"
	msgOnlyLetters      = "only letters are allowed"
	msgInvalidChars     = "invalid characters"
	msgRequired         = "is required"
	instructionsMaxLen  = 80
	cancelReasonMaxLen  = 80
	valueMaxScale       = 2
	msgPositiveInteger  = "must be a positive integer"
	statusAllowedValues = "BACKLOG, ANDAMENTO, ENTREGA, CONCLUIDO, CANCELADO"
)

// spaceClass is the whitespace set of the free text rules, Unicode spaces included.
const spaceClass = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// Rule validates a single string field, optionally normalizing it first.
type Rule struct {
	pattern   *regexp.Regexp
	normalize func(string) string
	maxLen    int
	message   string
}

var (
	DeliveryPersonRule = Rule{
		pattern: regexp.MustCompile(`^[\p{L}` + spaceClass + `']+$`),
		message: msgOnlyLetters,
	}
	StreetRule = Rule{
		pattern: regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ0-9 .-]+$`),
		message: msgInvalidSyntax,
	}
	StreetNumberRule = Rule{
		pattern: regexp.MustCompile(`^[A-Za-z0-9]+$`),
		message: msgInvalidSyntax,
	}
	ComplementRule = Rule{
		pattern: regexp.MustCompile(`^[\p{L}\p{N}` + spaceClass + `.,!?~-]+$`),
		message: msgInvalidChars,
	}
	PostalCodeRule = Rule{
		pattern:   regexp.MustCompile(`^[0-9]{8}$`),
		normalize: DigitsOnly,
		message:   "postal code must have exactly 8 digits",
	}
	CityRule = Rule{
		pattern: regexp.MustCompile(`^\p{L}+$`),
		message: msgInvalidSyntax,
	}
	StateRule = Rule{
		pattern: regexp.MustCompile(`^\p{L}+$`),
		message: msgInvalidSyntax,
	}
	PhoneRule = Rule{
		pattern:   regexp.MustCompile(`^(1[1-9]|[2-9][0-9])9\d{8}$`),
		normalize: DigitsOnly,
		message:   "invalid mobile number",
	}
	PaymentMethodRule = Rule{
		pattern: regexp.MustCompile(`^\p{L}+$`),
		message: "invalid payment method",
	}
	InstructionsRule = Rule{
		pattern: regexp.MustCompile(`^[\p{L}\p{N}` + spaceClass + `.,!?~-]+$`),
		maxLen:  instructionsMaxLen,
		message: msgInvalidChars,
	}
	OrderNameRule = Rule{
		pattern: regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ0-9 .-]+$`),
		message: msgInvalidSyntax,
	}
	CancelReasonRule = Rule{
		pattern: regexp.MustCompile(`^[\p{L}\p{N}` + spaceClass + `.,!?~-]+$`),
		maxLen:  cancelReasonMaxLen,
		message: msgInvalidChars,
	}
)

// Apply returns the normalized value or every reason it was rejected.
func (r Rule) Apply(value string) (string, error) {
	if r.normalize != nil {
		value = r.normalize(value)
	}

	var errs []string
	if r.maxLen > 0 && textLength(value) > r.maxLen {
		errs = append(errs, fmt.Sprintf("must contain at most %d characters", r.maxLen))
	}
	if !r.pattern.MatchString(value) {
		errs = append(errs, r.message)
	}

	if len(errs) != 0 {
		return "", errors.New(strings.Join(errs, ", "))
	}

	return value, nil
}

// textLength counts UTF-16 code units, so a character outside the BMP counts twice.
func textLength(value string) int {
	return len(utf16.Encode([]rune(value)))
}

func DigitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

var (
	// orders.valor is NUMERIC(12, 2).
	valueLimit  = decimal.New(1, 10)
	quantityMax = decimal.NewFromInt(math.MaxInt32)
)

// parseNumber accepts only a JSON number literal; quoted numbers are rejected.
func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return decimal.Decimal{}, false
	}

	number, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Decimal{}, false
	}

	return number, true
}

func ValidateValue(value json.RawMessage) (decimal.Decimal, error) {
	number, ok := parseNumber(value)
	if !ok {
		return decimal.Decimal{}, errors.New("order value must be a number")
	}

	if !number.IsPositive() {
		return decimal.Decimal{}, errors.New("order value must be positive")
	}
	if !number.Equal(number.Round(valueMaxScale)) {
		return decimal.Decimal{}, fmt.Errorf("order value must have at most %d decimal places", valueMaxScale)
	}
	if number.GreaterThanOrEqual(valueLimit) {
		return decimal.Decimal{}, fmt.Errorf("order value must be less than %s", valueLimit)
	}

	return number, nil
}

// ValidateQuantity accepts integral numbers in any JSON notation, e.g. 2, 2.0 or 1e2.
func ValidateQuantity(value json.RawMessage) (int, error) {
	number, ok := parseNumber(value)
	if !ok {
		return 0, errors.New("quantity must be a number")
	}

	if !number.IsInteger() || !number.IsPositive() || number.GreaterThan(quantityMax) {
		return 0, errors.New(msgPositiveInteger)
	}

	return int(number.IntPart()), nil
}

func ValidateStatus(value string) (entity.OrderStatus, error) {
	status := entity.OrderStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("status must be one of %s", statusAllowedValues)
	}

	return status, nil
}

// ValidateItems checks every line item and reports each failure under its own
// indexed field name.
func ValidateItems(field string, items []model.OrderItemPayload) ([]entity.OrderItem, error) {
	if len(items) == 0 {
		return nil, fieldError(field, "at least one item is required")
	}

	var errs error
	out := make([]entity.OrderItem, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("%s[%d]", field, i)

		productID := ""
		if item.ProductID == nil || len(strings.TrimFunc(*item.ProductID, unicode.IsSpace)) == 0 {
			errs = appendFieldError(errs, prefix+".productId", msgRequired)
		} else {
			productID = *item.ProductID
		}

		quantity := 0
		if item.Quantity == nil {
			errs = appendFieldError(errs, prefix+".quantidade", msgRequired)
		} else {
			q, err := ValidateQuantity(*item.Quantity)
			if err != nil {
				errs = appendFieldError(errs, prefix+".quantidade", err.Error())
			} else {
				quantity = q
			}
		}

		out = append(out, entity.OrderItem{
			ProductID: entity.ProductID(productID),
			Quantity:  quantity,
		})
	}

	if errs != nil {
		return nil, errs
	}

	return out, nil
}
