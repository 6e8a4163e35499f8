package service

import (
	"fmt"
	"strings"
	"unicode"

	"evcharge/backend/services/booking-service/internal/models"
)

// CardType guesses the network from the first digit of a card number.
func CardType(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return "Card"
	}
	switch number[0] {
	case '4':
		return "Visa"
	case '5':
		return "MasterCard"
	case '3':
		return "Amex"
	case '6':
		return "Discover"
	default:
		return "Card"
	}
}

// PaymentSummary renders "<type> **** <last4>". The full card number, when given, is only
// used to derive the type and last four digits.
func PaymentSummary(p *models.PaymentInfo) (string, error) {
	if p == nil {
		return "", validationError("payment information is required")
	}
	number := strings.ReplaceAll(strings.TrimSpace(p.CardNumber), " ", "")

	last4 := strings.TrimSpace(p.CardLast4)
	if last4 == "" && len(number) >= 4 {
		last4 = number[len(number)-4:]
	}
	if len(last4) != 4 || !digitsOnly(last4) {
		return "", validationError("card last four digits required")
	}

	cardType := strings.TrimSpace(p.CardType)
	if cardType == "" {
		cardType = CardType(number)
	}
	return fmt.Sprintf("%s **** %s", cardType, last4), nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
