package phone

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
)

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// ValidatedPhone - результат успешной валидации номера в четырёх представлениях.
type ValidatedPhone struct {
	Raw           string // как ввёл пользователь
	E164          string // +51987654321
	International string // +51 987 654 321
	National      string // 987 654 321
	CallingCode   string // 51
	Region        string // PE
}

// ValidateAndFormat очищает ввод от пробелов и посторонних символов и валидирует
// его через libphonenumber для указанного региона по умолчанию.
// Ошибки всегда возвращаются значением, функция не паникует.
func ValidateAndFormat(raw string, defaultRegion string) (*ValidatedPhone, error) {
	clean := nonPhoneChars.ReplaceAllString(raw, "")
	if clean == "" {
		return nil, ErrInvalidPhoneNumber
	}

	num, err := phonenumbers.Parse(clean, defaultRegion)
	if err != nil {
		return nil, ErrInvalidPhoneNumber
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, ErrInvalidPhoneNumber
	}

	return &ValidatedPhone{
		Raw:           raw,
		E164:          phonenumbers.Format(num, phonenumbers.E164),
		International: phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
		National:      phonenumbers.Format(num, phonenumbers.NATIONAL),
		CallingCode:   strconv.Itoa(int(num.GetCountryCode())),
		Region:        phonenumbers.GetRegionCodeForNumber(num),
	}, nil
}

// GenerateVerificationCode возвращает 6-значный числовой код, равномерно
// распределённый в диапазоне 100000-999999.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
