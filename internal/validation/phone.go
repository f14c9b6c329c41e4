// Package validation содержит функции валидации входных данных.
package validation

// IsValidPhoneNumber проверяет российский номер телефона. Допускаются
// префикс "+" в начале и разделители: пробелы, дефисы и скобки.
// Корректным считается номер из одиннадцати цифр, начинающийся с 7 или 8,
// либо из десяти цифр, начинающийся с 9.
func IsValidPhoneNumber(number string) bool {
	if number == "" {
		return false
	}

	digits := make([]byte, 0, len(number))
	for i, ch := range number {
		switch {
		case ch >= '0' && ch <= '9':
			digits = append(digits, byte(ch))
		case ch == '+':
			if i != 0 {
				return false
			}
		case ch == ' ' || ch == '-' || ch == '(' || ch == ')':
		default:
			return false
		}
	}

	switch len(digits) {
	case 11:
		return digits[0] == '7' || digits[0] == '8'
	case 10:
		return digits[0] == '9'
	default:
		return false
	}
}
