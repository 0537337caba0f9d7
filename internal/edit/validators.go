package edit

import (
	"fmt"
	"regexp"
	"strconv"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field validators. A validation failure keeps the edit entirely local: the
// field reverts and no request is sent.

func Discount(value string) error {
	d, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("скидка должна быть числом")
	}
	if d < 0 || d > 100 {
		return fmt.Errorf("скидка должна быть от 0 до 100")
	}
	return nil
}

func Email(value string) error {
	if value == "" {
		return nil
	}
	if len(value) > 254 {
		return fmt.Errorf("email слишком длинный")
	}
	if !emailRe.MatchString(value) {
		return fmt.Errorf("некорректный email")
	}
	return nil
}

func Comments(value string) error {
	if len([]rune(value)) > 1000 {
		return fmt.Errorf("комментарий не должен превышать 1000 символов")
	}
	return nil
}

func Name(value string) error {
	if value == "" {
		return fmt.Errorf("название не может быть пустым")
	}
	if len([]rune(value)) > 255 {
		return fmt.Errorf("название не должно превышать 255 символов")
	}
	return nil
}

func Circulation(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("тираж должен быть числом")
	}
	if n <= 0 {
		return fmt.Errorf("тираж должен быть положительным")
	}
	return nil
}
