package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var cardNumberRe = regexp.MustCompile(`^(\d{4}-\d{4}-\d{4}-\d{4}|\d{16})$`)

// NewUser builds a session user from login input. The password is only kept
// as a bcrypt hash; nothing in the booking flow checks it.
func NewUser(email, password string, cost int) (*User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	inputErr := newInputError()

	if email == "" {
		inputErr.addError("email", "provide email")
	} else if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		inputErr.addError("email", "provide valid email address")
	}

	if password == "" {
		inputErr.addError("password", "provide password")
	}

	if err := inputErr.orNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{
		Email:        email,
		Nickname:     nicknameFromEmail(email),
		passwordHash: hash,
	}, nil
}

func (u *User) PasswordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) == nil
}

func (s *SearchInput) validate(now time.Time) error {
	inputErr := newInputError()

	s.City = strings.TrimSpace(s.City)
	if s.City == "" {
		inputErr.addError("city", "provide city")
	}

	if s.CheckIn.IsZero() {
		inputErr.addError("check_in", "provide check_in")
	}

	if s.CheckOut.IsZero() {
		inputErr.addError("check_out", "provide check_out")
	}

	if !s.CheckIn.IsZero() && !s.CheckOut.IsZero() {
		today := now.Truncate(24 * time.Hour) //nolint:gomnd

		if s.CheckIn.Before(today) {
			inputErr.addError("check_in", "check_in cannot be before today")
		}

		if !s.CheckOut.After(s.CheckIn) {
			inputErr.addError("check_out", "check_out must be after check_in")
		}
	}

	return inputErr.orNil()
}

func (c *CheckoutInput) validate() error {
	inputErr := newInputError()

	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.CardNumber = strings.TrimSpace(c.CardNumber)

	if c.Name == "" {
		inputErr.addError("name", "provide name")
	}

	if c.Surname == "" {
		inputErr.addError("surname", "provide surname")
	}

	switch {
	case c.CardNumber == "":
		inputErr.addError("card_number", "provide card number")
	case !cardNumberRe.MatchString(c.CardNumber):
		inputErr.addError("card_number", "provide valid card number (XXXX-XXXX-XXXX-XXXX)")
	}

	if c.Stay.CheckIn.IsZero() {
		inputErr.addError("stay.check_in", "provide check_in")
	}

	if c.Stay.CheckOut.IsZero() {
		inputErr.addError("stay.check_out", "provide check_out")
	}

	return inputErr.orNil()
}
