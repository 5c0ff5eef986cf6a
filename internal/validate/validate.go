package validate

import (
	"errors"
	"fmt"
	"net/mail"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
	MaxFullNameLen = 128
)

func SignUpForm(email, password, fullName string) error {
	return errors.Join(
		Email(email),
		Password(password),
		FullName(fullName),
	)
}

func Password(password string) error {
	l := len(password)
	switch {
	case l == 0:
		return errors.New("empty password")
	case l < MinPasswordLen:
		return fmt.Errorf("password too short; min %d characters", MinPasswordLen)
	case l > MaxPasswordLen:
		return fmt.Errorf("password too long; max %d characters", MaxPasswordLen)
	}
	return nil
}

func Email(email string) error {
	if len(email) == 0 {
		return errors.New("empty email")
	}
	_, err := mail.ParseAddress(email)

	return err
}

func FullName(name string) error {
	if l := len(name); l == 0 {
		return errors.New("empty name")
	} else if l > MaxFullNameLen {
		return fmt.Errorf("name too long; max %d characters", MaxFullNameLen)
	}
	return nil
}
