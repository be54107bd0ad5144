package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// FinishToken ends the cart builder loop
	FinishToken     = "0"
	// RemoveLastToken pops the most recently added cart line
	RemoveLastToken = "r"

	MaxUsernameLength = 100
)

// MenuOption is a main menu choice
type MenuOption int

const (
	MenuPlaceOrder MenuOption = iota + 1
	MenuViewHistory
	MenuExit
)

// SelectionKind tells what a cart builder token asked for
type SelectionKind int

const (
	SelectSnack SelectionKind = iota
	SelectFinish
	SelectRemoveLast
)

// Selection is a parsed cart builder token
type Selection struct {
	Kind    SelectionKind
	SnackID int
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeUsername trims the name and capitalizes it for display
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ValidationError{
			Field:   "username",
			Message: "username cannot be empty",
		}
	}

	if utf8.RuneCountInString(name) > MaxUsernameLength {
		return "", ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("username must be at most %d characters", MaxUsernameLength),
		}
	}

	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:]), nil
}

// ParseMenuOption accepts only 1, 2 or 3
func ParseMenuOption(raw string) (MenuOption, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ValidationError{
			Field:   "option",
			Message: "please enter a number",
		}
	}

	option := MenuOption(n)
	if option < MenuPlaceOrder || option > MenuExit {
		return 0, ValidationError{
			Field:   "option",
			Message: fmt.Sprintf("invalid option %d, choose 1, 2 or 3", n),
		}
	}

	return option, nil
}

// ParseSelection parses a cart builder token. Snack ids are only checked for
// being positive integers; catalog membership is up to the caller.
func ParseSelection(raw string) (Selection, error) {
	token := strings.ToLower(strings.TrimSpace(raw))

	switch token {
	case FinishToken:
		return Selection{Kind: SelectFinish}, nil
	case RemoveLastToken:
		return Selection{Kind: SelectRemoveLast}, nil
	}

	id, err := strconv.Atoi(token)
	if err != nil {
		return Selection{}, ValidationError{
			Field:   "snack",
			Message: "enter a snack number, 0 to finish or r to remove the last item",
		}
	}
	if id <= 0 {
		return Selection{}, ValidationError{
			Field:   "snack",
			Message: "invalid snack ID",
		}
	}

	return Selection{Kind: SelectSnack, SnackID: id}, nil
}

// ParseQuantity accepts any positive integer
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ValidationError{
			Field:   "quantity",
			Message: "enter numbers only",
		}
	}

	if qty <= 0 {
		return 0, ValidationError{
			Field:   "quantity",
			Message: "quantity must be greater than 0",
		}
	}

	return qty, nil
}

// ParseConfirmation accepts y/yes/n/no in any case
func ParseConfirmation(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, ValidationError{
			Field:   "confirmation",
			Message: "please answer y or n",
		}
	}
}
