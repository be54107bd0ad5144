// Package session runs one kiosk session: login followed by the main menu.
package session

import (
	"context"
	"errors"

	"snack-counter/internal/console"
	"snack-counter/internal/logger"
	"snack-counter/internal/services/order"
	"snack-counter/internal/validation"
)

type Session struct {
	prompt *console.Prompter
	orders *order.Handler
	logger *logger.Logger
	user   string
}

func New(prompt *console.Prompter, orders *order.Handler, log *logger.Logger) *Session {
	if log == nil {
		log = logger.NewNop()
	}

	return &Session{
		prompt: prompt,
		orders: orders,
		logger: log,
	}
}

// User returns the logged-in name, empty before login
func (s *Session) User() string {
	return s.user
}

// Login asks for a name until a non-blank one is given
func (s *Session) Login() (string, error) {
	s.prompt.Println("Welcome to the Cinema Snack Counter!")

	for {
		raw, err := s.prompt.Ask("Enter your name: ")
		if err != nil {
			return "", err
		}

		name, err := validation.NormalizeUsername(raw)
		if err != nil {
			var verr validation.ValidationError
			if errors.As(err, &verr) {
				s.prompt.Printf("Invalid input: %s\n", verr.Message)
			}
			continue
		}

		s.user = name
		s.prompt.Printf("Hello, %s!\n", name)
		s.logger.Info("session_started", "User logged in", "", map[string]interface{}{
			"user": name,
		})
		return name, nil
	}
}

// Run logs in and serves the main menu until exit. End of input ends the
// session the same way as choosing exit.
func (s *Session) Run(ctx context.Context) error {
	if _, err := s.Login(); err != nil {
		return s.finish(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.showMenu()
		raw, err := s.prompt.Ask("Choose an option: ")
		if err != nil {
			return s.finish(err)
		}

		option, err := validation.ParseMenuOption(raw)
		if err != nil {
			var verr validation.ValidationError
			if errors.As(err, &verr) {
				s.prompt.Printf("Error: %s\n", verr.Message)
			}
			continue
		}

		switch option {
		case validation.MenuPlaceOrder:
			if err := s.orders.PlaceOrder(ctx, s.user); err != nil {
				return s.finish(err)
			}
		case validation.MenuViewHistory:
			s.orders.ViewHistory()
		case validation.MenuExit:
			s.prompt.Printf("Goodbye, %s!\n", s.user)
			s.logger.Info("session_ended", "User exited", "", map[string]interface{}{
				"user": s.user,
			})
			return nil
		}
	}
}

func (s *Session) showMenu() {
	s.prompt.Println("=== Main Menu ===")
	s.prompt.Println("1. Place order")
	s.prompt.Println("2. View order history")
	s.prompt.Println("3. Exit")
}

func (s *Session) finish(err error) error {
	if errors.Is(err, console.ErrInputClosed) {
		s.logger.Info("input_closed", "Input ended, closing session", "", map[string]interface{}{
			"user": s.user,
		})
		return nil
	}
	return err
}
