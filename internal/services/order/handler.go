package order

import (
	"context"
	"errors"
	"fmt"

	"snack-counter/internal/catalog"
	"snack-counter/internal/console"
	"snack-counter/internal/logger"
	"snack-counter/internal/models"
	"snack-counter/internal/money"
	"snack-counter/internal/receipt"
	"snack-counter/internal/validation"
)

// Handler drives the console side of ordering: cart building, checkout
// confirmation and order history.
type Handler struct {
	service *Service
	catalog *catalog.Catalog
	money   *money.Formatter
	prompt  *console.Prompter
	logger  *logger.Logger
}

func NewHandler(service *Service, cat *catalog.Catalog, f *money.Formatter, prompt *console.Prompter, log *logger.Logger) *Handler {
	if f == nil {
		f = money.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Handler{
		service: service,
		catalog: cat,
		money:   f,
		prompt:  prompt,
		logger:  log,
	}
}

// PlaceOrder builds a cart for user and, when it is not empty, asks for
// confirmation and checks it out. Only input errors are returned.
func (h *Handler) PlaceOrder(ctx context.Context, user string) error {
	lines, _, err := h.BuildCart()
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	return h.Confirm(ctx, user, lines)
}

// BuildCart runs the selection loop. An empty cart at finish returns no lines.
func (h *Handler) BuildCart() ([]models.CartLine, int, error) {
	cart := models.NewCart()

	for {
		h.showCatalog()
		if !cart.IsEmpty() {
			h.showCart(cart)
		}

		prompt := fmt.Sprintf("Enter snack number (%s to finish): ", validation.FinishToken)
		if !cart.IsEmpty() {
			prompt = fmt.Sprintf("Enter snack number (%s to finish, %s to remove last): ",
				validation.FinishToken, validation.RemoveLastToken)
		}

		token, err := h.prompt.Ask(prompt)
		if err != nil {
			return nil, 0, err
		}

		sel, err := validation.ParseSelection(token)
		if err != nil {
			h.reportInvalid(err)
			continue
		}

		switch sel.Kind {
		case validation.SelectFinish:
			if cart.IsEmpty() {
				h.prompt.Println("No items were ordered.")
				return nil, 0, nil
			}
			h.prompt.Printf("Order total: %s\n", h.money.Format(cart.Subtotal()))
			return cart.Lines(), cart.Subtotal(), nil

		case validation.SelectRemoveLast:
			line, ok := cart.RemoveLast()
			if !ok {
				h.prompt.Println("Nothing to remove, the cart is empty.")
				continue
			}
			h.prompt.Printf("Removed %d x %s (%s)\n", line.Quantity, line.Name, h.money.Format(line.LineTotal))

		case validation.SelectSnack:
			snack, ok := h.catalog.FindByID(sel.SnackID)
			if !ok {
				h.prompt.Printf("Invalid snack ID %d, please choose from the menu.\n", sel.SnackID)
				continue
			}

			qty, err := h.askQuantity(snack)
			if err != nil {
				return nil, 0, err
			}

			line, err := cart.Add(snack, qty)
			if err != nil {
				h.reportInvalid(err)
				continue
			}
			h.prompt.Printf("Added %d x %s (%s)\n", line.Quantity, line.Name, h.money.Format(line.LineTotal))
		}
	}
}

func (h *Handler) askQuantity(snack models.SnackDef) (int, error) {
	for {
		token, err := h.prompt.Ask(fmt.Sprintf("Quantity of %s: ", snack.Name))
		if err != nil {
			return 0, err
		}

		qty, err := validation.ParseQuantity(token)
		if err != nil {
			h.reportInvalid(err)
			continue
		}
		return qty, nil
	}
}

// Confirm asks for y/n until it gets one and checks out on yes
func (h *Handler) Confirm(ctx context.Context, user string, lines []models.CartLine) error {
	for {
		token, err := h.prompt.Ask("Confirm purchase? (y/n): ")
		if err != nil {
			return err
		}

		yes, err := validation.ParseConfirmation(token)
		if err != nil {
			h.reportInvalid(err)
			continue
		}

		if !yes {
			h.prompt.Println("Order cancelled.")
			h.logger.Info("order_cancelled", "Checkout declined", "", map[string]interface{}{
				"user":  user,
				"lines": len(lines),
			})
			return nil
		}
		break
	}

	result, err := h.service.Checkout(ctx, user, lines)
	if err != nil {
		h.prompt.Printf("Order could not be placed: %v\n", err)
		return nil
	}

	for _, warning := range result.Warnings {
		h.prompt.Printf("Warning: %s\n", warning)
	}
	h.prompt.Printf("Order %s placed. Thank you, %s!\n", result.Order.Number, result.Order.User)
	h.prompt.Printf("%s", receipt.Format(result.Order, h.money))

	return nil
}

// ViewHistory prints every stored order, oldest first
func (h *Handler) ViewHistory() {
	orders := h.service.Store().Orders()
	if len(orders) == 0 {
		h.prompt.Println("No orders made yet.")
		return
	}

	h.prompt.Println("--- Order History ---")
	for i, order := range orders {
		h.prompt.Printf("%d. %s | %s | %s\n", i+1, order.Number, order.User, order.Time)
		for _, line := range order.Cart {
			h.prompt.Printf("   %s\n", receipt.FormatLine(line, h.money))
		}
		h.prompt.Printf("   Total: %s\n", h.money.Format(order.Total))
	}
}

func (h *Handler) showCatalog() {
	h.prompt.Println("--- Snack Menu ---")
	for _, snack := range h.catalog.List() {
		h.prompt.Printf("%d. %s - %s\n", snack.ID, snack.Name, h.money.Format(snack.Price))
	}
}

func (h *Handler) showCart(cart *models.Cart) {
	h.prompt.Println("Current cart:")
	for _, line := range cart.Lines() {
		h.prompt.Printf("  %s\n", receipt.FormatLine(line, h.money))
	}
	h.prompt.Printf("Subtotal: %s\n", h.money.Format(cart.Subtotal()))
}

func (h *Handler) reportInvalid(err error) {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		h.prompt.Printf("Invalid input: %s\n", verr.Message)
		return
	}
	h.prompt.Printf("Invalid input: %v\n", err)
}
