// Package bot answers pricing requests sent to a Telegram bot.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"reptile-pricer/models"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

const helpText = `🦎 Reptile Price Optimization Bot

/price [quality] [cost] [morph]
  quality: pet, breeder or high-end (default pet)
  cost:    what you paid in whole dollars
  morph:   e.g. Banana Ball Python

Example: /price breeder 150 Banana Ball Python`

// Suggester prices one animal. *services.Pipeline satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, animal models.TargetAnimal) services.Result
}

// Defaults fill in whatever a /price command leaves out.
type Defaults struct {
	Morph string
	Cost  int64
}

// Handler turns incoming message text into reply text.
type Handler struct {
	suggester Suggester
	defaults  Defaults
	allowed   map[int64]struct{}
	logger    *utils.Logger
}

// NewHandler creates a Handler. An empty allowedUsers list lets everyone in.
func NewHandler(suggester Suggester, defaults Defaults, allowedUsers []int64, logger *utils.Logger) *Handler {
	allowed := make(map[int64]struct{}, len(allowedUsers))
	for _, id := range allowedUsers {
		allowed[id] = struct{}{}
	}
	return &Handler{suggester: suggester, defaults: defaults, allowed: allowed, logger: logger}
}

// Reply returns the answer to text sent by userID, or "" when the message
// needs no answer.
func (h *Handler) Reply(ctx context.Context, userID int64, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if len(h.allowed) > 0 {
		if _, ok := h.allowed[userID]; !ok {
			return "Access denied. You are not authorized to use this bot."
		}
	}

	fields := strings.Fields(text)
	// Commands may be addressed as /price@BotName in group chats.
	command := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])

	switch command {
	case "/start", "/help":
		return helpText
	case "/price":
		animal, err := ParsePriceArgs(fields[1:], h.defaults)
		if err != nil {
			return fmt.Sprintf("⚠️ %v\n\n%s", err, helpText)
		}
		h.logger.Info("[bot] User %d asked to price %q", userID, animal.Morph)
		return FormatResult(h.suggester.Suggest(ctx, animal))
	default:
		return "Unknown command. Use /help to see available commands."
	}
}

// ParsePriceArgs reads "[quality] [cost] [morph...]". Each part is optional
// and falls back to pet, defaults.Cost and defaults.Morph.
func ParsePriceArgs(args []string, defaults Defaults) (models.TargetAnimal, error) {
	animal := models.TargetAnimal{
		Morph:   defaults.Morph,
		Quality: models.QualityPet,
		Cost:    defaults.Cost,
	}

	if len(args) > 0 {
		if q, ok := models.ParseQuality(strings.ToLower(args[0])); ok {
			animal.Quality = q
			args = args[1:]
		}
	}

	if len(args) > 0 {
		if cost, err := strconv.ParseInt(strings.TrimPrefix(args[0], "$"), 10, 64); err == nil {
			if cost < 0 {
				return animal, fmt.Errorf("cost must not be negative, got %d", cost)
			}
			if cost > services.MaxAmount {
				return animal, fmt.Errorf("cost must be at most %s", services.FormatDollars(services.MaxAmount))
			}
			animal.Cost = cost
			args = args[1:]
		}
	}

	if len(args) > 0 {
		animal.Morph = strings.Join(args, " ")
	}
	return animal, nil
}

// FormatResult renders a pricing result as a chat message.
func FormatResult(r services.Result) string {
	if !r.Suggestion.HasPrice() {
		return "❌ " + services.NoSuggestionMessage
	}
	return fmt.Sprintf("💰 Suggested Price: %s\nℹ️ %s",
		services.FormatDollars(*r.Suggestion.Price), r.Suggestion.Rationale)
}

// Run answers updates from api until ctx is cancelled. Requests are handled
// one at a time.
func Run(ctx context.Context, api *tgbotapi.BotAPI, h *Handler, updateTimeout int) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			reply := h.Reply(ctx, update.Message.From.ID, update.Message.Text)
			if reply == "" {
				continue
			}
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			if _, err := api.Send(msg); err != nil {
				h.logger.Error("[bot] Failed to send reply to chat %d: %v", update.Message.Chat.ID, err)
			}
		}
	}
}
