// Package template renders the moustache-style placeholders used in rule
// action configs ({{cardTitle}}, {{triggerCard}}).
package template

import (
	"strings"

	"github.com/flowkan/flowkan/pkg/models"
)

// Placeholder tokens understood by action configs.
const (
	TokenCardTitle   = "cardTitle"
	TokenTriggerCard = "triggerCard"
)

// Render substitutes every {{token}} occurrence in input with its value.
// Unknown tokens are left untouched so a typo is visible in the output
// instead of silently vanishing.
func Render(input string, vars map[string]string) string {
	for token, value := range vars {
		input = strings.ReplaceAll(input, "{{"+token+"}}", value)
	}

	return input
}

// CardVars returns the placeholder values derived from the triggering card.
func CardVars(card *models.KanbanCard) map[string]string {
	return map[string]string{
		TokenCardTitle:   card.Title,
		TokenTriggerCard: card.Title,
	}
}
