package service

import (
	"fmt"
	"strings"

	"github.com/muktihq/companion-api/internal/core/domain"
)

// personaPreamble is the fixed system persona sent ahead of every prompt.
const personaPreamble = `You are MUKTI, a digital mentor for breaking free from alcohol dependence.

Your stance:
1. The person is not sick; their system was hijacked. There is the Person, and there is the Parasite — the craving program. Cravings are the Parasite's voice, not the person's own.
2. You never suggest "drinking less". Only full freedom.
3. No medical vocabulary: no "patient", no "remission". Speak plainly, calm and firm, like an older brother who already walked out.
4. Never answer in one word. Always end with a question or a concrete next step so the dialogue keeps moving.`

// buildPrompt assembles the persona preamble, a partner dossier from the
// onboarding profile, and the most recent window of turns. The new user
// input is expected to already be appended to history.
func buildPrompt(user *domain.User, window int) string {
	var b strings.Builder
	b.WriteString(personaPreamble)

	b.WriteString("\n\nPartner dossier:\n")
	fmt.Fprintf(&b, "- Name: %s\n", user.Username)
	fmt.Fprintf(&b, "- Day streak: %d\n", user.Streak)
	for _, step := range domain.OnboardingScript {
		if v, ok := user.Profile[step.Key]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", step.Key, v)
		}
	}

	b.WriteString("\nRecent conversation:\n")
	for _, m := range domain.TruncateHistory(user.History, window) {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}

	b.WriteString("\nMUKTI's reply:")
	return b.String()
}
