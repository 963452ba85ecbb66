// Package telephony is the thin surface between the telephony provider and
// the event pipeline. It renders the dialogue agent's configuration and
// exposes the webhook endpoints that translate provider callbacks into
// call lifecycle events. All booking logic lives in the bridge; handlers
// here only publish.
package telephony

import (
	"fmt"

	"github.com/ColeJackes/HospitalCall/internal/catalog"
)

// InitialMessage greets the caller when the call is answered.
const InitialMessage = "Hello and welcome to Cole's Deluxe Hospital of Extreme Health. What is your name?"

// promptPreamble is the intake script, completed with the catalog's slot
// enumeration.
const promptPreamble = "Ask for each of the following pieces of information: 1. Full name, 2. Date of Birth, 3. Insurance " +
	"Payer Name, 4. Insurance ID, 5. If they have a referral, and which doctor they've been referred " +
	"to, 6. Reason for coming in, 7. Address, 8. Contact information. Ensure the user provides a valid " +
	"answer for each one, and ask again if necessary. Then ask which of these times they'd prefer: %s " +
	"Any of the listed time slots is valid and available. Once they've selected the time, thank them " +
	"and end the call."

// AgentPrompt renders the dialogue agent's instruction prompt for the
// given slot catalog.
func AgentPrompt(c *catalog.Catalog) string {
	return fmt.Sprintf(promptPreamble, c.Prompt())
}
