/*
Package vault implements a prepaid balance owned by a single principal.

The owner, or any address the owner allowed, credits the vault. Only the
owner meters usage by deducting from it, and only the owner changes its
configuration: the allowed depositors, the pause switch, API prices,
offering metadata and the settlement address value is routed to.

Every vault lives under an instance identifier. State of different
instances never overlaps. Deducting does not move value anywhere: an
orchestrator observes the deduct events and credits the settlement.

Tokens sent to CustodyAddress are held for the vault by the token service.
The admin, who starts as the owner, pays them out with distribute.
*/
package vault
