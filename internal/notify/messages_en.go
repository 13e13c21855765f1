package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "email.greeting", "Hello %s,")
	message.SetString(lang, "email.copy_intro", "this is a copy of a notification for your player %s.")
	message.SetString(lang, "email.copy_subject", "%s (player %s)")
	message.SetString(lang, "email.footer", "HobbyHokej")
	message.SetString(lang, "email.footer_link", "Manage your registrations at %s\nHobbyHokej")
	message.SetString(lang, "sms.prefix", "HobbyHokej: ")
	message.SetString(lang, "match.block", "Match: %s\nVenue: %s\nPrice: %d CZK")
	message.SetString(lang, "match.price", "price %d CZK")

	message.SetString(lang, "team.LIGHT", "light team")
	message.SetString(lang, "team.DARK", "dark team")
	message.SetString(lang, "position.GOALIE", "goalie")
	message.SetString(lang, "position.DEFENSE", "defense")
	message.SetString(lang, "position.FORWARD", "forward")

	message.SetString(lang, "event.PLAYER_CREATED.title", "Player created")
	message.SetString(lang, "event.PLAYER_CREATED.line", "Player %[1]s was created and waits for approval.")
	message.SetString(lang, "event.PLAYER_UPDATED.title", "Player updated")
	message.SetString(lang, "event.PLAYER_UPDATED.line", "The profile of player %[1]s was updated.")
	message.SetString(lang, "event.PLAYER_APPROVED.title", "Player approved")
	message.SetString(lang, "event.PLAYER_APPROVED.line", "Player %[1]s was approved and can register to matches.")
	message.SetString(lang, "event.PLAYER_REJECTED.title", "Player rejected")
	message.SetString(lang, "event.PLAYER_REJECTED.line", "Player %[1]s was rejected by the administrator.")
	message.SetString(lang, "event.PASSWORD_RESET.title", "Password reset")
	message.SetString(lang, "event.PASSWORD_RESET.line", "The password of the account linked to player %[1]s was reset.")

	message.SetString(lang, "event.REGISTRATION_CREATED.title", "Registered for a match")
	message.SetString(lang, "event.REGISTRATION_CREATED.line", "%[1]s is registered for the match on %[2]s at %[3]s.")
	message.SetString(lang, "event.REGISTRATION_UPDATED.title", "Registration updated")
	message.SetString(lang, "event.REGISTRATION_UPDATED.line", "The registration of %[1]s for the match on %[2]s at %[3]s was updated.")
	message.SetString(lang, "event.REGISTRATION_RESERVED.title", "On the waiting list")
	message.SetString(lang, "event.REGISTRATION_RESERVED.line", "The match on %[2]s at %[3]s is full, %[1]s is on the waiting list.")
	message.SetString(lang, "event.REGISTRATION_PROMOTED.title", "Moved up from the waiting list")
	message.SetString(lang, "event.REGISTRATION_PROMOTED.line", "A spot opened up: %[1]s now plays in the match on %[2]s at %[3]s.")
	message.SetString(lang, "event.REGISTRATION_CANCELED.title", "Registration cancelled")
	message.SetString(lang, "event.REGISTRATION_CANCELED.line", "%[1]s is no longer registered for the match on %[2]s at %[3]s.")

	message.SetString(lang, "event.EXCUSE_CREATED.title", "Excused from a match")
	message.SetString(lang, "event.EXCUSE_CREATED.line", "%[1]s is excused from the match on %[2]s at %[3]s.")
	message.SetString(lang, "event.EXCUSE_UPDATED.title", "Excuse updated")
	message.SetString(lang, "event.EXCUSE_UPDATED.line", "The excuse of %[1]s for the match on %[2]s at %[3]s was updated.")
	message.SetString(lang, "event.NO_EXCUSED_MARKED.title", "Unexcused absence")
	message.SetString(lang, "event.NO_EXCUSED_MARKED.line", "%[1]s was marked absent without an excuse for the match on %[2]s at %[3]s.")

	message.SetString(lang, "event.MATCH_REMINDER.title", "Match reminder")
	message.SetString(lang, "event.MATCH_REMINDER.line", "Reminder: %[1]s plays on %[2]s at %[3]s.")
	message.SetString(lang, "event.POSITION_CHANGED.title", "Lineup updated")
	message.SetString(lang, "event.POSITION_CHANGED.line", "The lineup of %[1]s for the match on %[2]s at %[3]s changed.")
	message.SetString(lang, "event.MATCH_UPDATED.title", "Match updated")
	message.SetString(lang, "event.MATCH_UPDATED.line", "The match on %[2]s at %[3]s was updated.")
	message.SetString(lang, "event.MATCH_CANCELED.title", "Match cancelled")
	message.SetString(lang, "event.MATCH_CANCELED.line", "The match on %[2]s at %[3]s was cancelled.")
	message.SetString(lang, "event.MATCH_UNCANCELED.title", "Match back on")
	message.SetString(lang, "event.MATCH_UNCANCELED.line", "The match on %[2]s at %[3]s takes place after all.")
}
