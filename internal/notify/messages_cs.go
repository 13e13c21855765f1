package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Czech

	message.SetString(lang, "email.greeting", "Dobrý den %s,")
	message.SetString(lang, "email.copy_intro", "posíláme kopii upozornění pro vašeho hráče %s.")
	message.SetString(lang, "email.copy_subject", "%s (hráč %s)")
	message.SetString(lang, "email.footer", "HobbyHokej")
	message.SetString(lang, "email.footer_link", "Své registrace spravujete na %s\nHobbyHokej")
	message.SetString(lang, "sms.prefix", "HobbyHokej: ")
	message.SetString(lang, "match.block", "Zápas: %s\nMísto: %s\nCena: %d Kč")
	message.SetString(lang, "match.price", "cena %d Kč")

	message.SetString(lang, "team.LIGHT", "světlí")
	message.SetString(lang, "team.DARK", "tmaví")
	message.SetString(lang, "position.GOALIE", "brankář")
	message.SetString(lang, "position.DEFENSE", "obránce")
	message.SetString(lang, "position.FORWARD", "útočník")

	message.SetString(lang, "event.PLAYER_CREATED.title", "Hráč vytvořen")
	message.SetString(lang, "event.PLAYER_CREATED.line", "Hráč %[1]s byl vytvořen a čeká na schválení.")
	message.SetString(lang, "event.PLAYER_UPDATED.title", "Hráč upraven")
	message.SetString(lang, "event.PLAYER_UPDATED.line", "Profil hráče %[1]s byl upraven.")
	message.SetString(lang, "event.PLAYER_APPROVED.title", "Hráč schválen")
	message.SetString(lang, "event.PLAYER_APPROVED.line", "Hráč %[1]s byl schválen a může se registrovat na zápasy.")
	message.SetString(lang, "event.PLAYER_REJECTED.title", "Hráč zamítnut")
	message.SetString(lang, "event.PLAYER_REJECTED.line", "Hráč %[1]s byl administrátorem zamítnut.")
	message.SetString(lang, "event.PASSWORD_RESET.title", "Obnova hesla")
	message.SetString(lang, "event.PASSWORD_RESET.line", "Heslo k účtu hráče %[1]s bylo obnoveno.")

	message.SetString(lang, "event.REGISTRATION_CREATED.title", "Registrace na zápas")
	message.SetString(lang, "event.REGISTRATION_CREATED.line", "%[1]s je přihlášen na zápas %[2]s, %[3]s.")
	message.SetString(lang, "event.REGISTRATION_UPDATED.title", "Změna registrace")
	message.SetString(lang, "event.REGISTRATION_UPDATED.line", "Registrace hráče %[1]s na zápas %[2]s, %[3]s byla změněna.")
	message.SetString(lang, "event.REGISTRATION_RESERVED.title", "Náhradník")
	message.SetString(lang, "event.REGISTRATION_RESERVED.line", "Zápas %[2]s, %[3]s je plný, %[1]s je mezi náhradníky.")
	message.SetString(lang, "event.REGISTRATION_PROMOTED.title", "Postup z náhradníků")
	message.SetString(lang, "event.REGISTRATION_PROMOTED.line", "Uvolnilo se místo: %[1]s hraje zápas %[2]s, %[3]s.")
	message.SetString(lang, "event.REGISTRATION_CANCELED.title", "Odhlášení ze zápasu")
	message.SetString(lang, "event.REGISTRATION_CANCELED.line", "%[1]s je odhlášen ze zápasu %[2]s, %[3]s.")

	message.SetString(lang, "event.EXCUSE_CREATED.title", "Omluva ze zápasu")
	message.SetString(lang, "event.EXCUSE_CREATED.line", "%[1]s je omluven ze zápasu %[2]s, %[3]s.")
	message.SetString(lang, "event.EXCUSE_UPDATED.title", "Změna omluvy")
	message.SetString(lang, "event.EXCUSE_UPDATED.line", "Omluva hráče %[1]s ze zápasu %[2]s, %[3]s byla změněna.")
	message.SetString(lang, "event.NO_EXCUSED_MARKED.title", "Neomluvená neúčast")
	message.SetString(lang, "event.NO_EXCUSED_MARKED.line", "%[1]s byl označen jako neomluveně chybějící na zápase %[2]s, %[3]s.")

	message.SetString(lang, "event.MATCH_REMINDER.title", "Připomínka zápasu")
	message.SetString(lang, "event.MATCH_REMINDER.line", "Připomínka: %[1]s hraje %[2]s, %[3]s.")
	message.SetString(lang, "event.POSITION_CHANGED.title", "Změna sestavy")
	message.SetString(lang, "event.POSITION_CHANGED.line", "Sestava hráče %[1]s na zápas %[2]s, %[3]s byla změněna.")
	message.SetString(lang, "event.MATCH_UPDATED.title", "Změna zápasu")
	message.SetString(lang, "event.MATCH_UPDATED.line", "Zápas %[2]s, %[3]s byl upraven.")
	message.SetString(lang, "event.MATCH_CANCELED.title", "Zápas zrušen")
	message.SetString(lang, "event.MATCH_CANCELED.line", "Zápas %[2]s, %[3]s byl zrušen.")
	message.SetString(lang, "event.MATCH_UNCANCELED.title", "Zápas obnoven")
	message.SetString(lang, "event.MATCH_UNCANCELED.line", "Zápas %[2]s, %[3]s se nakonec hraje.")
}
